package services

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	awspkg "github.com/Brutalvik/smartai-shopping-sub000/pkg/aws"
)

const (
	DefaultUploadExpiry = 15 * time.Minute
	MaxUploadExpiry     = time.Hour
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

var (
	ErrProductNotFound  = apperrors.New(http.StatusNotFound, "product not found", nil)
	ErrInvalidImageType = apperrors.New(http.StatusBadRequest, "invalid image type. Allowed: jpeg, jpg, png, webp, gif", nil)
	ErrUploadsDisabled  = apperrors.New(http.StatusServiceUnavailable, "image uploads are not configured", nil)
)

// UploadURL is a presigned upload handed to the browser.
type UploadURL struct {
	URL       string            `json:"upload_url"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ProductService manages a seller's catalog through the catalog backend.
// Every successful write invalidates the seller's dashboard cache and
// publishes a product.<action> event.
type ProductService struct {
	catalog   clients.CatalogAPI
	dashboard *DashboardService
	presigner awspkg.ObjectPresigner
	maxExpiry time.Duration
	events    awspkg.SNSPublisher
	topicArn  string
	cw        *awspkg.MetricsClient
	logger    *zap.Logger
}

func NewProductService(catalog clients.CatalogAPI, dashboard *DashboardService, presigner awspkg.ObjectPresigner, maxExpiry time.Duration, events awspkg.SNSPublisher, topicArn string, cw *awspkg.MetricsClient, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxExpiry <= 0 || maxExpiry > MaxUploadExpiry {
		maxExpiry = MaxUploadExpiry
	}
	return &ProductService{
		catalog:   catalog,
		dashboard: dashboard,
		presigner: presigner,
		maxExpiry: maxExpiry,
		events:    events,
		topicArn:  topicArn,
		cw:        cw,
		logger:    logger,
	}
}

func (s *ProductService) Get(ctx context.Context, caller clients.Caller, productID string) (*models.Product, error) {
	product, err := s.catalog.GetSellerProduct(ctx, caller, productID)
	if err != nil {
		if clients.IsStatus(err, http.StatusNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, clients.ToAppError(err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, caller clients.Caller, in models.ProductInput) (*models.Product, error) {
	in = normalizeProductInput(in)
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product, err := s.catalog.CreateSellerProduct(ctx, caller, in)
	if err != nil {
		return nil, clients.ToAppError(err)
	}
	s.changed(ctx, caller.UserID, "created", product.ID)
	_ = s.cw.RecordCount(ctx, awspkg.MetricProductsCreated, map[string]string{"Category": product.Category})
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, caller clients.Caller, productID string, in models.ProductInput) (*models.Product, error) {
	in = normalizeProductInput(in)
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product, err := s.catalog.UpdateSellerProduct(ctx, caller, productID, in)
	if err != nil {
		if clients.IsStatus(err, http.StatusNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, clients.ToAppError(err)
	}
	s.changed(ctx, caller.UserID, "updated", productID)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, caller clients.Caller, productID string) error {
	if err := s.catalog.DeleteSellerProduct(ctx, caller, productID); err != nil {
		if clients.IsStatus(err, http.StatusNotFound) {
			return ErrProductNotFound
		}
		return clients.ToAppError(err)
	}
	s.changed(ctx, caller.UserID, "deleted", productID)
	return nil
}

// UploadURL presigns an image upload under products/<seller>/<uuid>-<file>.
// A zero expires uses the default; anything above the cap is clamped.
func (s *ProductService) UploadURL(ctx context.Context, caller clients.Caller, filename, contentType string, expires time.Duration) (*UploadURL, error) {
	if s.presigner == nil {
		return nil, ErrUploadsDisabled
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, ErrInvalidImageType
	}
	name := sanitizeFilename(filename, contentType)

	if expires <= 0 {
		expires = DefaultUploadExpiry
	}
	if expires > s.maxExpiry {
		expires = s.maxExpiry
	}

	key := fmt.Sprintf("products/%s/%s-%s", caller.UserID, uuid.NewString(), name)
	url, headers, err := s.presigner.PresignPut(ctx, key, contentType, expires)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &UploadURL{
		URL:       url,
		Key:       key,
		Headers:   headers,
		ExpiresAt: time.Now().UTC().Add(expires),
	}, nil
}

// changed runs the best-effort side effects of a catalog write.
func (s *ProductService) changed(ctx context.Context, sellerID, action, productID string) {
	if s.dashboard != nil {
		if err := s.dashboard.Invalidate(ctx, sellerID); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", zap.String("seller_id", sellerID), zap.Error(err))
		}
	}

	payload := map[string]string{"seller_id": sellerID, "product_id": productID}
	if err := awspkg.PublishEvent(ctx, s.events, s.topicArn, "product."+action, payload); err != nil {
		s.logger.Warn("failed to publish product event", zap.String("action", action), zap.String("product_id", productID), zap.Error(err))
	}
	s.logger.Info("product "+action, zap.String("seller_id", sellerID), zap.String("product_id", productID))
}

func normalizeProductInput(in models.ProductInput) models.ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Status == "" {
		in.Status = models.ProductDraft
	}
	return in
}

func validateProductInput(in models.ProductInput) error {
	if err := validate.Struct(&in); err != nil {
		return apperrors.New(http.StatusBadRequest, "validation failed: "+err.Error(), err)
	}
	return nil
}

// sanitizeFilename keeps the base name readable in the object key and makes
// sure it ends in an extension matching the content type.
func sanitizeFilename(filename, contentType string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	name = unsafeFilename.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "image"
	}
	ext := strings.ToLower(filepath.Ext(name))
	want := allowedImageTypes[contentType]
	if ext != want && !(want == ".jpg" && ext == ".jpeg") {
		name += want
	}
	return name
}
