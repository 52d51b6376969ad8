package services

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/database"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	awspkg "github.com/Brutalvik/smartai-shopping-sub000/pkg/aws"
)

const (
	EventCheckoutRequested = "checkout.requested"

	// How long a checkout idempotency key is remembered.
	IdempotencyTTL = 24 * time.Hour
	// How long an in-flight claim blocks a retry with the same key.
	checkoutClaimTTL = 2 * time.Minute
	maxLineQuantity  = 99
)

var (
	ErrCartEmpty          = apperrors.New(http.StatusBadRequest, "cart is empty", nil)
	ErrItemNotInCart      = apperrors.New(http.StatusNotFound, "item not in cart", nil)
	ErrInvalidQuantity    = apperrors.New(http.StatusBadRequest, fmt.Sprintf("quantity must be between 1 and %d", maxLineQuantity), nil)
	ErrProductUnavailable = apperrors.New(http.StatusBadRequest, "product is not available", nil)
	ErrCheckoutInProgress = apperrors.New(http.StatusConflict, "checkout already in progress", nil)
)

type ICartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
	GetIdempotency(ctx context.Context, key string) (string, error)
	ReserveIdempotency(ctx context.Context, key string, ttl time.Duration) (bool, error)
	SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error
	ReleaseIdempotency(ctx context.Context, key string) error
}

// CartService keeps buyer carts in Redis and turns them into orders.
type CartService struct {
	store    ICartStore
	catalog  clients.CatalogAPI
	events   awspkg.SNSPublisher
	topicArn string
	cw       *awspkg.MetricsClient
	logger   *zap.Logger
}

func NewCartService(store ICartStore, catalog clients.CatalogAPI, events awspkg.SNSPublisher, topicArn string, cw *awspkg.MetricsClient, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{store: store, catalog: catalog, events: events, topicArn: topicArn, cw: cw, logger: logger}
}

// Get returns the user's cart, empty when none is stored.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	return cart, nil
}

// AddItem adds quantity units of a product, merging with an existing line.
// Name and price are looked up from the catalog.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 || quantity > maxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if clients.IsStatus(err, http.StatusNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, clients.ToAppError(err)
	}
	if product.Status == models.ProductDraft || product.Stock <= 0 {
		return nil, ErrProductUnavailable
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i, existing := range cart.Items {
		if existing.ProductID == productID {
			q := existing.Quantity + quantity
			if q > maxLineQuantity {
				return nil, ErrInvalidQuantity
			}
			cart.Items[i].Quantity = q
			cart.Items[i].Name = product.Name
			cart.Items[i].Price = product.Price
			found = true
			break
		}
	}
	if !found {
		item := models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		}
		if item.ProductID == "" {
			item.ProductID = productID
		}
		if len(product.Images) > 0 {
			item.Image = product.Images[0]
		}
		cart.Items = append(cart.Items, item)
	}

	return s.save(ctx, cart)
}

// SetQuantity sets the quantity of a line; zero removes it.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}
	if quantity < 0 || quantity > maxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return s.save(ctx, cart)
		}
	}
	return nil, ErrItemNotInCart
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	if len(items) == len(cart.Items) {
		return nil, ErrItemNotInCart
	}
	cart.Items = items
	return s.save(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.store.DeleteCart(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout places an order for the cart and clears it. With a non-empty
// idempotency key a repeated call returns the first order instead of placing
// another one.
func (s *CartService) Checkout(ctx context.Context, caller clients.Caller, idempotencyKey string) (*models.CheckoutResult, error) {
	var idemKey string
	if idempotencyKey != "" {
		idemKey = caller.UserID + ":" + idempotencyKey
		if res, err := s.replay(ctx, idemKey); res != nil || err != nil {
			return res, err
		}
		claimed, err := s.store.ReserveIdempotency(ctx, idemKey, checkoutClaimTTL)
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !claimed {
			if res, err := s.replay(ctx, idemKey); res != nil || err != nil {
				return res, err
			}
			return nil, ErrCheckoutInProgress
		}
	}

	result, err := s.placeOrder(ctx, caller, idempotencyKey)
	if err != nil {
		if idemKey != "" {
			if rerr := s.store.ReleaseIdempotency(ctx, idemKey); rerr != nil {
				s.logger.Warn("failed to release idempotency key", zap.String("user_id", caller.UserID), zap.Error(rerr))
			}
		}
		return nil, err
	}

	if idemKey != "" {
		if err := s.store.SetIdempotency(ctx, idemKey, result.OrderID, IdempotencyTTL); err != nil {
			s.logger.Warn("failed to record idempotency key", zap.String("user_id", caller.UserID), zap.String("order_id", result.OrderID), zap.Error(err))
		}
	}
	return result, nil
}

func (s *CartService) placeOrder(ctx context.Context, caller clients.Caller, idempotencyKey string) (*models.CheckoutResult, error) {
	cart, err := s.Get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	total := roundCents(cart.Subtotal())
	result, err := s.catalog.CreateOrder(ctx, caller, clients.OrderRequest{
		Items:          cart.Items,
		Total:          total,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, clients.ToAppError(err)
	}
	if result.Total == 0 {
		result.Total = total
	}

	if err := s.store.DeleteCart(ctx, caller.UserID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("user_id", caller.UserID), zap.Error(err))
	}

	event := models.CheckoutEvent{
		UserID:    caller.UserID,
		OrderID:   result.OrderID,
		Items:     cart.Items,
		Total:     result.Total,
		Timestamp: time.Now().UTC(),
	}
	if err := awspkg.PublishEvent(ctx, s.events, s.topicArn, EventCheckoutRequested, event); err != nil {
		s.logger.Warn("failed to publish checkout event", zap.String("order_id", result.OrderID), zap.Error(err))
	}
	_ = s.cw.RecordCount(ctx, awspkg.MetricCartCheckouts, nil)

	s.logger.Info("checkout completed",
		zap.String("user_id", caller.UserID),
		zap.String("order_id", result.OrderID),
		zap.Float64("total", result.Total),
	)
	return result, nil
}

// replay returns the recorded result for key, ErrCheckoutInProgress while
// another request holds the claim, or nil, nil when the key is unused.
func (s *CartService) replay(ctx context.Context, key string) (*models.CheckoutResult, error) {
	existing, err := s.store.GetIdempotency(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}
	switch {
	case existing == "":
		return nil, nil
	case database.IsPending(existing):
		return nil, ErrCheckoutInProgress
	default:
		return &models.CheckoutResult{OrderID: existing, Status: "accepted", Replayed: true}, nil
	}
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
