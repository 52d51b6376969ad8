package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/listing"
	"github.com/Brutalvik/smartai-shopping-sub000/metrics"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/repository"
)

var (
	ErrUnknownView       = apperrors.New(http.StatusBadRequest, "unknown dashboard view", nil)
	ErrViewsNotAvailable = apperrors.New(http.StatusServiceUnavailable, "saved views are not available", nil)
)

// IDashboardCache caches the raw lists a dashboard is computed from.
type IDashboardCache interface {
	Get(ctx context.Context, sellerID string, kind models.DashboardKind, dest interface{}) (int64, bool, error)
	SetAsync(sellerID string, kind models.DashboardKind, version int64, value interface{})
	Invalidate(ctx context.Context, sellerID string) error
}

// SalesRequest is a sales table request as parsed from the query string.
// Empty Sort, zero PerPage and nil Columns fall back to the saved view.
type SalesRequest struct {
	Filter  listing.SaleFilter
	Sort    string
	Page    int
	PerPage int
	Columns []string
}

type ProductsRequest struct {
	Filter  listing.ProductFilter
	Sort    string
	Page    int
	PerPage int
	Columns []string
}

type DashboardSummary struct {
	Sales    listing.SalesSummary   `json:"sales"`
	Products listing.ProductSummary `json:"products"`
}

// DashboardService renders the seller dashboard tables. Lists come from the
// catalog backend through the cache; the table is computed locally.
type DashboardService struct {
	catalog clients.CatalogAPI
	cache   IDashboardCache
	views   repository.ViewRepository
	logger  *zap.Logger
}

// NewDashboardService accepts a nil cache or view repository; without them
// every request fetches directly and only default views exist.
func NewDashboardService(catalog clients.CatalogAPI, cache IDashboardCache, views repository.ViewRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{catalog: catalog, cache: cache, views: views, logger: logger}
}

func (s *DashboardService) Sales(ctx context.Context, caller clients.Caller, req SalesRequest) (listing.Table, error) {
	saved := s.savedView(ctx, caller.UserID, models.DashboardSales)

	sort, err := listing.ParseSaleSort(firstNonEmpty(req.Sort, saved.Sort))
	if err != nil {
		return listing.Table{}, badQuery(err)
	}
	cols, err := listing.ParseColumns(models.DashboardSales, firstColumns(req.Columns, saved.ColumnList()))
	if err != nil {
		return listing.Table{}, badQuery(err)
	}
	if err := req.Filter.Validate(); err != nil {
		return listing.Table{}, badQuery(err)
	}

	sales, err := loadCached(ctx, s, caller, models.DashboardSales, s.catalog.ListSellerSales)
	if err != nil {
		return listing.Table{}, err
	}

	table, err := listing.RunSales(sales, listing.SalesQuery{
		Filter:  req.Filter,
		Sort:    sort,
		Page:    req.Page,
		PerPage: firstPositive(req.PerPage, saved.PerPage),
		Columns: cols,
	})
	if err != nil {
		return listing.Table{}, badQuery(err)
	}
	return table, nil
}

func (s *DashboardService) Products(ctx context.Context, caller clients.Caller, req ProductsRequest) (listing.Table, error) {
	saved := s.savedView(ctx, caller.UserID, models.DashboardProducts)

	sort, err := listing.ParseProductSort(firstNonEmpty(req.Sort, saved.Sort))
	if err != nil {
		return listing.Table{}, badQuery(err)
	}
	cols, err := listing.ParseColumns(models.DashboardProducts, firstColumns(req.Columns, saved.ColumnList()))
	if err != nil {
		return listing.Table{}, badQuery(err)
	}
	if err := req.Filter.Validate(); err != nil {
		return listing.Table{}, badQuery(err)
	}

	products, err := loadCached(ctx, s, caller, models.DashboardProducts, s.catalog.ListSellerProducts)
	if err != nil {
		return listing.Table{}, err
	}

	table, err := listing.RunProducts(products, listing.ProductsQuery{
		Filter:  req.Filter,
		Sort:    sort,
		Page:    req.Page,
		PerPage: firstPositive(req.PerPage, saved.PerPage),
		Columns: cols,
	})
	if err != nil {
		return listing.Table{}, badQuery(err)
	}
	return table, nil
}

// Summary fetches sales and products concurrently and aggregates both.
func (s *DashboardService) Summary(ctx context.Context, caller clients.Caller) (*DashboardSummary, error) {
	var (
		sales    []models.Sale
		products []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = loadCached(gctx, s, caller, models.DashboardSales, s.catalog.ListSellerSales)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = loadCached(gctx, s, caller, models.DashboardProducts, s.catalog.ListSellerProducts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Sales:    listing.SummarizeSales(sales),
		Products: listing.SummarizeProducts(products),
	}, nil
}

// GetView returns the seller's saved configuration with defaults filled in.
func (s *DashboardService) GetView(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardViewResponse, error) {
	if !models.ValidDashboardKind(kind) {
		return nil, ErrUnknownView
	}
	return resolveView(kind, s.savedView(ctx, sellerID, kind)), nil
}

// SaveView validates and stores a view. Empty fields are stored empty and
// mean "use the default".
func (s *DashboardService) SaveView(ctx context.Context, sellerID string, kind models.DashboardKind, req models.DashboardViewRequest) (*models.DashboardViewResponse, error) {
	if !models.ValidDashboardKind(kind) {
		return nil, ErrUnknownView
	}
	if s.views == nil {
		return nil, ErrViewsNotAvailable
	}

	view := &models.DashboardView{SellerID: sellerID, Kind: kind, PerPage: req.PerPage}

	if len(req.Columns) > 0 {
		cols, err := listing.ParseColumns(kind, req.Columns)
		if err != nil {
			return nil, badQuery(err)
		}
		view.SetColumns(cols)
	}
	if req.Sort != "" {
		sort, err := parseSortFor(kind, req.Sort)
		if err != nil {
			return nil, badQuery(err)
		}
		view.Sort = sort.String()
	}
	if view.PerPage < 0 || view.PerPage > listing.MaxPerPage {
		return nil, apperrors.New(http.StatusBadRequest, fmt.Sprintf("per_page must be between 0 and %d", listing.MaxPerPage), nil)
	}

	if err := s.views.Upsert(ctx, view); err != nil {
		return nil, fmt.Errorf("save dashboard view: %w", err)
	}
	s.logger.Info("dashboard view saved", zap.String("seller_id", sellerID), zap.String("view", string(kind)))
	return resolveView(kind, view), nil
}

// ResetView drops the saved view so defaults apply again.
func (s *DashboardService) ResetView(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardViewResponse, error) {
	if !models.ValidDashboardKind(kind) {
		return nil, ErrUnknownView
	}
	if s.views == nil {
		return nil, ErrViewsNotAvailable
	}
	if err := s.views.Delete(ctx, sellerID, kind); err != nil {
		return nil, fmt.Errorf("delete dashboard view: %w", err)
	}
	return resolveView(kind, nil), nil
}

// Invalidate drops every cached list of the seller.
func (s *DashboardService) Invalidate(ctx context.Context, sellerID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, sellerID)
}

// savedView never fails: a broken view store degrades to the defaults.
func (s *DashboardService) savedView(ctx context.Context, sellerID string, kind models.DashboardKind) *models.DashboardView {
	if s.views == nil {
		return &models.DashboardView{}
	}
	view, err := s.views.Find(ctx, sellerID, kind)
	if err != nil {
		s.logger.Warn("failed to load dashboard view", zap.String("seller_id", sellerID), zap.String("view", string(kind)), zap.Error(err))
		return &models.DashboardView{}
	}
	if view == nil {
		return &models.DashboardView{}
	}
	return view
}

// loadCached serves a seller list from the cache and falls back to fetch.
// Cache errors are logged and treated as a miss; the fetched list is only
// cached when the version it belongs to is known.
func loadCached[T any](ctx context.Context, s *DashboardService, caller clients.Caller, kind models.DashboardKind, fetch func(context.Context, clients.Caller) ([]T, error)) ([]T, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		var cached []T
		v, hit, err := s.cache.Get(ctx, caller.UserID, kind, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.String("seller_id", caller.UserID), zap.String("kind", string(kind)), zap.Error(err))
		} else {
			metrics.RecordCacheLookup(string(kind), hit)
			if hit {
				return cached, nil
			}
			version, cacheable = v, true
		}
	}

	items, err := fetch(ctx, caller)
	if err != nil {
		return nil, clients.ToAppError(err)
	}
	if cacheable {
		s.cache.SetAsync(caller.UserID, kind, version, items)
	}
	return items, nil
}

func resolveView(kind models.DashboardKind, view *models.DashboardView) *models.DashboardViewResponse {
	resp := &models.DashboardViewResponse{
		View:    kind,
		Columns: listing.DefaultColumns(kind),
		Sort:    defaultSortFor(kind).String(),
		PerPage: listing.DefaultPerPage,
	}
	if view == nil {
		return resp
	}
	if cols := view.ColumnList(); len(cols) > 0 {
		resp.Columns = cols
	}
	if view.Sort != "" {
		resp.Sort = view.Sort
	}
	if view.PerPage > 0 {
		resp.PerPage = view.PerPage
	}
	return resp
}

func parseSortFor(kind models.DashboardKind, raw string) (listing.SortSpec, error) {
	if kind == models.DashboardSales {
		return listing.ParseSaleSort(raw)
	}
	return listing.ParseProductSort(raw)
}

func defaultSortFor(kind models.DashboardKind) listing.SortSpec {
	if kind == models.DashboardSales {
		return listing.DefaultSaleSort
	}
	return listing.DefaultProductSort
}

// badQuery turns a listing error into a 400 carrying its message.
func badQuery(err error) error {
	switch {
	case errors.Is(err, listing.ErrInvalidRange),
		errors.Is(err, listing.ErrUnknownSort),
		errors.Is(err, listing.ErrUnknownColumn):
		return apperrors.New(http.StatusBadRequest, err.Error(), err)
	default:
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstColumns(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
