package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// ViewRepository persists sellers' saved dashboard views.
type ViewRepository interface {
	Find(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardView, error)
	Upsert(ctx context.Context, view *models.DashboardView) error
	Delete(ctx context.Context, sellerID string, kind models.DashboardKind) error
}

// GormViewRepository implements ViewRepository using GORM.
type GormViewRepository struct {
	db *gorm.DB
}

func NewGormViewRepository(db *gorm.DB) ViewRepository {
	return &GormViewRepository{db: db}
}

// Find returns nil, nil when the seller has not saved a view of this kind.
func (r *GormViewRepository) Find(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardView, error) {
	var view models.DashboardView
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND view = ?", sellerID, kind).
		First(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Upsert inserts the view or overwrites the existing one for the same seller
// and kind.
func (r *GormViewRepository) Upsert(ctx context.Context, view *models.DashboardView) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seller_id"}, {Name: "view"}},
			DoUpdates: clause.AssignmentColumns([]string{"columns", "sort", "per_page", "updated_at"}),
		}).
		Create(view).Error
}

func (r *GormViewRepository) Delete(ctx context.Context, sellerID string, kind models.DashboardKind) error {
	return r.db.WithContext(ctx).
		Where("seller_id = ? AND view = ?", sellerID, kind).
		Delete(&models.DashboardView{}).Error
}
