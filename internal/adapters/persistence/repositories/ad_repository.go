package repositories

import (
	"context"
	"time"

	"cityguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// adSortColumns whitelists sortable fields for ad listings
var adSortColumns = map[string]string{
	"createdAt": "created_at",
	"priority":  "priority",
	"startAt":   "start_at",
	"endAt":     "end_at",
	"title":     "title",
}

// adRepository implements AdRepository interface
type adRepository struct {
	db *gorm.DB
}

// NewAdRepository creates a new ad repository
func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

// Create creates a new ad
func (r *adRepository) Create(ctx context.Context, ad *models.Ad) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

// GetByID gets an ad by ID with its target business
func (r *adRepository) GetByID(ctx context.Context, id uint) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.WithContext(ctx).
		Preload("Business").
		First(&ad, id).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// List lists ads for the admin/owner review board.
// Count and page run inside one transaction to avoid count/list skew.
func (r *adRepository) List(ctx context.Context, filter *AdFilter, offset, limit int) ([]*models.Ad, int64, error) {
	var ads []*models.Ad
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Ad{})

		if filter.Status != "" {
			query = query.Where("ads.status = ?", filter.Status)
		}
		if filter.BannerType != "" {
			query = query.Where("ads.banner_type = ?", filter.BannerType)
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			query = query.Where("LOWER(ads.title) LIKE LOWER(?) OR LOWER(ads.content) LIKE LOWER(?)", pattern, pattern)
		}
		if filter.OwnerID != 0 {
			query = query.
				Joins("JOIN businesses ON businesses.id = ads.target_id").
				Where("ads.target_type = ?", models.AdTargetBusiness).
				Where("businesses.owner_id = ?", filter.OwnerID)
		}

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		column, ok := adSortColumns[filter.SortBy]
		if !ok {
			column = "created_at"
		}
		direction := "DESC"
		if filter.SortOrder == "asc" {
			direction = "ASC"
		}

		return query.
			Preload("Business").
			Order("ads." + column + " " + direction).
			Offset(offset).
			Limit(limit).
			Find(&ads).Error
	})

	return ads, total, err
}

// ListServable lists ads eligible for public serving: active, approved and
// inside their start/end window, ordered priority desc then recency.
func (r *adRepository) ListServable(ctx context.Context, bannerType string, now time.Time, limit int) ([]*models.Ad, error) {
	var ads []*models.Ad

	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("status = ?", models.AdStatusApproved).
		Where("start_at <= ?", now).
		Where("end_at >= ?", now)

	if bannerType != "" {
		query = query.Where("banner_type = ?", bannerType)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.
		Order("priority DESC, created_at DESC").
		Find(&ads).Error
	return ads, err
}

// ListByOwner lists business ads of all businesses owned by a user
func (r *adRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Ad, error) {
	var ads []*models.Ad
	err := r.db.WithContext(ctx).
		Joins("JOIN businesses ON businesses.id = ads.target_id").
		Where("ads.target_type = ?", models.AdTargetBusiness).
		Where("businesses.owner_id = ?", ownerID).
		Order("ads.created_at DESC").
		Find(&ads).Error
	return ads, err
}

// Update updates an ad
func (r *adRepository) Update(ctx context.Context, ad *models.Ad) error {
	return r.db.WithContext(ctx).Save(ad).Error
}

// UpdateFields applies a partial column update
func (r *adRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete hard deletes an ad
func (r *adRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Ad{}, id).Error
}

// IncrementImpressions bumps the impression counter for a batch of served ads.
// The increment happens in SQL so concurrent serves never lose updates.
func (r *adRepository) IncrementImpressions(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("id IN ?", ids).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1)).Error
}

// IncrementClicks bumps the click counter atomically
func (r *adRepository) IncrementClicks(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1)).Error
}

// CountByBusinessIDs counts ads targeting any of the given businesses
func (r *adRepository) CountByBusinessIDs(ctx context.Context, businessIDs []uint) (int64, error) {
	if len(businessIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("target_type = ?", models.AdTargetBusiness).
		Where("target_id IN ?", businessIDs).
		Count(&count).Error
	return count, err
}
