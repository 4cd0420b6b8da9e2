package repositories

import (
	"context"

	"cityguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// businessRepository implements BusinessRepository interface
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Create creates a new business
func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

// GetByID gets a business by ID
func (r *businessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).First(&business, id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// GetFirstByOwner gets the first business registered by an owner.
// Job creation resolves the posting business this way.
func (r *businessRepository) GetFirstByOwner(ctx context.Context, ownerID uint) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// ListByOwner lists all businesses owned by a user
func (r *businessRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Business, error) {
	var businesses []*models.Business
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&businesses).Error
	return businesses, err
}

// ListIDsByOwner lists the IDs of all businesses owned by a user
func (r *businessRepository) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	return ids, err
}

// Update updates a business
func (r *businessRepository) Update(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}

// Delete soft deletes a business
func (r *businessRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Business{}, id).Error
}

// CountByOwner counts businesses owned by a user
func (r *businessRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}
