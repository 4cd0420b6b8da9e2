package repositories

import (
	"context"
	"time"

	"cityguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bloodDonorRepository implements BloodDonorRepository interface
type bloodDonorRepository struct {
	db *gorm.DB
}

// NewBloodDonorRepository creates a new blood donor repository
func NewBloodDonorRepository(db *gorm.DB) BloodDonorRepository {
	return &bloodDonorRepository{db: db}
}

// Create creates a new donor row
func (r *bloodDonorRepository) Create(ctx context.Context, donor *models.BloodDonor) error {
	return r.db.WithContext(ctx).Create(donor).Error
}

// GetByUserID gets the donor row for a user (unique per user)
func (r *bloodDonorRepository) GetByUserID(ctx context.Context, userID uint) (*models.BloodDonor, error) {
	var donor models.BloodDonor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

// Update updates a donor row
func (r *bloodDonorRepository) Update(ctx context.Context, donor *models.BloodDonor) error {
	return r.db.WithContext(ctx).Save(donor).Error
}

// applyDonorFilter translates a DonorFilter into query conditions
func applyDonorFilter(query *gorm.DB, filter *DonorFilter) *gorm.DB {
	if filter.BloodType != "" {
		query = query.Where("blood_type = ?", filter.BloodType)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+filter.City+"%")
	}
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}
	return query
}

// List lists donors for the admin board.
// Count and page run inside one transaction to avoid count/list skew.
func (r *bloodDonorRepository) List(ctx context.Context, filter *DonorFilter, offset, limit int) ([]*models.BloodDonor, int64, error) {
	var donors []*models.BloodDonor
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := applyDonorFilter(tx.Model(&models.BloodDonor{}), filter)

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		return query.
			Preload("User").
			Order("created_at DESC").
			Offset(offset).
			Limit(limit).
			Find(&donors).Error
	})

	return donors, total, err
}

// Search lists available donors for the public search endpoint
func (r *bloodDonorRepository) Search(ctx context.Context, filter *DonorFilter, limit int) ([]*models.BloodDonor, error) {
	var donors []*models.BloodDonor
	err := applyDonorFilter(r.db.WithContext(ctx).Where("is_available = ?", true), filter).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&donors).Error
	return donors, err
}

// FindEligibleMatches finds available donors for a request: same blood type,
// city substring match, and past the donation cooldown (never donated, last
// donation at least 90 days ago, or an explicit can-donate-after date passed).
// Ordered oldest donation first so long-rested donors are contacted first.
func (r *bloodDonorRepository) FindEligibleMatches(ctx context.Context, bloodType, city string, now time.Time, limit int) ([]*models.BloodDonor, error) {
	var donors []*models.BloodDonor
	cutoff := now.AddDate(0, 0, -models.DonationCooldownDays)

	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Where("blood_type = ?", bloodType).
		Where("LOWER(city) LIKE LOWER(?)", "%"+city+"%").
		Where("last_donation IS NULL OR last_donation <= ? OR can_donate_after <= ?", cutoff, now).
		Preload("User").
		Order("last_donation ASC").
		Limit(limit).
		Find(&donors).Error
	return donors, err
}

// FindAlertMatches finds donors to notify about a request: exact blood type
// and city, available and opted into alerts.
func (r *bloodDonorRepository) FindAlertMatches(ctx context.Context, bloodType, city string, limit int) ([]*models.BloodDonor, error) {
	var donors []*models.BloodDonor
	query := r.db.WithContext(ctx).
		Where("blood_type = ?", bloodType).
		Where("is_available = ?", true).
		Where("receive_alerts = ?", true)
	if city != "" {
		query = query.Where("city = ?", city)
	}

	err := query.
		Preload("User").
		Limit(limit).
		Find(&donors).Error
	return donors, err
}

// Statistics aggregates the registry inside a single transaction
func (r *bloodDonorRepository) Statistics(ctx context.Context) (*models.DonorStatistics, error) {
	stats := &models.DonorStatistics{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BloodDonor{}).Count(&stats.TotalDonors).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BloodDonor{}).
			Where("is_available = ?", true).
			Count(&stats.ActiveDonors).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BloodDonor{}).
			Select("blood_type AS grp, COUNT(id) AS cnt").
			Where("is_available = ?", true).
			Group("blood_type").
			Scan(&stats.DonorsByBloodType).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BloodDonor{}).
			Select("city AS grp, COUNT(id) AS cnt").
			Where("is_available = ?", true).
			Group("city").
			Scan(&stats.DonorsByCity).Error; err != nil {
			return err
		}
		return tx.Model(&models.BloodDonor{}).
			Where("created_at >= ?", time.Now().AddDate(0, 0, -30)).
			Count(&stats.RecentDonors).Error
	})
	if err != nil {
		return nil, err
	}

	if stats.TotalDonors > 0 {
		stats.ActivationRate = int(float64(stats.ActiveDonors)/float64(stats.TotalDonors)*100 + 0.5)
	}
	return stats, nil
}
