package repositories

import (
	"context"
	"time"

	"cityguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// requestSortColumns whitelists sortable fields for request listings
var requestSortColumns = map[string]string{
	"createdAt": "created_at",
	"urgency":   "urgency",
	"expiresAt": "expires_at",
	"units":     "units",
}

// urgencyRank orders urgency levels for search results (critical first)
const urgencyRank = "CASE urgency WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 ELSE 1 END"

// bloodRequestRepository implements BloodRequestRepository interface
type bloodRequestRepository struct {
	db *gorm.DB
}

// NewBloodRequestRepository creates a new blood request repository
func NewBloodRequestRepository(db *gorm.DB) BloodRequestRepository {
	return &bloodRequestRepository{db: db}
}

// Create creates a new blood request
func (r *bloodRequestRepository) Create(ctx context.Context, request *models.BloodRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID gets a blood request by ID
func (r *bloodRequestRepository) GetByID(ctx context.Context, id uint) (*models.BloodRequest, error) {
	var request models.BloodRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// applyRequestFilter translates a RequestFilter into query conditions
func applyRequestFilter(query *gorm.DB, filter *RequestFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BloodType != "" {
		query = query.Where("blood_type = ?", filter.BloodType)
	}
	if filter.Urgency != "" {
		query = query.Where("urgency = ?", filter.Urgency)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+filter.City+"%")
	}
	if filter.Hospital != "" {
		query = query.Where("LOWER(hospital) LIKE LOWER(?)", "%"+filter.Hospital+"%")
	}
	if filter.RequesterID != 0 {
		query = query.Where("requester_id = ?", filter.RequesterID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(hospital) LIKE LOWER(?) OR LOWER(city) LIKE LOWER(?) OR LOWER(notes) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Unexpired {
		query = query.Where("expires_at IS NULL OR expires_at >= ?", time.Now())
	}
	return query
}

// List lists blood requests.
// Count and page run inside one transaction to avoid count/list skew.
func (r *bloodRequestRepository) List(ctx context.Context, filter *RequestFilter, offset, limit int) ([]*models.BloodRequest, int64, error) {
	var requests []*models.BloodRequest
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := applyRequestFilter(tx.Model(&models.BloodRequest{}), filter)

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		column, ok := requestSortColumns[filter.SortBy]
		if !ok {
			column = "created_at"
		}
		direction := "DESC"
		if filter.SortOrder == "asc" {
			direction = "ASC"
		}

		return query.
			Preload("Requester").
			Order(column + " " + direction).
			Offset(offset).
			Limit(limit).
			Find(&requests).Error
	})

	return requests, total, err
}

// Search lists open requests for the public quick search,
// most urgent first, then most recent.
func (r *bloodRequestRepository) Search(ctx context.Context, filter *RequestFilter, limit int) ([]*models.BloodRequest, error) {
	var requests []*models.BloodRequest
	err := applyRequestFilter(r.db.WithContext(ctx).Model(&models.BloodRequest{}), filter).
		Order(urgencyRank + " DESC, created_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

// Update updates a blood request
func (r *bloodRequestRepository) Update(ctx context.Context, request *models.BloodRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Delete hard deletes a blood request
func (r *bloodRequestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BloodRequest{}, id).Error
}

// Statistics aggregates the request board inside a single transaction
func (r *bloodRequestRepository) Statistics(ctx context.Context) (*models.RequestStatistics, error) {
	stats := &models.RequestStatistics{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BloodRequest{}).Count(&stats.TotalRequests).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BloodRequest{}).
			Where("status = ?", models.RequestStatusOpen).
			Count(&stats.OpenRequests).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BloodRequest{}).
			Where("status = ?", models.RequestStatusFulfilled).
			Count(&stats.FulfilledRequests).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BloodRequest{}).
			Select("blood_type AS grp, COUNT(id) AS cnt").
			Where("status = ?", models.RequestStatusOpen).
			Group("blood_type").
			Scan(&stats.RequestsByBloodType).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BloodRequest{}).
			Select("city AS grp, COUNT(id) AS cnt").
			Where("status = ?", models.RequestStatusOpen).
			Group("city").
			Scan(&stats.RequestsByCity).Error; err != nil {
			return err
		}
		return tx.Model(&models.BloodRequest{}).
			Where("status = ? AND urgency = ?", models.RequestStatusOpen, "critical").
			Count(&stats.UrgentRequests).Error
	})
	if err != nil {
		return nil, err
	}

	if stats.TotalRequests > 0 {
		stats.FulfillmentRate = int(float64(stats.FulfilledRequests)/float64(stats.TotalRequests)*100 + 0.5)
	}
	return stats, nil
}
