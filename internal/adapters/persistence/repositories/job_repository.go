package repositories

import (
	"context"
	"time"

	"cityguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// jobSortColumns whitelists sortable fields for job listings
var jobSortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"expiresAt": "expires_at",
}

// jobRepository implements JobRepository interface
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create creates a new job
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID gets a job by ID with its business
func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Preload("Business").
		First(&job, id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// applyJobFilter translates a JobFilter into query conditions
func applyJobFilter(query *gorm.DB, filter *JobFilter) *gorm.DB {
	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE LOWER(?)", "%"+filter.City+"%")
	}
	if filter.Region != "" {
		query = query.Where("LOWER(region) LIKE LOWER(?)", "%"+filter.Region+"%")
	}
	if filter.Type != "" {
		query = query.Where("LOWER(type) LIKE LOWER(?)", "%"+filter.Type+"%")
	}
	if filter.TypeExact != "" {
		query = query.Where("type = ?", filter.TypeExact)
	}
	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Title+"%")
	}
	if filter.BusinessID != 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(city) LIKE LOWER(?) OR LOWER(region) LIKE LOWER(?) OR LOWER(type) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	if filter.Unexpired {
		query = query.Where("expires_at IS NULL OR expires_at > ?", time.Now())
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	return query
}

// List lists jobs with pagination.
// Count and page run inside one transaction to avoid count/list skew.
func (r *jobRepository) List(ctx context.Context, filter *JobFilter, offset, limit int) ([]*models.Job, int64, error) {
	var jobs []*models.Job
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := applyJobFilter(tx.Model(&models.Job{}), filter)

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		column, ok := jobSortColumns[filter.SortBy]
		if !ok {
			column = "created_at"
		}
		direction := "DESC"
		if filter.SortOrder == "asc" {
			direction = "ASC"
		}

		return query.
			Preload("Business").
			Order(column + " " + direction).
			Offset(offset).
			Limit(limit).
			Find(&jobs).Error
	})

	return jobs, total, err
}

// Find lists jobs without pagination metadata (capped listings)
func (r *jobRepository) Find(ctx context.Context, filter *JobFilter, limit int) ([]*models.Job, error) {
	var jobs []*models.Job
	err := applyJobFilter(r.db.WithContext(ctx).Model(&models.Job{}), filter).
		Preload("Business").
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// Count counts jobs matching a filter
func (r *jobRepository) Count(ctx context.Context, filter *JobFilter) (int64, error) {
	var count int64
	err := applyJobFilter(r.db.WithContext(ctx).Model(&models.Job{}), filter).
		Count(&count).Error
	return count, err
}

// Update updates a job
func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// Delete soft deletes a job
func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Job{}, id).Error
}

// Facets returns the distinct category/city/region values of active,
// non-expired jobs, used to populate filter UIs.
func (r *jobRepository) Facets(ctx context.Context) (*models.JobFacets, error) {
	facets := &models.JobFacets{}

	live := func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Job{}).
			Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", time.Now())
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := live(tx).Where("type <> ''").Distinct("type").
			Pluck("type", &facets.Categories).Error; err != nil {
			return err
		}
		if err := live(tx).Where("city <> ''").Distinct("city").
			Pluck("city", &facets.Cities).Error; err != nil {
			return err
		}
		return live(tx).Where("region <> ''").Distinct("region").
			Pluck("region", &facets.Regions).Error
	})
	if err != nil {
		return nil, err
	}
	return facets, nil
}

// PopularCategories returns job categories by posting count
func (r *jobRepository) PopularCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	var categories []models.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Select("type AS grp, COUNT(id) AS cnt").
		Where("type <> ''").
		Where("is_active = ?", true).
		Group("type").
		Order("cnt DESC").
		Limit(limit).
		Scan(&categories).Error
	return categories, err
}

// Statistics aggregates the job board inside a single transaction
func (r *jobRepository) Statistics(ctx context.Context) (*models.JobStatistics, error) {
	stats := &models.JobStatistics{}
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Job{}).Count(&stats.TotalJobs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Job{}).
			Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", now).
			Count(&stats.ActiveJobs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Job{}).
			Where("expires_at < ?", now).
			Count(&stats.ExpiredJobs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Job{}).
			Select("type AS grp, COUNT(id) AS cnt").
			Where("is_active = ?", true).
			Group("type").
			Order("type ASC").
			Scan(&stats.JobsByType).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Job{}).
			Select("city AS grp, COUNT(id) AS cnt").
			Where("is_active = ?", true).
			Group("city").
			Order("city ASC").
			Scan(&stats.JobsByCity).Error; err != nil {
			return err
		}
		return tx.Model(&models.Job{}).
			Where("created_at >= ?", now.AddDate(0, 0, -30)).
			Count(&stats.RecentJobs).Error
	})
	if err != nil {
		return nil, err
	}

	if stats.TotalJobs > 0 {
		stats.ActivePercentage = int(float64(stats.ActiveJobs)/float64(stats.TotalJobs)*100 + 0.5)
	}
	return stats, nil
}

// CountByBusinessIDs counts jobs belonging to any of the given businesses
func (r *jobRepository) CountByBusinessIDs(ctx context.Context, businessIDs []uint) (int64, error) {
	if len(businessIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("business_id IN ?", businessIDs).
		Count(&count).Error
	return count, err
}
