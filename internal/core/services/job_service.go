package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/validation"

	"gorm.io/gorm"
)

// Job listing defaults
const (
	JobRenewDefaultDays      = 30
	JobsByCategoryLimit      = 10
	PopularCategoriesLimit   = 10
	QuickSearchDefaultLimit  = 5
	QuickSearchMinQueryChars = 2
	FeaturedJobsDefaultLimit = 6
)

// JobService handles the job board logic
type JobService struct {
	jobRepo      repositories.JobRepository
	businessRepo repositories.BusinessRepository
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo repositories.JobRepository,
	businessRepo repositories.BusinessRepository,
) *JobService {
	return &JobService{
		jobRepo:      jobRepo,
		businessRepo: businessRepo,
	}
}

// CreateJobInput represents job creation input. Salary accepts a string
// or a number.
type CreateJobInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	City        string      `json:"city"`
	Region      string      `json:"region"`
	Type        string      `json:"type"`
	Salary      interface{} `json:"salary"`
	ExpiresAt   string      `json:"expires_at"`
}

// UpdateJobInput represents job update input
type UpdateJobInput struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	City        *string     `json:"city"`
	Region      *string     `json:"region"`
	Type        *string     `json:"type"`
	Salary      interface{} `json:"salary"`
	ExpiresAt   *string     `json:"expires_at"`
	IsActive    *bool       `json:"is_active"`
}

// JobListing bundles a page of jobs with the live facet lists
type JobListing struct {
	Jobs   []*models.Job     `json:"jobs"`
	Meta   *pagination.Meta  `json:"meta"`
	Facets *models.JobFacets `json:"facets"`
}

// NewJobsNotification summarizes fresh postings for the notification badge
type NewJobsNotification struct {
	NewJobs24h       int64     `json:"new_jobs_24h"`
	NewJobsInCity7d  int64     `json:"new_jobs_in_city_7d"`
	City             string    `json:"city,omitempty"`
	HasNotifications bool      `json:"has_notifications"`
	LastChecked      time.Time `json:"last_checked"`
}

// CreateJob posts a job on the caller's first business. A non-nil field
// error map means the input failed validation.
func (s *JobService) CreateJob(ctx context.Context, ownerID uint, input *CreateJobInput) (*models.Job, map[string]string, error) {
	business, err := s.businessRepo.GetFirstByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNoBusiness
		}
		return nil, nil, err
	}

	if fieldErrors := validation.ValidateJobInput(&validation.JobInput{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Salary:      input.Salary,
		ExpiresAt:   input.ExpiresAt,
	}); len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	jobType := strings.TrimSpace(input.Type)
	if jobType == "" {
		jobType = "عام"
	}

	var expiresAt *time.Time
	if input.ExpiresAt != "" {
		parsed, _ := validation.ParseDate(input.ExpiresAt)
		expiresAt = &parsed
	}

	job := &models.Job{
		BusinessID:  business.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		City:        strings.TrimSpace(input.City),
		Region:      strings.TrimSpace(input.Region),
		Type:        jobType,
		Salary:      formatSalary(input.Salary),
		IsActive:    true,
		ExpiresAt:   expiresAt,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, nil, err
	}

	log.Printf("✅ Job created: %s (business: %d)", job.Title, business.ID)
	return job, nil, nil
}

// GetAllJobs lists jobs with filters, pagination and facet lists.
// Expired postings never appear.
func (s *JobService) GetAllJobs(ctx context.Context, filter *repositories.JobFilter, params *pagination.Params) (*JobListing, error) {
	filter.Unexpired = true

	jobs, total, err := s.jobRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	facets, err := s.jobRepo.Facets(ctx)
	if err != nil {
		return nil, err
	}

	return &JobListing{
		Jobs:   jobs,
		Meta:   pagination.GetMeta(params, total),
		Facets: facets,
	}, nil
}

// GetJob returns one posting. Expired postings are reported as gone,
// the row itself is retained.
func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.IsExpired() {
		return nil, domain.ErrJobExpired
	}
	return job, nil
}

// UpdateJob applies a partial update by an admin or the owner of the
// job's business
func (s *JobService) UpdateJob(ctx context.Context, actorID uint, actorRole string, id uint, input *UpdateJobInput) (*models.Job, map[string]string, error) {
	job, err := s.getManaged(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, nil, err
	}

	check := &validation.JobInput{
		Title:       job.Title,
		Description: job.Description,
		Type:        job.Type,
		Salary:      input.Salary,
	}
	if input.Title != nil {
		check.Title = *input.Title
	}
	if input.Description != nil {
		check.Description = *input.Description
	}
	if input.Type != nil {
		check.Type = *input.Type
	}
	if input.ExpiresAt != nil {
		check.ExpiresAt = *input.ExpiresAt
	}
	if fieldErrors := validation.ValidateJobInput(check); len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	if input.Title != nil {
		job.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		job.Description = strings.TrimSpace(*input.Description)
	}
	if input.City != nil {
		job.City = strings.TrimSpace(*input.City)
	}
	if input.Region != nil {
		job.Region = strings.TrimSpace(*input.Region)
	}
	if input.Type != nil && *input.Type != "" {
		job.Type = *input.Type
	}
	if input.Salary != nil {
		job.Salary = formatSalary(input.Salary)
	}
	if input.ExpiresAt != nil && *input.ExpiresAt != "" {
		parsed, _ := validation.ParseDate(*input.ExpiresAt)
		job.ExpiresAt = &parsed
	}
	if input.IsActive != nil {
		job.IsActive = *input.IsActive
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, nil, err
	}
	return job, nil, nil
}

// DeleteJob soft deletes a posting
func (s *JobService) DeleteJob(ctx context.Context, actorID uint, actorRole string, id uint) error {
	if _, err := s.getManaged(ctx, actorID, actorRole, id); err != nil {
		return err
	}

	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Job deleted: ID %d", id)
	return nil
}

// RenewJob pushes the expiry forward and reactivates the posting
func (s *JobService) RenewJob(ctx context.Context, actorID uint, actorRole string, id uint, days int) (*models.Job, error) {
	job, err := s.getManaged(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = JobRenewDefaultDays
	}

	expiresAt := time.Now().AddDate(0, 0, days)
	job.ExpiresAt = &expiresAt
	job.IsActive = true

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	log.Printf("✅ Job %d renewed for %d days", id, days)
	return job, nil
}

// ToggleJobStatus flips the posting's active flag
func (s *JobService) ToggleJobStatus(ctx context.Context, actorID uint, actorRole string, id uint) (*models.Job, error) {
	job, err := s.getManaged(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	job.IsActive = !job.IsActive
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetBusinessJobs lists one business's postings for its owner or an admin
func (s *JobService) GetBusinessJobs(ctx context.Context, actorID uint, actorRole string, businessID uint, isActive *bool, params *pagination.Params) ([]*models.Job, *pagination.Meta, error) {
	if businessID == 0 {
		// No explicit business, fall back to the caller's first one
		business, err := s.businessRepo.GetFirstByOwner(ctx, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, domain.ErrNoBusiness
			}
			return nil, nil, err
		}
		businessID = business.ID
	} else {
		business, err := s.businessRepo.GetByID(ctx, businessID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, domain.ErrBusinessNotFound
			}
			return nil, nil, err
		}
		if actorRole != models.RoleAdmin && business.OwnerID != actorID {
			return nil, nil, domain.ErrNotBusinessOwner
		}
	}

	filter := &repositories.JobFilter{
		BusinessID: businessID,
		IsActive:   isActive,
	}

	jobs, total, err := s.jobRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}
	return jobs, pagination.GetMeta(params, total), nil
}

// GetStatistics returns the job board statistics (admin)
func (s *JobService) GetStatistics(ctx context.Context) (*models.JobStatistics, error) {
	return s.jobRepo.Statistics(ctx)
}

// GetPopularCategories returns the most used categories
func (s *JobService) GetPopularCategories(ctx context.Context) ([]models.CategoryCount, error) {
	return s.jobRepo.PopularCategories(ctx, PopularCategoriesLimit)
}

// GetJobsByCategory lists active postings of one category
func (s *JobService) GetJobsByCategory(ctx context.Context, category string, limit int) ([]*models.Job, error) {
	if !validation.IsValidJobType(category) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = JobsByCategoryLimit
	}

	active := true
	return s.jobRepo.Find(ctx, &repositories.JobFilter{
		TypeExact: category,
		IsActive:  &active,
		Unexpired: true,
	}, limit)
}

// QuickSearch runs the lightweight search box query. Queries shorter
// than two characters return an empty result, not an error.
func (s *JobService) QuickSearch(ctx context.Context, query string, limit int) ([]*models.Job, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < QuickSearchMinQueryChars {
		return []*models.Job{}, nil
	}
	if limit <= 0 {
		limit = QuickSearchDefaultLimit
	}

	active := true
	return s.jobRepo.Find(ctx, &repositories.JobFilter{
		Search:    query,
		IsActive:  &active,
		Unexpired: true,
	}, limit)
}

// GetFeaturedJobs returns the newest active postings for the landing page
func (s *JobService) GetFeaturedJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = FeaturedJobsDefaultLimit
	}

	active := true
	return s.jobRepo.Find(ctx, &repositories.JobFilter{
		IsActive:  &active,
		Unexpired: true,
	}, limit)
}

// GetJobsInMyCity lists active postings matching the given city
func (s *JobService) GetJobsInMyCity(ctx context.Context, city string, params *pagination.Params) ([]*models.Job, *pagination.Meta, error) {
	active := true
	filter := &repositories.JobFilter{
		City:      strings.TrimSpace(city),
		IsActive:  &active,
		Unexpired: true,
	}

	jobs, total, err := s.jobRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}
	return jobs, pagination.GetMeta(params, total), nil
}

// GetNewJobsNotification counts fresh postings for the notification badge.
// City is taken from the caller's token when present.
func (s *JobService) GetNewJobsNotification(ctx context.Context, city string) (*NewJobsNotification, error) {
	now := time.Now()
	active := true

	since24h := now.Add(-24 * time.Hour)
	count24h, err := s.jobRepo.Count(ctx, &repositories.JobFilter{
		IsActive:     &active,
		Unexpired:    true,
		CreatedAfter: &since24h,
	})
	if err != nil {
		return nil, err
	}

	var cityCount int64
	city = strings.TrimSpace(city)
	if city != "" {
		since7d := now.AddDate(0, 0, -7)
		cityCount, err = s.jobRepo.Count(ctx, &repositories.JobFilter{
			City:         city,
			IsActive:     &active,
			Unexpired:    true,
			CreatedAfter: &since7d,
		})
		if err != nil {
			return nil, err
		}
	}

	return &NewJobsNotification{
		NewJobs24h:       count24h,
		NewJobsInCity7d:  cityCount,
		City:             city,
		HasNotifications: count24h > 0 || cityCount > 0,
		LastChecked:      now,
	}, nil
}

// get loads a posting by ID
func (s *JobService) get(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// getManaged loads a posting and enforces admin-or-business-owner access
func (s *JobService) getManaged(ctx context.Context, actorID uint, actorRole string, id uint) (*models.Job, error) {
	job, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorRole == models.RoleAdmin {
		return job, nil
	}

	business, err := s.businessRepo.GetByID(ctx, job.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if business.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

// formatSalary normalizes the string-or-number salary field
func formatSalary(salary interface{}) string {
	switch v := salary.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
