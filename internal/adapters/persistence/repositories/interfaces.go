package repositories

import (
	"context"
	"time"

	"cityguard/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, search string, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	ListActive(ctx context.Context) ([]*models.RefreshToken, error)
	DeleteExpired(ctx context.Context) error
}

// BusinessRepository defines business repository interface
type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	GetFirstByOwner(ctx context.Context, ownerID uint) (*models.Business, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Business, error)
	ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, id uint) error
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}

// AdFilter narrows admin/owner ad listings
type AdFilter struct {
	Status     string
	BannerType string
	Search     string
	OwnerID    uint // scope to ads of businesses owned by this user
	SortBy     string
	SortOrder  string
}

// AdRepository defines ad repository interface
type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id uint) (*models.Ad, error)
	List(ctx context.Context, filter *AdFilter, offset, limit int) ([]*models.Ad, int64, error)
	ListServable(ctx context.Context, bannerType string, now time.Time, limit int) ([]*models.Ad, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Ad, error)
	Update(ctx context.Context, ad *models.Ad) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	IncrementImpressions(ctx context.Context, ids []uint) error
	IncrementClicks(ctx context.Context, id uint) error
	CountByBusinessIDs(ctx context.Context, businessIDs []uint) (int64, error)
}

// DonorFilter narrows donor listings
type DonorFilter struct {
	BloodType   string
	City        string
	IsAvailable *bool
}

// BloodDonorRepository defines blood donor repository interface
type BloodDonorRepository interface {
	Create(ctx context.Context, donor *models.BloodDonor) error
	GetByUserID(ctx context.Context, userID uint) (*models.BloodDonor, error)
	Update(ctx context.Context, donor *models.BloodDonor) error
	List(ctx context.Context, filter *DonorFilter, offset, limit int) ([]*models.BloodDonor, int64, error)
	Search(ctx context.Context, filter *DonorFilter, limit int) ([]*models.BloodDonor, error)
	FindEligibleMatches(ctx context.Context, bloodType, city string, now time.Time, limit int) ([]*models.BloodDonor, error)
	FindAlertMatches(ctx context.Context, bloodType, city string, limit int) ([]*models.BloodDonor, error)
	Statistics(ctx context.Context) (*models.DonorStatistics, error)
}

// RequestFilter narrows blood request listings
type RequestFilter struct {
	Status      string
	BloodType   string
	Urgency     string
	City        string
	Hospital    string
	Search      string
	RequesterID uint
	Unexpired   bool
	SortBy      string
	SortOrder   string
}

// BloodRequestRepository defines blood request repository interface
type BloodRequestRepository interface {
	Create(ctx context.Context, request *models.BloodRequest) error
	GetByID(ctx context.Context, id uint) (*models.BloodRequest, error)
	List(ctx context.Context, filter *RequestFilter, offset, limit int) ([]*models.BloodRequest, int64, error)
	Search(ctx context.Context, filter *RequestFilter, limit int) ([]*models.BloodRequest, error)
	Update(ctx context.Context, request *models.BloodRequest) error
	Delete(ctx context.Context, id uint) error
	Statistics(ctx context.Context) (*models.RequestStatistics, error)
}

// JobFilter narrows job listings
type JobFilter struct {
	City         string
	Region       string
	Type         string
	TypeExact    string
	Title        string
	Search       string
	BusinessID   uint
	IsActive     *bool
	Unexpired    bool
	CreatedAfter *time.Time
	SortBy       string
	SortOrder    string
}

// JobRepository defines job repository interface
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	List(ctx context.Context, filter *JobFilter, offset, limit int) ([]*models.Job, int64, error)
	Find(ctx context.Context, filter *JobFilter, limit int) ([]*models.Job, error)
	Count(ctx context.Context, filter *JobFilter) (int64, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uint) error
	Facets(ctx context.Context) (*models.JobFacets, error)
	PopularCategories(ctx context.Context, limit int) ([]models.CategoryCount, error)
	Statistics(ctx context.Context) (*models.JobStatistics, error)
	CountByBusinessIDs(ctx context.Context, businessIDs []uint) (int64, error)
}
