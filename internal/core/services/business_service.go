package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"path"
	"strings"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"

	"gorm.io/gorm"
)

// MaxBusinessImages caps uploads per business
const MaxBusinessImages = 10

// BusinessService handles business directory logic
type BusinessService struct {
	businessRepo repositories.BusinessRepository
	userRepo     repositories.UserRepository
	jobRepo      repositories.JobRepository
	adRepo       repositories.AdRepository
	storage      ImageStorage
}

// NewBusinessService creates a new business service
func NewBusinessService(
	businessRepo repositories.BusinessRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	adRepo repositories.AdRepository,
	storage ImageStorage,
) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		userRepo:     userRepo,
		jobRepo:      jobRepo,
		adRepo:       adRepo,
		storage:      storage,
	}
}

// CreateBusinessInput represents business creation input
type CreateBusinessInput struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Website     string `json:"website" validate:"omitempty,max=255"`
}

// UpdateBusinessInput represents business update input
type UpdateBusinessInput struct {
	Name         *string  `json:"name" validate:"omitempty,min=2,max=150"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	City         *string  `json:"city" validate:"omitempty,max=100"`
	Address      *string  `json:"address" validate:"omitempty,max=255"`
	Phone        *string  `json:"phone" validate:"omitempty,max=30"`
	Website      *string  `json:"website" validate:"omitempty,max=255"`
	RemoveImages []string `json:"remove_images"`
}

// BusinessStats summarizes jobs and ads of one business
type BusinessStats struct {
	BusinessID uint  `json:"business_id"`
	TotalJobs  int64 `json:"total_jobs"`
	ActiveJobs int64 `json:"active_jobs"`
	TotalAds   int64 `json:"total_ads"`
}

// CreateBusiness creates a business owned by the caller. A USER creating
// their first business is promoted to OWNER.
func (s *BusinessService) CreateBusiness(ctx context.Context, ownerID uint, input *CreateBusinessInput, images []*multipart.FileHeader) (*models.BusinessResponse, error) {
	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if len(images) > MaxBusinessImages {
		images = images[:MaxBusinessImages]
	}

	stored, err := s.saveImages(images)
	if err != nil {
		return nil, err
	}

	business := &models.Business{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		City:        strings.TrimSpace(input.City),
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		Website:     strings.TrimSpace(input.Website),
	}
	business.SetImageList(stored)

	if err := s.businessRepo.Create(ctx, business); err != nil {
		s.deleteImages(stored)
		return nil, err
	}

	if user.Role == models.RoleUser {
		user.Role = models.RoleOwner
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("✅ User %d promoted to OWNER", ownerID)
	}

	log.Printf("✅ Business created: %s (owner: %d)", business.Name, ownerID)
	return business.ToResponse(), nil
}

// GetOwnerBusinesses lists the caller's businesses
func (s *BusinessService) GetOwnerBusinesses(ctx context.Context, ownerID uint) ([]*models.BusinessResponse, error) {
	businesses, err := s.businessRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		responses = append(responses, b.ToResponse())
	}
	return responses, nil
}

// GetBusiness returns one business for its owner or an admin
func (s *BusinessService) GetBusiness(ctx context.Context, actorID uint, actorRole string, id uint) (*models.BusinessResponse, error) {
	business, err := s.getOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	return business.ToResponse(), nil
}

// CheckUserBusiness reports whether the caller owns at least one business
func (s *BusinessService) CheckUserBusiness(ctx context.Context, userID uint) (bool, int64, error) {
	count, err := s.businessRepo.CountByOwner(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	return count > 0, count, nil
}

// UpdateBusiness applies a partial update. Listed remove_images are deleted
// from storage and new uploads are appended.
func (s *BusinessService) UpdateBusiness(ctx context.Context, actorID uint, actorRole string, id uint, input *UpdateBusinessInput, images []*multipart.FileHeader) (*models.BusinessResponse, error) {
	business, err := s.getOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		business.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		business.Description = strings.TrimSpace(*input.Description)
	}
	if input.City != nil {
		business.City = strings.TrimSpace(*input.City)
	}
	if input.Address != nil {
		business.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		business.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Website != nil {
		business.Website = strings.TrimSpace(*input.Website)
	}

	current := business.ImageList()

	if len(input.RemoveImages) > 0 {
		remove := make(map[string]bool, len(input.RemoveImages))
		for _, url := range input.RemoveImages {
			remove[url] = true
		}

		kept := make([]string, 0, len(current))
		for _, url := range current {
			if remove[url] {
				if err := s.storage.Delete(path.Base(url)); err != nil {
					log.Printf("⚠️ Failed to delete business image %s: %v", url, err)
				}
				continue
			}
			kept = append(kept, url)
		}
		current = kept
	}

	if len(images) > 0 {
		room := MaxBusinessImages - len(current)
		if room < 0 {
			room = 0
		}
		if len(images) > room {
			images = images[:room]
		}
		stored, err := s.saveImages(images)
		if err != nil {
			return nil, err
		}
		current = append(current, stored...)
	}

	business.SetImageList(current)

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}

	return business.ToResponse(), nil
}

// DeleteBusiness soft deletes a business and removes its stored images
func (s *BusinessService) DeleteBusiness(ctx context.Context, actorID uint, actorRole string, id uint) error {
	business, err := s.getOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return err
	}

	s.deleteImages(business.ImageList())

	if err := s.businessRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Business deleted: ID %d", id)
	return nil
}

// GetBusinessStats returns job and ad counts for one business
func (s *BusinessService) GetBusinessStats(ctx context.Context, actorID uint, actorRole string, id uint) (*BusinessStats, error) {
	business, err := s.getOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	totalJobs, err := s.jobRepo.Count(ctx, &repositories.JobFilter{BusinessID: business.ID})
	if err != nil {
		return nil, err
	}

	active := true
	activeJobs, err := s.jobRepo.Count(ctx, &repositories.JobFilter{
		BusinessID: business.ID,
		IsActive:   &active,
		Unexpired:  true,
	})
	if err != nil {
		return nil, err
	}

	totalAds, err := s.adRepo.CountByBusinessIDs(ctx, []uint{business.ID})
	if err != nil {
		return nil, err
	}

	return &BusinessStats{
		BusinessID: business.ID,
		TotalJobs:  totalJobs,
		ActiveJobs: activeJobs,
		TotalAds:   totalAds,
	}, nil
}

// getOwned loads a business and enforces owner-or-admin access
func (s *BusinessService) getOwned(ctx context.Context, actorID uint, actorRole string, id uint) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBusinessNotFound
		}
		return nil, err
	}

	if actorRole != models.RoleAdmin && business.OwnerID != actorID {
		return nil, domain.ErrNotBusinessOwner
	}
	return business, nil
}

// saveImages stores uploads and returns their public URLs
func (s *BusinessService) saveImages(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		img, err := s.storage.Save(f)
		if err != nil {
			s.deleteImages(urls)
			return nil, err
		}
		urls = append(urls, img.URL)
	}
	return urls, nil
}

// deleteImages removes stored images, logging failures
func (s *BusinessService) deleteImages(urls []string) {
	for _, url := range urls {
		if err := s.storage.Delete(path.Base(url)); err != nil {
			log.Printf("⚠️ Failed to delete stored image %s: %v", url, err)
		}
	}
}
