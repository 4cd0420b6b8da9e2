package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/validation"

	"gorm.io/gorm"
)

// DefaultRejectionReason is used when an admin rejects without explanation
const DefaultRejectionReason = "لم يتم تحديد السبب"

// AdsByTypeLimit caps the per-placement public feed
const AdsByTypeLimit = 5

// AdService handles ad campaign logic
type AdService struct {
	adRepo       repositories.AdRepository
	businessRepo repositories.BusinessRepository
	storage      ImageStorage
}

// NewAdService creates a new ad service
func NewAdService(
	adRepo repositories.AdRepository,
	businessRepo repositories.BusinessRepository,
	storage ImageStorage,
) *AdService {
	return &AdService{
		adRepo:       adRepo,
		businessRepo: businessRepo,
		storage:      storage,
	}
}

// CreateAdInput represents ad creation input
type CreateAdInput struct {
	Title      string `json:"title" validate:"required,min=2,max=200"`
	Content    string `json:"content" validate:"omitempty,max=5000"`
	BannerType string `json:"banner_type" validate:"omitempty"`
	TargetType string `json:"target_type" validate:"required,oneof=EXTERNAL BUSINESS"`
	TargetID   *uint  `json:"target_id"`
	URL        string `json:"url" validate:"omitempty,max=500"`
	StartAt    string `json:"start_at" validate:"required"`
	EndAt      string `json:"end_at" validate:"required"`
}

// UpdateAdInput represents ad update input. Status, Priority and IsActive
// are honored only for admins.
type UpdateAdInput struct {
	Title      *string `json:"title" validate:"omitempty,min=2,max=200"`
	Content    *string `json:"content" validate:"omitempty,max=5000"`
	BannerType *string `json:"banner_type"`
	URL        *string `json:"url" validate:"omitempty,max=500"`
	StartAt    *string `json:"start_at"`
	EndAt      *string `json:"end_at"`
	Status     *string `json:"status"`
	Priority   *int    `json:"priority"`
	IsActive   *bool   `json:"is_active"`
}

// AdImages carries the optional per-device uploads
type AdImages struct {
	Image       *multipart.FileHeader
	MobileImage *multipart.FileHeader
	TabletImage *multipart.FileHeader
}

// CreateAd creates an ad in PENDING_REVIEW. Admins advertise external
// targets; owners advertise their own businesses.
func (s *AdService) CreateAd(ctx context.Context, actorID uint, actorRole string, input *CreateAdInput, images *AdImages) (*models.Ad, error) {
	bannerType := input.BannerType
	if bannerType == "" {
		bannerType = models.BannerMainHero
	}
	if !models.IsValidBannerType(bannerType) {
		return nil, domain.ErrInvalidBannerType
	}

	switch actorRole {
	case models.RoleAdmin:
		if input.TargetType != models.AdTargetExternal {
			return nil, domain.ErrInvalidAdTarget
		}
	case models.RoleOwner:
		if input.TargetType != models.AdTargetBusiness || input.TargetID == nil {
			return nil, domain.ErrInvalidAdTarget
		}
		business, err := s.businessRepo.GetByID(ctx, *input.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrBusinessNotFound
			}
			return nil, err
		}
		if business.OwnerID != actorID {
			return nil, domain.ErrNotBusinessOwner
		}
	default:
		return nil, domain.ErrForbidden
	}

	startAt, err := validation.ParseDate(input.StartAt)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	endAt, err := validation.ParseDate(input.EndAt)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if !endAt.After(startAt) {
		return nil, domain.ErrInvalidAdWindow
	}

	ad := &models.Ad{
		Title:      strings.TrimSpace(input.Title),
		Content:    strings.TrimSpace(input.Content),
		BannerType: bannerType,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		URL:        strings.TrimSpace(input.URL),
		Status:     models.AdStatusPendingReview,
		IsActive:   false,
		Priority:   0,
		StartAt:    startAt,
		EndAt:      endAt,
	}

	if images != nil {
		if err := s.attachImages(ad, images); err != nil {
			return nil, err
		}
	}

	if err := s.adRepo.Create(ctx, ad); err != nil {
		s.deleteAdImages(ad)
		return nil, err
	}

	log.Printf("✅ Ad created: %s (ID: %d, pending review)", ad.Title, ad.ID)
	return ad, nil
}

// GetPublicAds returns all servable ads and bumps their impressions
func (s *AdService) GetPublicAds(ctx context.Context) ([]*models.Ad, error) {
	ads, err := s.adRepo.ListServable(ctx, "", time.Now(), 0)
	if err != nil {
		return nil, err
	}

	s.recordImpressions(ctx, ads)
	return ads, nil
}

// GetAdsByType returns servable ads for one placement, capped
func (s *AdService) GetAdsByType(ctx context.Context, bannerType string) ([]*models.Ad, error) {
	if !models.IsValidBannerType(bannerType) {
		return nil, domain.ErrInvalidBannerType
	}

	ads, err := s.adRepo.ListServable(ctx, bannerType, time.Now(), AdsByTypeLimit)
	if err != nil {
		return nil, err
	}

	s.recordImpressions(ctx, ads)
	return ads, nil
}

// GetAllAds lists ads for admins (all) or owners (own businesses only)
func (s *AdService) GetAllAds(ctx context.Context, actorID uint, actorRole string, filter *repositories.AdFilter, params *pagination.Params) ([]*models.Ad, *pagination.Meta, error) {
	if actorRole == models.RoleOwner {
		filter.OwnerID = actorID
	} else if actorRole != models.RoleAdmin {
		return nil, nil, domain.ErrForbidden
	}

	if filter.Status != "" && !models.IsValidAdStatus(filter.Status) {
		return nil, nil, domain.ErrInvalidAdStatus
	}
	if filter.BannerType != "" && !models.IsValidBannerType(filter.BannerType) {
		return nil, nil, domain.ErrInvalidBannerType
	}

	ads, total, err := s.adRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	return ads, pagination.GetMeta(params, total), nil
}

// GetAd returns one ad; owners only see ads of their own businesses
func (s *AdService) GetAd(ctx context.Context, actorID uint, actorRole string, id uint) (*models.Ad, error) {
	return s.getManaged(ctx, actorID, actorRole, id)
}

// GetMyAds lists the owner's business ads, newest first
func (s *AdService) GetMyAds(ctx context.Context, ownerID uint) ([]*models.Ad, error) {
	return s.adRepo.ListByOwner(ctx, ownerID)
}

// UpdateAdStatus reviews an ad (admin only). Rejection forces a reason
// and deactivates; approval activates. Re-review is allowed.
func (s *AdService) UpdateAdStatus(ctx context.Context, id uint, status, reason string) (*models.Ad, error) {
	if !models.IsValidAdStatus(status) {
		return nil, domain.ErrInvalidAdStatus
	}

	if _, err := s.adRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{
		"status":    status,
		"is_active": status == models.AdStatusApproved,
	}

	switch status {
	case models.AdStatusRejected:
		if strings.TrimSpace(reason) == "" {
			reason = DefaultRejectionReason
		}
		fields["rejection_reason"] = reason
	default:
		fields["rejection_reason"] = ""
	}

	if err := s.adRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	log.Printf("✅ Ad %d reviewed: %s", id, status)
	return s.adRepo.GetByID(ctx, id)
}

// IncrementClicks bumps an ad's click counter
func (s *AdService) IncrementClicks(ctx context.Context, id uint) error {
	if _, err := s.adRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAdNotFound
		}
		return err
	}
	return s.adRepo.IncrementClicks(ctx, id)
}

// UpdateAd applies a partial update. Non-admins cannot touch status,
// priority or activation; those fields are stripped, not rejected.
func (s *AdService) UpdateAd(ctx context.Context, actorID uint, actorRole string, id uint, input *UpdateAdInput, images *AdImages) (*models.Ad, error) {
	ad, err := s.getManaged(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		ad.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		ad.Content = strings.TrimSpace(*input.Content)
	}
	if input.BannerType != nil {
		if !models.IsValidBannerType(*input.BannerType) {
			return nil, domain.ErrInvalidBannerType
		}
		ad.BannerType = *input.BannerType
	}
	if input.URL != nil {
		ad.URL = strings.TrimSpace(*input.URL)
	}

	// Re-validate the window against effective values
	startAt := ad.StartAt
	endAt := ad.EndAt
	if input.StartAt != nil {
		startAt, err = validation.ParseDate(*input.StartAt)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	if input.EndAt != nil {
		endAt, err = validation.ParseDate(*input.EndAt)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	if !endAt.After(startAt) {
		return nil, domain.ErrInvalidAdWindow
	}
	ad.StartAt = startAt
	ad.EndAt = endAt

	if actorRole == models.RoleAdmin {
		if input.Status != nil {
			if !models.IsValidAdStatus(*input.Status) {
				return nil, domain.ErrInvalidAdStatus
			}
			ad.Status = *input.Status
		}
		if input.Priority != nil {
			ad.Priority = *input.Priority
		}
		if input.IsActive != nil {
			ad.IsActive = *input.IsActive
		}
	}

	if images != nil {
		if err := s.replaceImages(ad, images); err != nil {
			return nil, err
		}
	}

	if err := s.adRepo.Update(ctx, ad); err != nil {
		return nil, err
	}

	return ad, nil
}

// DeleteAd removes an ad and its stored images
func (s *AdService) DeleteAd(ctx context.Context, actorID uint, actorRole string, id uint) error {
	ad, err := s.getManaged(ctx, actorID, actorRole, id)
	if err != nil {
		return err
	}

	s.deleteAdImages(ad)

	if err := s.adRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Ad deleted: ID %d", id)
	return nil
}

// getManaged loads an ad and enforces admin-or-owning-owner access
func (s *AdService) getManaged(ctx context.Context, actorID uint, actorRole string, id uint) (*models.Ad, error) {
	ad, err := s.adRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdNotFound
		}
		return nil, err
	}

	if actorRole == models.RoleAdmin {
		return ad, nil
	}

	if ad.TargetType != models.AdTargetBusiness || ad.TargetID == nil {
		return nil, domain.ErrForbidden
	}

	business, err := s.businessRepo.GetByID(ctx, *ad.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if business.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	return ad, nil
}

// recordImpressions bumps impressions best-effort; serving never fails on it
func (s *AdService) recordImpressions(ctx context.Context, ads []*models.Ad) {
	if len(ads) == 0 {
		return
	}
	ids := make([]uint, 0, len(ads))
	for _, ad := range ads {
		ids = append(ids, ad.ID)
	}
	if err := s.adRepo.IncrementImpressions(ctx, ids); err != nil {
		log.Printf("⚠️ Failed to record ad impressions: %v", err)
	}
}

// attachImages stores uploads on a fresh ad
func (s *AdService) attachImages(ad *models.Ad, images *AdImages) error {
	if images.Image != nil {
		img, err := s.storage.Save(images.Image)
		if err != nil {
			return err
		}
		ad.ImageURL, ad.ImageID = img.URL, img.ID
	}
	if images.MobileImage != nil {
		img, err := s.storage.Save(images.MobileImage)
		if err != nil {
			s.deleteAdImages(ad)
			return err
		}
		ad.MobileImageURL, ad.MobileImageID = img.URL, img.ID
	}
	if images.TabletImage != nil {
		img, err := s.storage.Save(images.TabletImage)
		if err != nil {
			s.deleteAdImages(ad)
			return err
		}
		ad.TabletImageURL, ad.TabletImageID = img.URL, img.ID
	}
	return nil
}

// replaceImages swaps stored images, deleting the previous file first
func (s *AdService) replaceImages(ad *models.Ad, images *AdImages) error {
	if images.Image != nil {
		if err := s.storage.Delete(ad.ImageID); err != nil {
			log.Printf("⚠️ Failed to delete ad image %s: %v", ad.ImageID, err)
		}
		img, err := s.storage.Save(images.Image)
		if err != nil {
			return err
		}
		ad.ImageURL, ad.ImageID = img.URL, img.ID
	}
	if images.MobileImage != nil {
		if err := s.storage.Delete(ad.MobileImageID); err != nil {
			log.Printf("⚠️ Failed to delete ad image %s: %v", ad.MobileImageID, err)
		}
		img, err := s.storage.Save(images.MobileImage)
		if err != nil {
			return err
		}
		ad.MobileImageURL, ad.MobileImageID = img.URL, img.ID
	}
	if images.TabletImage != nil {
		if err := s.storage.Delete(ad.TabletImageID); err != nil {
			log.Printf("⚠️ Failed to delete ad image %s: %v", ad.TabletImageID, err)
		}
		img, err := s.storage.Save(images.TabletImage)
		if err != nil {
			return err
		}
		ad.TabletImageURL, ad.TabletImageID = img.URL, img.ID
	}
	return nil
}

// deleteAdImages removes all stored images of an ad
func (s *AdService) deleteAdImages(ad *models.Ad) {
	for _, id := range []string{ad.ImageID, ad.MobileImageID, ad.TabletImageID} {
		if id == "" {
			continue
		}
		if err := s.storage.Delete(id); err != nil {
			log.Printf("⚠️ Failed to delete ad image %s: %v", id, err)
		}
	}
}
