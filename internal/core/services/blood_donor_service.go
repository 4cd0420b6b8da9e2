package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/pkg/pagination"
	"cityguard/internal/pkg/validation"

	"gorm.io/gorm"
)

// Donor listing defaults
const (
	DonorSearchDefaultLimit = 20
	MatchingDonorsLimit     = 10
)

// BloodDonorService handles the donor registry logic
type BloodDonorService struct {
	donorRepo   repositories.BloodDonorRepository
	requestRepo repositories.BloodRequestRepository
}

// NewBloodDonorService creates a new blood donor service
func NewBloodDonorService(
	donorRepo repositories.BloodDonorRepository,
	requestRepo repositories.BloodRequestRepository,
) *BloodDonorService {
	return &BloodDonorService{
		donorRepo:   donorRepo,
		requestRepo: requestRepo,
	}
}

// RegisterDonorInput represents donor registration input
type RegisterDonorInput struct {
	BloodType     string  `json:"blood_type" validate:"required"`
	City          string  `json:"city" validate:"required,max=100"`
	Phone         string  `json:"phone" validate:"required,min=7,max=30"`
	Notes         string  `json:"notes" validate:"omitempty,max=500"`
	IsAvailable   *bool   `json:"is_available"`
	ReceiveAlerts *bool   `json:"receive_alerts"`
	MaxDistance   *int    `json:"max_distance" validate:"omitempty,min=1,max=1000"`
	LastDonation  *string `json:"last_donation"`
}

// UpdateDonorStatusInput represents availability toggles
type UpdateDonorStatusInput struct {
	IsAvailable   *bool `json:"is_available"`
	ReceiveAlerts *bool `json:"receive_alerts"`
	MaxDistance   *int  `json:"max_distance" validate:"omitempty,min=1,max=1000"`
}

// UpdateLastDonationInput represents donation date updates
type UpdateLastDonationInput struct {
	LastDonation   *string `json:"last_donation"`
	CanDonateAfter *string `json:"can_donate_after"`
}

// UpdateDonorProfileInput represents donor profile updates
type UpdateDonorProfileInput struct {
	BloodType *string `json:"blood_type"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,min=7,max=30"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

// DonorMatches carries matching donors for a blood request
type DonorMatches struct {
	Request *models.RequestResponse `json:"request"`
	Donors  []*models.DonorResponse `json:"donors"`
	Total   int                     `json:"total"`
}

// RegisterDonor registers the caller as a donor, or updates the existing
// registration (one row per user).
func (s *BloodDonorService) RegisterDonor(ctx context.Context, userID uint, input *RegisterDonorInput) (*models.DonorResponse, bool, error) {
	bloodType, ok := validation.NormalizeBloodType(input.BloodType)
	if !ok {
		return nil, false, domain.ErrInvalidBloodType
	}

	var lastDonation *time.Time
	if input.LastDonation != nil && *input.LastDonation != "" {
		parsed, err := validation.ParseDate(*input.LastDonation)
		if err != nil {
			return nil, false, domain.ErrInvalidInput
		}
		lastDonation = &parsed
	}

	donor, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := false
	if donor == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		donor = &models.BloodDonor{
			UserID:        userID,
			IsAvailable:   true,
			ReceiveAlerts: true,
			MaxDistance:   50,
		}
		created = true
	}

	donor.BloodType = bloodType
	donor.City = strings.TrimSpace(input.City)
	donor.Phone = strings.TrimSpace(input.Phone)
	donor.Notes = strings.TrimSpace(input.Notes)
	if input.IsAvailable != nil {
		donor.IsAvailable = *input.IsAvailable
	}
	if input.ReceiveAlerts != nil {
		donor.ReceiveAlerts = *input.ReceiveAlerts
	}
	if input.MaxDistance != nil {
		donor.MaxDistance = *input.MaxDistance
	}
	if lastDonation != nil {
		donor.LastDonation = lastDonation
	}

	if created {
		err = s.donorRepo.Create(ctx, donor)
	} else {
		err = s.donorRepo.Update(ctx, donor)
	}
	if err != nil {
		return nil, false, err
	}

	if created {
		log.Printf("✅ Blood donor registered: user %d (%s, %s)", userID, donor.BloodType, donor.City)
	}
	return donor.ToResponse(), created, nil
}

// GetDonorProfile returns the caller's donor registration
func (s *BloodDonorService) GetDonorProfile(ctx context.Context, userID uint) (*models.DonorResponse, error) {
	donor, err := s.getByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return donor.ToResponse(), nil
}

// UpdateDonorStatus applies partial availability updates
func (s *BloodDonorService) UpdateDonorStatus(ctx context.Context, userID uint, input *UpdateDonorStatusInput) (*models.DonorResponse, error) {
	donor, err := s.getByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.IsAvailable != nil {
		donor.IsAvailable = *input.IsAvailable
	}
	if input.ReceiveAlerts != nil {
		donor.ReceiveAlerts = *input.ReceiveAlerts
	}
	if input.MaxDistance != nil {
		donor.MaxDistance = *input.MaxDistance
	}

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return nil, err
	}
	return donor.ToResponse(), nil
}

// UpdateLastDonation records donation dates
func (s *BloodDonorService) UpdateLastDonation(ctx context.Context, userID uint, input *UpdateLastDonationInput) (*models.DonorResponse, error) {
	donor, err := s.getByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.LastDonation != nil && *input.LastDonation != "" {
		parsed, err := validation.ParseDate(*input.LastDonation)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		donor.LastDonation = &parsed
	}
	if input.CanDonateAfter != nil && *input.CanDonateAfter != "" {
		parsed, err := validation.ParseDate(*input.CanDonateAfter)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		donor.CanDonateAfter = &parsed
	}

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return nil, err
	}
	return donor.ToResponse(), nil
}

// UpdateDonorProfile applies partial profile updates
func (s *BloodDonorService) UpdateDonorProfile(ctx context.Context, userID uint, input *UpdateDonorProfileInput) (*models.DonorResponse, error) {
	donor, err := s.getByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.BloodType != nil {
		bloodType, ok := validation.NormalizeBloodType(*input.BloodType)
		if !ok {
			return nil, domain.ErrInvalidBloodType
		}
		donor.BloodType = bloodType
	}
	if input.City != nil {
		donor.City = strings.TrimSpace(*input.City)
	}
	if input.Phone != nil {
		donor.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Notes != nil {
		donor.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return nil, err
	}
	return donor.ToResponse(), nil
}

// GetAllDonors lists donors for admins
func (s *BloodDonorService) GetAllDonors(ctx context.Context, filter *repositories.DonorFilter, params *pagination.Params) ([]*models.DonorResponse, *pagination.Meta, error) {
	if filter.BloodType != "" {
		bloodType, ok := validation.NormalizeBloodType(filter.BloodType)
		if !ok {
			return nil, nil, domain.ErrInvalidBloodType
		}
		filter.BloodType = bloodType
	}

	donors, total, err := s.donorRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*models.DonorResponse, 0, len(donors))
	for _, d := range donors {
		responses = append(responses, d.ToResponse())
	}
	return responses, pagination.GetMeta(params, total), nil
}

// SearchDonors is the public donor search: available donors only, trimmed
// projection without contact details.
func (s *BloodDonorService) SearchDonors(ctx context.Context, filter *repositories.DonorFilter, limit int) ([]*models.PublicDonor, error) {
	if filter.BloodType != "" {
		bloodType, ok := validation.NormalizeBloodType(filter.BloodType)
		if !ok {
			return nil, domain.ErrInvalidBloodType
		}
		filter.BloodType = bloodType
	}
	if limit <= 0 {
		limit = DonorSearchDefaultLimit
	}

	donors, err := s.donorRepo.Search(ctx, filter, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*models.PublicDonor, 0, len(donors))
	for _, d := range donors {
		results = append(results, d.ToPublic())
	}
	return results, nil
}

// GetMatchingDonors finds eligible donors for one blood request: same blood
// type, city match, available and past the donation cooldown.
func (s *BloodDonorService) GetMatchingDonors(ctx context.Context, requestID uint) (*DonorMatches, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	donors, err := s.donorRepo.FindEligibleMatches(ctx, request.BloodType, request.City, time.Now(), MatchingDonorsLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.DonorResponse, 0, len(donors))
	for _, d := range donors {
		responses = append(responses, d.ToResponse())
	}

	return &DonorMatches{
		Request: request.ToResponse(),
		Donors:  responses,
		Total:   len(responses),
	}, nil
}

// GetDonorStatistics returns the public registry statistics
func (s *BloodDonorService) GetDonorStatistics(ctx context.Context) (*models.DonorStatistics, error) {
	return s.donorRepo.Statistics(ctx)
}

// getByUser loads the caller's donor row
func (s *BloodDonorService) getByUser(ctx context.Context, userID uint) (*models.BloodDonor, error) {
	donor, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonorNotFound
		}
		return nil, err
	}
	return donor, nil
}
