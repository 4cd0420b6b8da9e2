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

// Request listing defaults
const (
	RequestSearchDefaultLimit = 10
	AlertDonorsLimit          = 20
)

// BloodRequestService handles the request board logic
type BloodRequestService struct {
	requestRepo repositories.BloodRequestRepository
	donorRepo   repositories.BloodDonorRepository
}

// NewBloodRequestService creates a new blood request service
func NewBloodRequestService(
	requestRepo repositories.BloodRequestRepository,
	donorRepo repositories.BloodDonorRepository,
) *BloodRequestService {
	return &BloodRequestService{
		requestRepo: requestRepo,
		donorRepo:   donorRepo,
	}
}

// CreateRequestInput represents blood request creation input
type CreateRequestInput struct {
	BloodType    string  `json:"blood_type" validate:"required"`
	Units        int     `json:"units"`
	Urgency      string  `json:"urgency"`
	City         string  `json:"city" validate:"required,max=100"`
	Hospital     string  `json:"hospital" validate:"required,max=200"`
	ContactPhone string  `json:"contact_phone" validate:"required,min=7,max=30"`
	Notes        string  `json:"notes" validate:"omitempty,max=1000"`
	ExpiresAt    *string `json:"expires_at"`
}

// UpdateRequestInput represents blood request update input. Status is
// honored only for admins.
type UpdateRequestInput struct {
	BloodType    *string `json:"blood_type"`
	Units        *int    `json:"units"`
	Urgency      *string `json:"urgency"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	Hospital     *string `json:"hospital" validate:"omitempty,max=200"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,min=7,max=30"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
	ExpiresAt    *string `json:"expires_at"`
	Status       *string `json:"status"`
}

// AlertMatches carries alert-ready donors for one request
type AlertMatches struct {
	Request    *models.RequestResponse `json:"request"`
	Donors     []*models.DonorResponse `json:"donors"`
	CityCounts map[string]int          `json:"city_counts"`
	Total      int                     `json:"total"`
}

// CreateRequest posts a blood request. RequesterID is nil for anonymous
// callers.
func (s *BloodRequestService) CreateRequest(ctx context.Context, requesterID *uint, input *CreateRequestInput) (*models.RequestResponse, error) {
	bloodType, ok := validation.NormalizeBloodType(input.BloodType)
	if !ok {
		return nil, domain.ErrInvalidBloodType
	}

	units := input.Units
	if units == 0 {
		units = 1
	}
	if units < 1 || units > 10 {
		return nil, domain.ErrInvalidUnits
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = "normal"
	}
	if !validation.IsValidUrgency(urgency) {
		return nil, domain.ErrInvalidUrgency
	}

	var expiresAt *time.Time
	if input.ExpiresAt != nil && *input.ExpiresAt != "" {
		parsed, err := validation.ParseDate(*input.ExpiresAt)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		expiresAt = &parsed
	}

	request := &models.BloodRequest{
		RequesterID:  requesterID,
		BloodType:    bloodType,
		Units:        units,
		Urgency:      urgency,
		City:         strings.TrimSpace(input.City),
		Hospital:     strings.TrimSpace(input.Hospital),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Notes:        strings.TrimSpace(input.Notes),
		Status:       models.RequestStatusOpen,
		ExpiresAt:    expiresAt,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Printf("✅ Blood request created: %s in %s (urgency: %s)", request.BloodType, request.City, request.Urgency)
	return request.ToResponse(), nil
}

// GetAllRequests lists requests. Without an explicit status filter only
// open, unexpired requests are returned.
func (s *BloodRequestService) GetAllRequests(ctx context.Context, filter *repositories.RequestFilter, params *pagination.Params) ([]*models.RequestResponse, *pagination.Meta, error) {
	if filter.Status == "" {
		filter.Status = models.RequestStatusOpen
		filter.Unexpired = true
	} else if !validation.IsValidRequestStatus(filter.Status) {
		return nil, nil, domain.ErrInvalidStatus
	}

	if filter.BloodType != "" {
		bloodType, ok := validation.NormalizeBloodType(filter.BloodType)
		if !ok {
			return nil, nil, domain.ErrInvalidBloodType
		}
		filter.BloodType = bloodType
	}
	if filter.Urgency != "" && !validation.IsValidUrgency(filter.Urgency) {
		return nil, nil, domain.ErrInvalidUrgency
	}

	requests, total, err := s.requestRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*models.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}
	return responses, pagination.GetMeta(params, total), nil
}

// GetRequest returns one request
func (s *BloodRequestService) GetRequest(ctx context.Context, id uint) (*models.RequestResponse, error) {
	request, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return request.ToResponse(), nil
}

// GetMyRequests lists the caller's own requests
func (s *BloodRequestService) GetMyRequests(ctx context.Context, userID uint, status string, params *pagination.Params) ([]*models.RequestResponse, *pagination.Meta, error) {
	if status != "" && !validation.IsValidRequestStatus(status) {
		return nil, nil, domain.ErrInvalidStatus
	}

	filter := &repositories.RequestFilter{
		RequesterID: userID,
		Status:      status,
	}

	requests, total, err := s.requestRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	responses := make([]*models.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}
	return responses, pagination.GetMeta(params, total), nil
}

// UpdateRequest applies a partial update by the requester or an admin.
// Non-admin status changes are dropped, not rejected.
func (s *BloodRequestService) UpdateRequest(ctx context.Context, actorID uint, actorRole string, id uint, input *UpdateRequestInput) (*models.RequestResponse, error) {
	request, err := s.getOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if input.BloodType != nil {
		bloodType, ok := validation.NormalizeBloodType(*input.BloodType)
		if !ok {
			return nil, domain.ErrInvalidBloodType
		}
		request.BloodType = bloodType
	}
	if input.Units != nil {
		if *input.Units < 1 || *input.Units > 10 {
			return nil, domain.ErrInvalidUnits
		}
		request.Units = *input.Units
	}
	if input.Urgency != nil {
		if !validation.IsValidUrgency(*input.Urgency) {
			return nil, domain.ErrInvalidUrgency
		}
		request.Urgency = *input.Urgency
	}
	if input.City != nil {
		request.City = strings.TrimSpace(*input.City)
	}
	if input.Hospital != nil {
		request.Hospital = strings.TrimSpace(*input.Hospital)
	}
	if input.ContactPhone != nil {
		request.ContactPhone = strings.TrimSpace(*input.ContactPhone)
	}
	if input.Notes != nil {
		request.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.ExpiresAt != nil && *input.ExpiresAt != "" {
		parsed, err := validation.ParseDate(*input.ExpiresAt)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		request.ExpiresAt = &parsed
	}

	if input.Status != nil && actorRole == models.RoleAdmin {
		if !validation.IsValidRequestStatus(*input.Status) {
			return nil, domain.ErrInvalidStatus
		}
		request.Status = *input.Status
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request.ToResponse(), nil
}

// DeleteRequest removes a request (requester or admin)
func (s *BloodRequestService) DeleteRequest(ctx context.Context, actorID uint, actorRole string, id uint) error {
	if _, err := s.getOwned(ctx, actorID, actorRole, id); err != nil {
		return err
	}

	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Blood request deleted: ID %d", id)
	return nil
}

// UpdateStatus transitions a request (admin only)
func (s *BloodRequestService) UpdateStatus(ctx context.Context, id uint, status string) (*models.RequestResponse, error) {
	if !validation.IsValidRequestStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	request, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	request.Status = status
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	log.Printf("✅ Blood request %d status: %s", id, status)
	return request.ToResponse(), nil
}

// SearchRequests is the public urgent-first search over open requests
func (s *BloodRequestService) SearchRequests(ctx context.Context, filter *repositories.RequestFilter, limit int) ([]*models.RequestResponse, error) {
	if filter.BloodType != "" {
		bloodType, ok := validation.NormalizeBloodType(filter.BloodType)
		if !ok {
			return nil, domain.ErrInvalidBloodType
		}
		filter.BloodType = bloodType
	}

	filter.Status = models.RequestStatusOpen
	filter.Unexpired = true
	if limit <= 0 {
		limit = RequestSearchDefaultLimit
	}

	requests, err := s.requestRepo.Search(ctx, filter, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}
	return responses, nil
}

// MatchDonors finds alert-ready donors for one request: exact blood type
// and city, available and opted into alerts.
func (s *BloodRequestService) MatchDonors(ctx context.Context, id uint) (*AlertMatches, error) {
	request, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	donors, err := s.donorRepo.FindAlertMatches(ctx, request.BloodType, request.City, AlertDonorsLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.DonorResponse, 0, len(donors))
	cityCounts := make(map[string]int)
	for _, d := range donors {
		responses = append(responses, d.ToResponse())
		cityCounts[d.City]++
	}

	return &AlertMatches{
		Request:    request.ToResponse(),
		Donors:     responses,
		CityCounts: cityCounts,
		Total:      len(responses),
	}, nil
}

// GetStatistics returns the public request board statistics
func (s *BloodRequestService) GetStatistics(ctx context.Context) (*models.RequestStatistics, error) {
	return s.requestRepo.Statistics(ctx)
}

// get loads a request by ID
func (s *BloodRequestService) get(ctx context.Context, id uint) (*models.BloodRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

// getOwned loads a request and enforces requester-or-admin access.
// Anonymous requests are managed by admins only.
func (s *BloodRequestService) getOwned(ctx context.Context, actorID uint, actorRole string, id uint) (*models.BloodRequest, error) {
	request, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleAdmin {
		if request.RequesterID == nil || *request.RequesterID != actorID {
			return nil, domain.ErrForbidden
		}
	}
	return request, nil
}
