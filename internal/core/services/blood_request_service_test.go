package services_test

import (
	"context"
	"testing"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"
	"cityguard/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestService(t *testing.T) (*services.BloodRequestService, *mockRequestRepo, *mockDonorRepo) {
	t.Helper()
	requestRepo := newMockRequestRepo()
	donorRepo := newMockDonorRepo()
	return services.NewBloodRequestService(requestRepo, donorRepo), requestRepo, donorRepo
}

func validCreateInput() *services.CreateRequestInput {
	return &services.CreateRequestInput{
		BloodType:    "o+",
		City:         "صنعاء",
		Hospital:     "مستشفى الثورة",
		ContactPhone: "777123456",
	}
}

func TestCreateRequestDefaults(t *testing.T) {
	svc, _, _ := newRequestService(t)

	request, err := svc.CreateRequest(context.Background(), nil, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "O+", request.BloodType)
	assert.Equal(t, 1, request.Units)
	assert.Equal(t, "normal", request.Urgency)
	assert.Equal(t, models.RequestStatusOpen, request.Status)
	assert.Nil(t, request.Requester)
}

func TestCreateRequestWithRequester(t *testing.T) {
	svc, requestRepo, _ := newRequestService(t)
	userID := uint(42)

	request, err := svc.CreateRequest(context.Background(), &userID, validCreateInput())
	require.NoError(t, err)

	stored := requestRepo.requests[request.ID]
	require.NotNil(t, stored.RequesterID)
	assert.Equal(t, uint(42), *stored.RequesterID)
}

func TestCreateRequestInvalidBloodType(t *testing.T) {
	svc, _, _ := newRequestService(t)
	input := validCreateInput()
	input.BloodType = "X+"

	_, err := svc.CreateRequest(context.Background(), nil, input)
	assert.ErrorIs(t, err, domain.ErrInvalidBloodType)
}

func TestCreateRequestUnitsOutOfRange(t *testing.T) {
	svc, _, _ := newRequestService(t)

	for _, units := range []int{-1, 11, 100} {
		input := validCreateInput()
		input.Units = units
		_, err := svc.CreateRequest(context.Background(), nil, input)
		assert.ErrorIs(t, err, domain.ErrInvalidUnits, "units %d", units)
	}
}

func TestCreateRequestInvalidUrgency(t *testing.T) {
	svc, _, _ := newRequestService(t)
	input := validCreateInput()
	input.Urgency = "asap"

	_, err := svc.CreateRequest(context.Background(), nil, input)
	assert.ErrorIs(t, err, domain.ErrInvalidUrgency)
}

func TestGetAllRequestsDefaultsToOpen(t *testing.T) {
	svc, requestRepo, _ := newRequestService(t)

	_, _, err := svc.GetAllRequests(context.Background(), &repositories.RequestFilter{}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusOpen, requestRepo.lastFilter.Status)
	assert.True(t, requestRepo.lastFilter.Unexpired)
}

func TestGetAllRequestsRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newRequestService(t)

	_, _, err := svc.GetAllRequests(context.Background(), &repositories.RequestFilter{Status: "closed"}, pagination.New(1, 10))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateRequestDropsStatusForNonAdmin(t *testing.T) {
	svc, _, _ := newRequestService(t)
	ctx := context.Background()
	userID := uint(5)
	created, err := svc.CreateRequest(ctx, &userID, validCreateInput())
	require.NoError(t, err)

	status := models.RequestStatusFulfilled
	updated, err := svc.UpdateRequest(ctx, 5, models.RoleUser, created.ID, &services.UpdateRequestInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusOpen, updated.Status)
}

func TestUpdateRequestStatusHonoredForAdmin(t *testing.T) {
	svc, _, _ := newRequestService(t)
	ctx := context.Background()
	userID := uint(5)
	created, err := svc.CreateRequest(ctx, &userID, validCreateInput())
	require.NoError(t, err)

	status := models.RequestStatusFulfilled
	updated, err := svc.UpdateRequest(ctx, 1, models.RoleAdmin, created.ID, &services.UpdateRequestInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusFulfilled, updated.Status)
}

func TestUpdateRequestForbiddenForStranger(t *testing.T) {
	svc, _, _ := newRequestService(t)
	ctx := context.Background()
	userID := uint(5)
	created, err := svc.CreateRequest(ctx, &userID, validCreateInput())
	require.NoError(t, err)

	city := "عدن"
	_, err = svc.UpdateRequest(ctx, 9, models.RoleUser, created.ID, &services.UpdateRequestInput{City: &city})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateAnonymousRequestAdminOnly(t *testing.T) {
	svc, _, _ := newRequestService(t)
	ctx := context.Background()
	created, err := svc.CreateRequest(ctx, nil, validCreateInput())
	require.NoError(t, err)

	city := "عدن"
	_, err = svc.UpdateRequest(ctx, 5, models.RoleUser, created.ID, &services.UpdateRequestInput{City: &city})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateRequest(ctx, 1, models.RoleAdmin, created.ID, &services.UpdateRequestInput{City: &city})
	assert.NoError(t, err)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _, _ := newRequestService(t)
	ctx := context.Background()
	created, err := svc.CreateRequest(ctx, nil, validCreateInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, created.ID, "done")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	updated, err := svc.UpdateStatus(ctx, created.ID, models.RequestStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, updated.Status)
}

func TestSearchRequestsForcesOpenUnexpired(t *testing.T) {
	svc, requestRepo, _ := newRequestService(t)

	_, err := svc.SearchRequests(context.Background(), &repositories.RequestFilter{City: "تعز"}, 0)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusOpen, requestRepo.lastFilter.Status)
	assert.True(t, requestRepo.lastFilter.Unexpired)
}

func TestMatchDonors(t *testing.T) {
	svc, _, donorRepo := newRequestService(t)
	ctx := context.Background()
	created, err := svc.CreateRequest(ctx, nil, validCreateInput())
	require.NoError(t, err)

	donorRepo.alertMatches = []*models.BloodDonor{
		{ID: 1, UserID: 1, BloodType: "O+", City: "صنعاء"},
		{ID: 2, UserID: 2, BloodType: "O+", City: "صنعاء"},
		{ID: 3, UserID: 3, BloodType: "O+", City: "عدن"},
	}

	matches, err := svc.MatchDonors(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, matches.Total)
	assert.Equal(t, 2, matches.CityCounts["صنعاء"])
	assert.Equal(t, 1, matches.CityCounts["عدن"])
}

func TestMatchDonorsRequestNotFound(t *testing.T) {
	svc, _, _ := newRequestService(t)

	_, err := svc.MatchDonors(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}
