package services_test

import (
	"context"
	"testing"
	"time"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdService(t *testing.T) (*services.AdService, *mockAdRepo, *mockBusinessRepo) {
	t.Helper()
	adRepo := newMockAdRepo()
	businessRepo := newMockBusinessRepo()
	return services.NewAdService(adRepo, businessRepo, nil), adRepo, businessRepo
}

func externalAdInput() *services.CreateAdInput {
	return &services.CreateAdInput{
		Title:      "عرض خاص",
		TargetType: models.AdTargetExternal,
		StartAt:    "2026-01-01",
		EndAt:      "2026-02-01",
	}
}

func TestCreateAdByAdmin(t *testing.T) {
	svc, _, _ := newAdService(t)

	ad, err := svc.CreateAd(context.Background(), 1, models.RoleAdmin, externalAdInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusPendingReview, ad.Status)
	assert.False(t, ad.IsActive)
	assert.Equal(t, 0, ad.Priority)
	assert.Equal(t, models.BannerMainHero, ad.BannerType)
}

func TestCreateAdAdminCannotTargetBusiness(t *testing.T) {
	svc, _, businessRepo := newAdService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 1}))

	input := externalAdInput()
	targetID := uint(1)
	input.TargetType = models.AdTargetBusiness
	input.TargetID = &targetID

	_, err := svc.CreateAd(ctx, 1, models.RoleAdmin, input, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAdTarget)
}

func TestCreateAdOwnerMustOwnTarget(t *testing.T) {
	svc, _, businessRepo := newAdService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 7}))

	input := externalAdInput()
	targetID := uint(1)
	input.TargetType = models.AdTargetBusiness
	input.TargetID = &targetID

	_, err := svc.CreateAd(ctx, 5, models.RoleOwner, input, nil)
	assert.ErrorIs(t, err, domain.ErrNotBusinessOwner)

	ad, err := svc.CreateAd(ctx, 7, models.RoleOwner, input, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AdTargetBusiness, ad.TargetType)
}

func TestCreateAdOwnerCannotCreateExternal(t *testing.T) {
	svc, _, _ := newAdService(t)

	_, err := svc.CreateAd(context.Background(), 5, models.RoleOwner, externalAdInput(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAdTarget)
}

func TestCreateAdInvalidWindow(t *testing.T) {
	svc, _, _ := newAdService(t)
	input := externalAdInput()
	input.StartAt = "2026-02-01"
	input.EndAt = "2026-01-01"

	_, err := svc.CreateAd(context.Background(), 1, models.RoleAdmin, input, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAdWindow)
}

func TestCreateAdInvalidBannerType(t *testing.T) {
	svc, _, _ := newAdService(t)
	input := externalAdInput()
	input.BannerType = "NAVBAR"

	_, err := svc.CreateAd(context.Background(), 1, models.RoleAdmin, input, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidBannerType)
}

func TestUpdateAdStatusRejectionDefaultsReason(t *testing.T) {
	svc, _, _ := newAdService(t)
	ctx := context.Background()
	created, err := svc.CreateAd(ctx, 1, models.RoleAdmin, externalAdInput(), nil)
	require.NoError(t, err)

	ad, err := svc.UpdateAdStatus(ctx, created.ID, models.AdStatusRejected, "")
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusRejected, ad.Status)
	assert.False(t, ad.IsActive)
	assert.Equal(t, services.DefaultRejectionReason, ad.RejectionReason)

	ad, err = svc.UpdateAdStatus(ctx, created.ID, models.AdStatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusApproved, ad.Status)
	assert.True(t, ad.IsActive)
	assert.Empty(t, ad.RejectionReason)
}

func TestUpdateAdStatusInvalid(t *testing.T) {
	svc, _, _ := newAdService(t)

	_, err := svc.UpdateAdStatus(context.Background(), 1, "ARCHIVED", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAdStatus)
}

func TestUpdateAdStripsAdminFieldsForOwner(t *testing.T) {
	svc, _, businessRepo := newAdService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 7}))

	input := externalAdInput()
	targetID := uint(1)
	input.TargetType = models.AdTargetBusiness
	input.TargetID = &targetID
	created, err := svc.CreateAd(ctx, 7, models.RoleOwner, input, nil)
	require.NoError(t, err)

	status := models.AdStatusApproved
	priority := 9
	active := true
	updated, err := svc.UpdateAd(ctx, 7, models.RoleOwner, created.ID, &services.UpdateAdInput{
		Status:   &status,
		Priority: &priority,
		IsActive: &active,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusPendingReview, updated.Status)
	assert.Equal(t, 0, updated.Priority)
	assert.False(t, updated.IsActive)
}

func TestUpdateAdHonorsAdminFields(t *testing.T) {
	svc, _, _ := newAdService(t)
	ctx := context.Background()
	created, err := svc.CreateAd(ctx, 1, models.RoleAdmin, externalAdInput(), nil)
	require.NoError(t, err)

	status := models.AdStatusApproved
	priority := 5
	active := true
	updated, err := svc.UpdateAd(ctx, 1, models.RoleAdmin, created.ID, &services.UpdateAdInput{
		Status:   &status,
		Priority: &priority,
		IsActive: &active,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AdStatusApproved, updated.Status)
	assert.Equal(t, 5, updated.Priority)
	assert.True(t, updated.IsActive)
}

func TestGetAdsByTypeRecordsImpressions(t *testing.T) {
	svc, adRepo, _ := newAdService(t)
	now := time.Now()
	adRepo.servable = []*models.Ad{
		{ID: 1, BannerType: models.BannerSidebar, StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour)},
		{ID: 2, BannerType: models.BannerSidebar, StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour)},
	}

	ads, err := svc.GetAdsByType(context.Background(), models.BannerSidebar)
	require.NoError(t, err)
	assert.Len(t, ads, 2)
	assert.ElementsMatch(t, []uint{1, 2}, adRepo.impressions)
}

func TestGetAdsByTypeInvalidPlacement(t *testing.T) {
	svc, _, _ := newAdService(t)

	_, err := svc.GetAdsByType(context.Background(), "NAVBAR")
	assert.ErrorIs(t, err, domain.ErrInvalidBannerType)
}

func TestGetAdOwnerCannotSeeForeignAd(t *testing.T) {
	svc, _, businessRepo := newAdService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 7}))

	input := externalAdInput()
	targetID := uint(1)
	input.TargetType = models.AdTargetBusiness
	input.TargetID = &targetID
	created, err := svc.CreateAd(ctx, 7, models.RoleOwner, input, nil)
	require.NoError(t, err)

	_, err = svc.GetAd(ctx, 9, models.RoleOwner, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ad, err := svc.GetAd(ctx, 7, models.RoleOwner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, ad.ID)
}

func TestIncrementClicksUnknownAd(t *testing.T) {
	svc, _, _ := newAdService(t)

	err := svc.IncrementClicks(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrAdNotFound)
}
