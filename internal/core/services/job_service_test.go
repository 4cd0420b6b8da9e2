package services_test

import (
	"context"
	"testing"
	"time"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/core/domain"
	"cityguard/internal/core/services"
	"cityguard/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobService(t *testing.T) (*services.JobService, *mockJobRepo, *mockBusinessRepo) {
	t.Helper()
	jobRepo := newMockJobRepo()
	businessRepo := newMockBusinessRepo()
	return services.NewJobService(jobRepo, businessRepo), jobRepo, businessRepo
}

func TestCreateJobWithoutBusiness(t *testing.T) {
	svc, _, _ := newJobService(t)

	_, _, err := svc.CreateJob(context.Background(), 5, &services.CreateJobInput{Title: "مطلوب موظف"})
	assert.ErrorIs(t, err, domain.ErrNoBusiness)
}

func TestCreateJobDefaults(t *testing.T) {
	svc, _, businessRepo := newJobService(t)
	require.NoError(t, businessRepo.Create(context.Background(), &models.Business{OwnerID: 5}))

	job, fieldErrors, err := svc.CreateJob(context.Background(), 5, &services.CreateJobInput{
		Title: "مطلوب موظف استقبال",
		City:  "صنعاء",
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrors)
	assert.Equal(t, "عام", job.Type)
	assert.True(t, job.IsActive)
	assert.Nil(t, job.ExpiresAt)
}

func TestCreateJobFieldErrors(t *testing.T) {
	svc, _, businessRepo := newJobService(t)
	require.NoError(t, businessRepo.Create(context.Background(), &models.Business{OwnerID: 5}))

	_, fieldErrors, err := svc.CreateJob(context.Background(), 5, &services.CreateJobInput{
		Title: "ab",
		Type:  "غير موجود",
	})
	require.NoError(t, err)
	assert.Contains(t, fieldErrors, "title")
	assert.Contains(t, fieldErrors, "type")
}

func TestGetJobExpired(t *testing.T) {
	svc, jobRepo, _ := newJobService(t)
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, jobRepo.Create(context.Background(), &models.Job{Title: "قديمة", ExpiresAt: &expired}))

	_, err := svc.GetJob(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrJobExpired)
}

func TestGetJobNotFound(t *testing.T) {
	svc, _, _ := newJobService(t)

	_, err := svc.GetJob(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestRenewJobDefaultsAndReactivates(t *testing.T) {
	svc, jobRepo, businessRepo := newJobService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 5}))
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, jobRepo.Create(ctx, &models.Job{BusinessID: 1, Title: "قديمة", IsActive: false, ExpiresAt: &expired}))

	job, err := svc.RenewJob(ctx, 5, models.RoleOwner, 1, 0)
	require.NoError(t, err)
	assert.True(t, job.IsActive)
	require.NotNil(t, job.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, services.JobRenewDefaultDays), *job.ExpiresAt, time.Minute)
}

func TestRenewJobForbiddenForStranger(t *testing.T) {
	svc, jobRepo, businessRepo := newJobService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 5}))
	require.NoError(t, jobRepo.Create(ctx, &models.Job{BusinessID: 1, Title: "وظيفة"}))

	_, err := svc.RenewJob(ctx, 9, models.RoleOwner, 1, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestToggleJobStatus(t *testing.T) {
	svc, jobRepo, _ := newJobService(t)
	ctx := context.Background()
	require.NoError(t, jobRepo.Create(ctx, &models.Job{BusinessID: 1, Title: "وظيفة", IsActive: true}))

	job, err := svc.ToggleJobStatus(ctx, 0, models.RoleAdmin, 1)
	require.NoError(t, err)
	assert.False(t, job.IsActive)

	job, err = svc.ToggleJobStatus(ctx, 0, models.RoleAdmin, 1)
	require.NoError(t, err)
	assert.True(t, job.IsActive)
}

func TestQuickSearchMinQueryLength(t *testing.T) {
	svc, jobRepo, _ := newJobService(t)
	ctx := context.Background()
	require.NoError(t, jobRepo.Create(ctx, &models.Job{Title: "مهندس"}))

	jobs, err := svc.QuickSearch(ctx, "م", 5)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Nil(t, jobRepo.lastFilter)

	jobs, err = svc.QuickSearch(ctx, "مه", 5)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, "مه", jobRepo.lastFilter.Search)
}

func TestGetAllJobsForcesUnexpired(t *testing.T) {
	svc, jobRepo, _ := newJobService(t)

	_, err := svc.GetAllJobs(context.Background(), &repositories.JobFilter{}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.True(t, jobRepo.lastFilter.Unexpired)
}

func TestGetBusinessJobsFallsBackToOwnBusiness(t *testing.T) {
	svc, jobRepo, businessRepo := newJobService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 5}))
	require.NoError(t, jobRepo.Create(ctx, &models.Job{BusinessID: 1, Title: "وظيفة"}))

	jobs, meta, err := svc.GetBusinessJobs(ctx, 5, models.RoleOwner, 0, nil, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.EqualValues(t, 1, meta.Total)
	assert.Equal(t, uint(1), jobRepo.lastFilter.BusinessID)
}

func TestGetBusinessJobsDeniesForeignBusiness(t *testing.T) {
	svc, _, businessRepo := newJobService(t)
	ctx := context.Background()
	require.NoError(t, businessRepo.Create(ctx, &models.Business{OwnerID: 7}))

	_, _, err := svc.GetBusinessJobs(ctx, 5, models.RoleOwner, 1, nil, pagination.New(1, 10))
	assert.ErrorIs(t, err, domain.ErrNotBusinessOwner)
}

func TestGetNewJobsNotification(t *testing.T) {
	svc, jobRepo, _ := newJobService(t)
	jobRepo.countValue = 3

	notification, err := svc.GetNewJobsNotification(context.Background(), "عدن")
	require.NoError(t, err)
	assert.EqualValues(t, 3, notification.NewJobs24h)
	assert.EqualValues(t, 3, notification.NewJobsInCity7d)
	assert.True(t, notification.HasNotifications)
	assert.Equal(t, "عدن", notification.City)
}
