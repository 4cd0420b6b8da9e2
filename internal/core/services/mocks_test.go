package services_test

import (
	"context"
	"time"

	"cityguard/internal/adapters/persistence/models"
	"cityguard/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// mockBusinessRepo implements repositories.BusinessRepository in memory
type mockBusinessRepo struct {
	businesses map[uint]*models.Business
	nextID     uint
}

func newMockBusinessRepo() *mockBusinessRepo {
	return &mockBusinessRepo{businesses: make(map[uint]*models.Business), nextID: 1}
}

func (m *mockBusinessRepo) Create(ctx context.Context, business *models.Business) error {
	business.ID = m.nextID
	m.nextID++
	m.businesses[business.ID] = business
	return nil
}

func (m *mockBusinessRepo) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	if b, ok := m.businesses[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBusinessRepo) GetFirstByOwner(ctx context.Context, ownerID uint) (*models.Business, error) {
	var first *models.Business
	for _, b := range m.businesses {
		if b.OwnerID == ownerID && (first == nil || b.ID < first.ID) {
			first = b
		}
	}
	if first == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return first, nil
}

func (m *mockBusinessRepo) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Business, error) {
	var out []*models.Business
	for _, b := range m.businesses {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBusinessRepo) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	for _, b := range m.businesses {
		if b.OwnerID == ownerID {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (m *mockBusinessRepo) Update(ctx context.Context, business *models.Business) error {
	m.businesses[business.ID] = business
	return nil
}

func (m *mockBusinessRepo) Delete(ctx context.Context, id uint) error {
	delete(m.businesses, id)
	return nil
}

func (m *mockBusinessRepo) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	for _, b := range m.businesses {
		if b.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

// mockJobRepo implements repositories.JobRepository in memory
type mockJobRepo struct {
	jobs       map[uint]*models.Job
	nextID     uint
	lastFilter *repositories.JobFilter
	countValue int64
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[uint]*models.Job), nextID: 1}
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job) error {
	job.ID = m.nextID
	m.nextID++
	m.jobs[job.ID] = job
	return nil
}

func (m *mockJobRepo) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobRepo) List(ctx context.Context, filter *repositories.JobFilter, offset, limit int) ([]*models.Job, int64, error) {
	m.lastFilter = filter
	jobs := m.all()
	return jobs, int64(len(jobs)), nil
}

func (m *mockJobRepo) Find(ctx context.Context, filter *repositories.JobFilter, limit int) ([]*models.Job, error) {
	m.lastFilter = filter
	jobs := m.all()
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (m *mockJobRepo) Count(ctx context.Context, filter *repositories.JobFilter) (int64, error) {
	m.lastFilter = filter
	return m.countValue, nil
}

func (m *mockJobRepo) Update(ctx context.Context, job *models.Job) error {
	m.jobs[job.ID] = job
	return nil
}

func (m *mockJobRepo) Delete(ctx context.Context, id uint) error {
	delete(m.jobs, id)
	return nil
}

func (m *mockJobRepo) Facets(ctx context.Context) (*models.JobFacets, error) {
	return &models.JobFacets{}, nil
}

func (m *mockJobRepo) PopularCategories(ctx context.Context, limit int) ([]models.CategoryCount, error) {
	return []models.CategoryCount{}, nil
}

func (m *mockJobRepo) Statistics(ctx context.Context) (*models.JobStatistics, error) {
	return &models.JobStatistics{}, nil
}

func (m *mockJobRepo) CountByBusinessIDs(ctx context.Context, businessIDs []uint) (int64, error) {
	return int64(len(m.jobs)), nil
}

func (m *mockJobRepo) all() []*models.Job {
	out := make([]*models.Job, 0, len(m.jobs))
	for id := uint(1); id < m.nextID; id++ {
		if j, ok := m.jobs[id]; ok {
			out = append(out, j)
		}
	}
	return out
}

// mockRequestRepo implements repositories.BloodRequestRepository in memory
type mockRequestRepo struct {
	requests   map[uint]*models.BloodRequest
	nextID     uint
	lastFilter *repositories.RequestFilter
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[uint]*models.BloodRequest), nextID: 1}
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.BloodRequest) error {
	request.ID = m.nextID
	m.nextID++
	m.requests[request.ID] = request
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id uint) (*models.BloodRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestRepo) List(ctx context.Context, filter *repositories.RequestFilter, offset, limit int) ([]*models.BloodRequest, int64, error) {
	m.lastFilter = filter
	out := m.all()
	return out, int64(len(out)), nil
}

func (m *mockRequestRepo) Search(ctx context.Context, filter *repositories.RequestFilter, limit int) ([]*models.BloodRequest, error) {
	m.lastFilter = filter
	out := m.all()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRequestRepo) Update(ctx context.Context, request *models.BloodRequest) error {
	m.requests[request.ID] = request
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id uint) error {
	delete(m.requests, id)
	return nil
}

func (m *mockRequestRepo) Statistics(ctx context.Context) (*models.RequestStatistics, error) {
	return &models.RequestStatistics{}, nil
}

func (m *mockRequestRepo) all() []*models.BloodRequest {
	out := make([]*models.BloodRequest, 0, len(m.requests))
	for id := uint(1); id < m.nextID; id++ {
		if r, ok := m.requests[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// mockDonorRepo implements repositories.BloodDonorRepository in memory
type mockDonorRepo struct {
	donors       map[uint]*models.BloodDonor // keyed by user ID
	nextID       uint
	eligible     []*models.BloodDonor
	alertMatches []*models.BloodDonor
}

func newMockDonorRepo() *mockDonorRepo {
	return &mockDonorRepo{donors: make(map[uint]*models.BloodDonor), nextID: 1}
}

func (m *mockDonorRepo) Create(ctx context.Context, donor *models.BloodDonor) error {
	donor.ID = m.nextID
	m.nextID++
	m.donors[donor.UserID] = donor
	return nil
}

func (m *mockDonorRepo) GetByUserID(ctx context.Context, userID uint) (*models.BloodDonor, error) {
	if d, ok := m.donors[userID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDonorRepo) Update(ctx context.Context, donor *models.BloodDonor) error {
	m.donors[donor.UserID] = donor
	return nil
}

func (m *mockDonorRepo) List(ctx context.Context, filter *repositories.DonorFilter, offset, limit int) ([]*models.BloodDonor, int64, error) {
	out := make([]*models.BloodDonor, 0, len(m.donors))
	for _, d := range m.donors {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (m *mockDonorRepo) Search(ctx context.Context, filter *repositories.DonorFilter, limit int) ([]*models.BloodDonor, error) {
	out := make([]*models.BloodDonor, 0, len(m.donors))
	for _, d := range m.donors {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockDonorRepo) FindEligibleMatches(ctx context.Context, bloodType, city string, now time.Time, limit int) ([]*models.BloodDonor, error) {
	return m.eligible, nil
}

func (m *mockDonorRepo) FindAlertMatches(ctx context.Context, bloodType, city string, limit int) ([]*models.BloodDonor, error) {
	return m.alertMatches, nil
}

func (m *mockDonorRepo) Statistics(ctx context.Context) (*models.DonorStatistics, error) {
	return &models.DonorStatistics{}, nil
}

// mockAdRepo implements repositories.AdRepository in memory
type mockAdRepo struct {
	ads         map[uint]*models.Ad
	nextID      uint
	servable    []*models.Ad
	impressions []uint
	clicks      map[uint]int
}

func newMockAdRepo() *mockAdRepo {
	return &mockAdRepo{ads: make(map[uint]*models.Ad), nextID: 1, clicks: make(map[uint]int)}
}

func (m *mockAdRepo) Create(ctx context.Context, ad *models.Ad) error {
	ad.ID = m.nextID
	m.nextID++
	m.ads[ad.ID] = ad
	return nil
}

func (m *mockAdRepo) GetByID(ctx context.Context, id uint) (*models.Ad, error) {
	if a, ok := m.ads[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdRepo) List(ctx context.Context, filter *repositories.AdFilter, offset, limit int) ([]*models.Ad, int64, error) {
	out := make([]*models.Ad, 0, len(m.ads))
	for id := uint(1); id < m.nextID; id++ {
		if a, ok := m.ads[id]; ok {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockAdRepo) ListServable(ctx context.Context, bannerType string, now time.Time, limit int) ([]*models.Ad, error) {
	out := m.servable
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAdRepo) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Ad, error) {
	return m.servable, nil
}

func (m *mockAdRepo) Update(ctx context.Context, ad *models.Ad) error {
	m.ads[ad.ID] = ad
	return nil
}

func (m *mockAdRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	ad, ok := m.ads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["status"]; ok {
		ad.Status = v.(string)
	}
	if v, ok := fields["is_active"]; ok {
		ad.IsActive = v.(bool)
	}
	if v, ok := fields["rejection_reason"]; ok {
		ad.RejectionReason = v.(string)
	}
	return nil
}

func (m *mockAdRepo) Delete(ctx context.Context, id uint) error {
	delete(m.ads, id)
	return nil
}

func (m *mockAdRepo) IncrementImpressions(ctx context.Context, ids []uint) error {
	m.impressions = append(m.impressions, ids...)
	return nil
}

func (m *mockAdRepo) IncrementClicks(ctx context.Context, id uint) error {
	m.clicks[id]++
	return nil
}

func (m *mockAdRepo) CountByBusinessIDs(ctx context.Context, businessIDs []uint) (int64, error) {
	return int64(len(m.ads)), nil
}
