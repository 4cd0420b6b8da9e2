package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestAdInWindow(t *testing.T) {
	now := time.Now()
	ad := &Ad{
		StartAt: now.Add(-24 * time.Hour),
		EndAt:   now.Add(24 * time.Hour),
	}

	assert.True(t, ad.InWindow(now))
	assert.True(t, ad.InWindow(ad.StartAt))
	assert.True(t, ad.InWindow(ad.EndAt))
	assert.False(t, ad.InWindow(now.Add(-48*time.Hour)))
	assert.False(t, ad.InWindow(now.Add(48*time.Hour)))
}

func TestIsValidBannerType(t *testing.T) {
	for _, bt := range []string{BannerMainHero, BannerSidebar, BannerFooter, BannerPopup} {
		assert.True(t, IsValidBannerType(bt), bt)
	}
	assert.False(t, IsValidBannerType("NAVBAR"))
	assert.False(t, IsValidBannerType(""))
}

func TestIsValidAdStatus(t *testing.T) {
	for _, s := range []string{AdStatusPendingReview, AdStatusApproved, AdStatusRejected} {
		assert.True(t, IsValidAdStatus(s), s)
	}
	assert.False(t, IsValidAdStatus("ARCHIVED"))
}

func TestDonorIsEligible(t *testing.T) {
	now := time.Now()

	t.Run("never donated", func(t *testing.T) {
		donor := &BloodDonor{}
		assert.True(t, donor.IsEligible(now))
	})

	t.Run("donated 91 days ago", func(t *testing.T) {
		donor := &BloodDonor{LastDonation: timePtr(now.AddDate(0, 0, -91))}
		assert.True(t, donor.IsEligible(now))
	})

	t.Run("donated 10 days ago", func(t *testing.T) {
		donor := &BloodDonor{LastDonation: timePtr(now.AddDate(0, 0, -10))}
		assert.False(t, donor.IsEligible(now))
	})

	t.Run("recent donation but explicit clearance passed", func(t *testing.T) {
		donor := &BloodDonor{
			LastDonation:   timePtr(now.AddDate(0, 0, -10)),
			CanDonateAfter: timePtr(now.AddDate(0, 0, -1)),
		}
		assert.True(t, donor.IsEligible(now))
	})

	t.Run("recent donation with future clearance", func(t *testing.T) {
		donor := &BloodDonor{
			LastDonation:   timePtr(now.AddDate(0, 0, -10)),
			CanDonateAfter: timePtr(now.AddDate(0, 0, 30)),
		}
		assert.False(t, donor.IsEligible(now))
	})
}

func TestJobIsExpired(t *testing.T) {
	t.Run("no expiry", func(t *testing.T) {
		job := &Job{}
		assert.False(t, job.IsExpired())
	})

	t.Run("future expiry", func(t *testing.T) {
		job := &Job{ExpiresAt: timePtr(time.Now().Add(24 * time.Hour))}
		assert.False(t, job.IsExpired())
	})

	t.Run("past expiry", func(t *testing.T) {
		job := &Job{ExpiresAt: timePtr(time.Now().Add(-time.Hour))}
		assert.True(t, job.IsExpired())
	})
}

func TestRefreshTokenState(t *testing.T) {
	token := &RefreshToken{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, token.IsRevoked())
	assert.False(t, token.IsExpired())

	token.RevokedAt = timePtr(time.Now())
	assert.True(t, token.IsRevoked())

	token.ExpiresAt = time.Now().Add(-time.Hour)
	assert.True(t, token.IsExpired())
}

func TestBusinessImageList(t *testing.T) {
	business := &Business{}
	assert.Empty(t, business.ImageList())

	business.SetImageList([]string{"/uploads/a.jpg", "/uploads/b.jpg"})
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, business.ImageList())

	business.SetImageList(nil)
	assert.Empty(t, business.ImageList())
}

func TestPublicDonorHidesPhone(t *testing.T) {
	donor := &BloodDonor{BloodType: "O+", City: "عدن", Phone: "777123456"}
	public := donor.ToPublic()

	assert.Equal(t, "O+", public.BloodType)
	assert.Equal(t, "عدن", public.City)
}
