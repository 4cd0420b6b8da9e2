package models

import "time"

// Banner types
const (
	BannerMainHero = "MAIN_HERO"
	BannerSidebar  = "SIDEBAR"
	BannerFooter   = "FOOTER"
	BannerPopup    = "POPUP"
)

// ValidBannerTypes lists the accepted banner placements
var ValidBannerTypes = []string{BannerMainHero, BannerSidebar, BannerFooter, BannerPopup}

// IsValidBannerType reports whether t is a known banner placement
func IsValidBannerType(t string) bool {
	for _, v := range ValidBannerTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Ad target types
const (
	AdTargetExternal = "EXTERNAL"
	AdTargetBusiness = "BUSINESS"
)

// Ad review statuses
const (
	AdStatusPendingReview = "PENDING_REVIEW"
	AdStatusApproved      = "APPROVED"
	AdStatusRejected      = "REJECTED"
)

// ValidAdStatuses lists the review states an admin may set
var ValidAdStatuses = []string{AdStatusApproved, AdStatusRejected, AdStatusPendingReview}

// IsValidAdStatus reports whether s is a known review state
func IsValidAdStatus(s string) bool {
	for _, v := range ValidAdStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Ad represents ads table
type Ad struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Content         string     `gorm:"type:text" json:"content"`
	BannerType      string     `gorm:"size:30;index;default:'MAIN_HERO'" json:"banner_type"`
	TargetType      string     `gorm:"size:20;not null" json:"target_type"`
	TargetID        *uint      `gorm:"index" json:"target_id"`
	URL             string     `gorm:"size:500" json:"url"`
	Status          string     `gorm:"size:30;index;default:'PENDING_REVIEW'" json:"status"`
	RejectionReason string     `gorm:"size:500" json:"rejection_reason,omitempty"`
	IsActive        bool       `gorm:"default:false" json:"is_active"`
	Priority        int        `gorm:"default:0" json:"priority"`
	StartAt         time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt           time.Time  `gorm:"not null;index" json:"end_at"`
	ImageURL        string     `gorm:"size:500" json:"image_url,omitempty"`
	ImageID         string     `gorm:"size:255" json:"-"`
	MobileImageURL  string     `gorm:"size:500" json:"mobile_image_url,omitempty"`
	MobileImageID   string     `gorm:"size:255" json:"-"`
	TabletImageURL  string     `gorm:"size:500" json:"tablet_image_url,omitempty"`
	TabletImageID   string     `gorm:"size:255" json:"-"`
	Impressions     int64      `gorm:"default:0" json:"impressions"`
	Clicks          int64      `gorm:"default:0" json:"clicks"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Business *Business `gorm:"foreignKey:TargetID" json:"business,omitempty"`
}

func (Ad) TableName() string {
	return "ads"
}

// InWindow reports whether the ad's serving window covers t
func (a *Ad) InWindow(t time.Time) bool {
	return !a.StartAt.After(t) && !a.EndAt.Before(t)
}
