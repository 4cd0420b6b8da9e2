package models

import "time"

// Blood request statuses
const (
	RequestStatusOpen      = "open"
	RequestStatusFulfilled = "fulfilled"
	RequestStatusCancelled = "cancelled"
	RequestStatusExpired   = "expired"
)

// DonationCooldownDays is the minimum gap between donations before a donor
// becomes eligible again, unless an explicit CanDonateAfter date says otherwise.
const DonationCooldownDays = 90

// BloodDonor represents blood_donors table. One row per user.
type BloodDonor struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	BloodType      string     `gorm:"size:5;index;not null" json:"blood_type"`
	City           string     `gorm:"size:100;index;not null" json:"city"`
	Phone          string     `gorm:"size:30;not null" json:"phone"`
	Notes          string     `gorm:"size:500" json:"notes,omitempty"`
	IsAvailable    bool       `gorm:"default:true;index" json:"is_available"`
	ReceiveAlerts  bool       `gorm:"default:true" json:"receive_alerts"`
	MaxDistance    int        `gorm:"default:50" json:"max_distance"`
	LastDonation   *time.Time `json:"last_donation"`
	CanDonateAfter *time.Time `json:"can_donate_after"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (BloodDonor) TableName() string {
	return "blood_donors"
}

// IsEligible reports whether the donor's cooldown window has elapsed at t:
// never donated, or the last donation is at least DonationCooldownDays old,
// or an explicit CanDonateAfter date has passed.
func (d *BloodDonor) IsEligible(t time.Time) bool {
	if d.LastDonation == nil {
		return true
	}
	if !d.LastDonation.After(t.AddDate(0, 0, -DonationCooldownDays)) {
		return true
	}
	return d.CanDonateAfter != nil && !d.CanDonateAfter.After(t)
}

// DonorResponse is the full projection for the donor and admin views
type DonorResponse struct {
	ID             uint        `json:"id"`
	UserID         uint        `json:"user_id"`
	BloodType      string      `json:"blood_type"`
	City           string      `json:"city"`
	Phone          string      `json:"phone"`
	Notes          string      `json:"notes,omitempty"`
	IsAvailable    bool        `json:"is_available"`
	ReceiveAlerts  bool        `json:"receive_alerts"`
	MaxDistance    int         `json:"max_distance"`
	LastDonation   *time.Time  `json:"last_donation"`
	CanDonateAfter *time.Time  `json:"can_donate_after"`
	CreatedAt      time.Time   `json:"created_at"`
	User           *PublicUser `json:"user,omitempty"`
}

func (d *BloodDonor) ToResponse() *DonorResponse {
	resp := &DonorResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		BloodType:      d.BloodType,
		City:           d.City,
		Phone:          d.Phone,
		Notes:          d.Notes,
		IsAvailable:    d.IsAvailable,
		ReceiveAlerts:  d.ReceiveAlerts,
		MaxDistance:    d.MaxDistance,
		LastDonation:   d.LastDonation,
		CanDonateAfter: d.CanDonateAfter,
		CreatedAt:      d.CreatedAt,
	}
	if d.User.ID != 0 {
		resp.User = d.User.ToPublic()
	}
	return resp
}

// PublicDonor is the trimmed projection for unauthenticated search (no phone)
type PublicDonor struct {
	ID           uint        `json:"id"`
	BloodType    string      `json:"blood_type"`
	City         string      `json:"city"`
	LastDonation *time.Time  `json:"last_donation"`
	IsAvailable  bool        `json:"is_available"`
	User         *PublicUser `json:"user,omitempty"`
}

func (d *BloodDonor) ToPublic() *PublicDonor {
	p := &PublicDonor{
		ID:           d.ID,
		BloodType:    d.BloodType,
		City:         d.City,
		LastDonation: d.LastDonation,
		IsAvailable:  d.IsAvailable,
	}
	if d.User.ID != 0 {
		p.User = d.User.ToPublic()
	}
	return p
}

// BloodRequest represents blood_requests table
type BloodRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RequesterID  *uint      `gorm:"index" json:"requester_id"` // nil = anonymous request
	BloodType    string     `gorm:"size:5;index;not null" json:"blood_type"`
	Units        int        `gorm:"default:1" json:"units"`
	Urgency      string     `gorm:"size:20;index;default:'normal'" json:"urgency"`
	City         string     `gorm:"size:100;index;not null" json:"city"`
	Hospital     string     `gorm:"size:200;not null" json:"hospital"`
	ContactPhone string     `gorm:"size:30;not null" json:"contact_phone"`
	Notes        string     `gorm:"size:1000" json:"notes,omitempty"`
	Status       string     `gorm:"size:20;index;default:'open'" json:"status"`
	ExpiresAt    *time.Time `gorm:"index" json:"expires_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Requester *User `gorm:"foreignKey:RequesterID" json:"-"`
}

func (BloodRequest) TableName() string {
	return "blood_requests"
}

// RequestResponse DTO with the requester's public projection
type RequestResponse struct {
	ID           uint        `json:"id"`
	BloodType    string      `json:"blood_type"`
	Units        int         `json:"units"`
	Urgency      string      `json:"urgency"`
	City         string      `json:"city"`
	Hospital     string      `json:"hospital"`
	ContactPhone string      `json:"contact_phone"`
	Notes        string      `json:"notes,omitempty"`
	Status       string      `json:"status"`
	ExpiresAt    *time.Time  `json:"expires_at"`
	CreatedAt    time.Time   `json:"created_at"`
	Requester    *PublicUser `json:"requester,omitempty"`
}

func (r *BloodRequest) ToResponse() *RequestResponse {
	resp := &RequestResponse{
		ID:           r.ID,
		BloodType:    r.BloodType,
		Units:        r.Units,
		Urgency:      r.Urgency,
		City:         r.City,
		Hospital:     r.Hospital,
		ContactPhone: r.ContactPhone,
		Notes:        r.Notes,
		Status:       r.Status,
		ExpiresAt:    r.ExpiresAt,
		CreatedAt:    r.CreatedAt,
	}
	if r.Requester != nil {
		resp.Requester = r.Requester.ToPublic()
	}
	return resp
}
