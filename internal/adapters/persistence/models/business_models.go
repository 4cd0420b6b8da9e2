package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Business represents businesses table
type Business struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	City        string         `gorm:"size:100;index" json:"city"`
	Address     string         `gorm:"size:255" json:"address"`
	Phone       string         `gorm:"size:30" json:"phone"`
	Website     string         `gorm:"size:255" json:"website"`
	Images      string         `gorm:"type:text" json:"-"` // JSON array of stored image paths
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User  `gorm:"foreignKey:OwnerID" json:"-"`
	Jobs  []Job `gorm:"foreignKey:BusinessID" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}

// ImageList decodes the stored image paths
func (b *Business) ImageList() []string {
	if b.Images == "" {
		return nil
	}
	var images []string
	if err := json.Unmarshal([]byte(b.Images), &images); err != nil {
		return nil
	}
	return images
}

// SetImageList encodes image paths for storage
func (b *Business) SetImageList(images []string) {
	if len(images) == 0 {
		b.Images = ""
		return
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return
	}
	b.Images = string(encoded)
}

// BusinessResponse DTO
type BusinessResponse struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	City        string    `json:"city,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b *Business) ToResponse() *BusinessResponse {
	return &BusinessResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		City:        b.City,
		Address:     b.Address,
		Phone:       b.Phone,
		Website:     b.Website,
		Images:      b.ImageList(),
		CreatedAt:   b.CreatedAt,
	}
}

// BusinessSummary is the projection embedded in job and ad listings
type BusinessSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (b *Business) ToSummary() *BusinessSummary {
	return &BusinessSummary{
		ID:    b.ID,
		Name:  b.Name,
		City:  b.City,
		Phone: b.Phone,
	}
}

// Job represents jobs table
type Job struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BusinessID  uint           `gorm:"index;not null" json:"business_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	City        string         `gorm:"size:100;index" json:"city"`
	Region      string         `gorm:"size:100" json:"region"`
	Type        string         `gorm:"size:50;index;default:'عام'" json:"type"`
	Salary      string         `gorm:"size:100" json:"salary"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	ExpiresAt   *time.Time     `gorm:"index" json:"expires_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Business Business `gorm:"foreignKey:BusinessID" json:"business"`
}

func (Job) TableName() string {
	return "jobs"
}

// IsExpired reports whether the posting is past its expiry window.
// Expiry is a read-time filter; the row itself is never transitioned.
func (j *Job) IsExpired() bool {
	return j.ExpiresAt != nil && j.ExpiresAt.Before(time.Now())
}
