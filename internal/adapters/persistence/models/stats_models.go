package models

// GroupCount is a generic group-by bucket (blood type, city, category)
type GroupCount struct {
	Key   string `gorm:"column:grp" json:"key"`
	Count int64  `gorm:"column:cnt" json:"count"`
}

// DonorStatistics aggregates the donor registry
type DonorStatistics struct {
	TotalDonors      int64        `json:"total_donors"`
	ActiveDonors     int64        `json:"active_donors"`
	DonorsByBloodType []GroupCount `json:"donors_by_blood_type"`
	DonorsByCity     []GroupCount `json:"donors_by_city"`
	RecentDonors     int64        `json:"recent_donors"`
	ActivationRate   int          `json:"activation_rate"`
}

// RequestStatistics aggregates the blood request board
type RequestStatistics struct {
	TotalRequests       int64        `json:"total_requests"`
	OpenRequests        int64        `json:"open_requests"`
	FulfilledRequests   int64        `json:"fulfilled_requests"`
	RequestsByBloodType []GroupCount `json:"requests_by_blood_type"`
	RequestsByCity      []GroupCount `json:"requests_by_city"`
	UrgentRequests      int64        `json:"urgent_requests"`
	FulfillmentRate     int          `json:"fulfillment_rate"`
}

// JobFacets carries the distinct-value lists used to populate filter UIs,
// computed over active, non-expired jobs only.
type JobFacets struct {
	Categories []string `json:"categories"`
	Cities     []string `json:"cities"`
	Regions    []string `json:"regions"`
}

// CategoryCount is a job category with its posting count
type CategoryCount struct {
	Name  string `gorm:"column:grp" json:"name"`
	Count int64  `gorm:"column:cnt" json:"count"`
}

// JobStatistics aggregates the job board
type JobStatistics struct {
	TotalJobs        int64        `json:"total_jobs"`
	ActiveJobs       int64        `json:"active_jobs"`
	ExpiredJobs      int64        `json:"expired_jobs"`
	JobsByType       []GroupCount `json:"jobs_by_type"`
	JobsByCity       []GroupCount `json:"jobs_by_city"`
	RecentJobs       int64        `json:"recent_jobs"`
	ActivePercentage int          `json:"active_percentage"`
}
