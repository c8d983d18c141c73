package es

import "time"

// CAES is the accountant profile document indexed for search.
type CAES struct {
	UserID          uint64    `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	FirmName        string    `json:"firm_name"`
	About           *string   `json:"about,omitempty"`
	AvatarURL       string    `json:"avatar_url"`
	City            string    `json:"city"`
	PracticeAreas   []string  `json:"practice_areas"`
	ExperienceYears int       `json:"experience_years"`
	FeeBand         int8      `json:"fee_band"`
	IsVerified      bool      `json:"is_verified"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	CreatedAt       time.Time `json:"created_at"`

	// Sort carries the search-after values of the hit, never indexed.
	Sort []interface{} `json:"-"`
}
