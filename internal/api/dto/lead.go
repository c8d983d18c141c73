package dto

import "time"

// LeadCreateDTO is the body for posting a new service request.
type LeadCreateDTO struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Description  string   `json:"description" binding:"max=2000"`
	ServiceAreas []string `json:"serviceAreas" binding:"required,min=1"`
	City         string   `json:"city" binding:"required,max=100"`
	BudgetBand   int8     `json:"budgetBand"`
	ContactName  string   `json:"contactName" binding:"required,max=100"`
	ContactPhone string   `json:"contactPhone" binding:"required,max=30"`
	ContactEmail *string  `json:"contactEmail" binding:"omitempty,email"`
}

// LeadQueryDTO filters the open lead board.
type LeadQueryDTO struct {
	City        string `form:"city"`
	ServiceArea string `form:"serviceArea"`
	BudgetBand  int8   `form:"budgetBand"`
	Page        int    `form:"page,default=1" binding:"min=1"`
	PageSize    int    `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// LeadDTO is a lead as shown to accountants. Contact details only appear
// once the accountant has viewed the lead.
type LeadDTO struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ServiceAreas []string  `json:"serviceAreas"`
	City         string    `json:"city"`
	BudgetBand   int8      `json:"budgetBand"`
	Status       int8      `json:"status"`
	ViewerCount  int64     `json:"viewerCount"`
	CreatedAt    time.Time `json:"createdAt"`

	ContactName  string  `json:"contactName,omitempty"`
	ContactPhone string  `json:"contactPhone,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`

	// Viewed reports whether the requesting accountant has opened this
	// lead before.
	Viewed bool `json:"viewed"`
}

// EngagementNoteDTO updates the accountant's private note on a lead.
type EngagementNoteDTO struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// EngagedLeadDTO is a lead in an accountant's worked-leads list.
type EngagedLeadDTO struct {
	Lead     *LeadDTO  `json:"lead"`
	ViewedAt time.Time `json:"viewedAt"`
	IsHidden bool      `json:"isHidden"`
	Notes    string    `json:"notes"`
}

// CAMetricDTO is one day of an accountant's activity.
type CAMetricDTO struct {
	MetricDate     string `json:"metricDate"`
	LeadsViewed    int    `json:"leadsViewed"`
	ContactsGained int    `json:"contactsGained"`
}
