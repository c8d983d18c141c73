package model

import (
	"time"
)

// LeadEngagement records a CA's first contact-detail reveal on a lead. The
// composite unique index makes repeat views idempotent at write time.
type LeadEngagement struct {
	ID       uint64    `gorm:"primaryKey" json:"-"`
	LeadID   uint64    `gorm:"not null;uniqueIndex:idx_lead_ca" json:"leadId"`
	CAID     uint64    `gorm:"not null;uniqueIndex:idx_lead_ca;index:idx_ca_id;column:ca_id" json:"caId"`
	ViewedAt time.Time `gorm:"not null" json:"viewedAt"`

	// CA-private working state, never shown to the customer.
	IsHidden  bool       `gorm:"type:tinyint(1);not null;default:0" json:"isHidden"`
	HiddenAt  *time.Time `json:"hiddenAt"`
	Notes     string     `gorm:"type:varchar(2000)" json:"notes"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (LeadEngagement) TableName() string {
	return "lead_engagements"
}
