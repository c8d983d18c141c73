package model

import (
	"time"
)

type ContactRequest struct {
	ID         uint64    `gorm:"primaryKey"`
	CustomerID uint64    `gorm:"not null;uniqueIndex:idx_customer_ca" json:"customerId"`
	CAID       uint64    `gorm:"not null;uniqueIndex:idx_customer_ca;index:idx_cr_ca_id;column:ca_id" json:"caId"`
	Message    string    `gorm:"type:varchar(1000)" json:"message"`
	Status     int8      `gorm:"not null;default:0" json:"status"` // 0: pending, 1: accepted, 2: declined
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (ContactRequest) TableName() string {
	return "contact_requests"
}
