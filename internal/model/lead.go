package model

import (
	"time"
)

type Lead struct {
	ID           uint64   `gorm:"primaryKey"`
	CustomerID   uint64   `gorm:"not null;index:idx_customer_id" json:"customerId"`
	Title        string   `gorm:"type:varchar(255);not null" json:"title"`
	Description  string   `gorm:"type:varchar(2000)" json:"description"`
	ServiceAreas []string `gorm:"type:json;serializer:json" json:"serviceAreas"`
	City         string   `gorm:"type:varchar(100);not null;index:idx_lead_city" json:"city"`
	BudgetBand   int8     `gorm:"not null;default:0" json:"budgetBand"`
	ContactName  string   `gorm:"type:varchar(100);not null" json:"contactName"`
	ContactPhone string   `gorm:"type:varchar(30);not null" json:"contactPhone"`
	ContactEmail *string  `gorm:"type:varchar(255)" json:"contactEmail"`
	Status       int8     `gorm:"not null;default:1" json:"status"` // 1: open, 2: closed
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Customer User `gorm:"foreignKey:CustomerID;references:ID"`
}

func (Lead) TableName() string {
	return "leads"
}
