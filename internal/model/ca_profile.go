package model

import (
	"time"
)

type CAProfile struct {
	UserID           uint64   `gorm:"primaryKey" json:"userId"`
	FirmName         string   `gorm:"type:varchar(255);not null" json:"firmName"`
	MembershipNumber string   `gorm:"type:varchar(50);uniqueIndex:idx_membership_no;not null" json:"membershipNumber"`
	PracticeAreas    []string `gorm:"type:json;serializer:json" json:"practiceAreas"`
	City             string   `gorm:"type:varchar(100);not null;index:idx_city" json:"city"`
	ExperienceYears  int      `gorm:"not null;default:0" json:"experienceYears"`
	FeeBand          int8     `gorm:"not null;default:0" json:"feeBand"` // 0: undisclosed, 1: budget, 2: standard, 3: premium
	About            string   `gorm:"type:varchar(2000)" json:"about"`
	IsVerified       bool     `gorm:"type:tinyint(1);not null;default:0" json:"isVerified"`
	Rating           float64  `gorm:"not null;default:0" json:"rating"`
	ReviewCount      int      `gorm:"not null;default:0" json:"reviewCount"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (CAProfile) TableName() string {
	return "ca_profiles"
}
