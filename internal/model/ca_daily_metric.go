package model

import (
	"time"
)

// CADailyMetric is a per-CA activity snapshot written by the nightly job,
// backing the CA dashboard charts.
type CADailyMetric struct {
	ID             uint64    `gorm:"primaryKey"`
	CAID           uint64    `gorm:"not null;uniqueIndex:idx_ca_date;column:ca_id"`
	MetricDate     time.Time `gorm:"not null;type:date;uniqueIndex:idx_ca_date;column:metric_date"`
	LeadsViewed    int       `gorm:"not null;default:0"`
	ContactsGained int       `gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (CADailyMetric) TableName() string {
	return "ca_daily_metrics"
}
