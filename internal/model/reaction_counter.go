package model

import (
	"time"
)

// ReactionCounter is the denormalized per-target snapshot, one row per
// reaction bucket. Adjusted in the same transaction as the ledger write;
// Count never goes below zero.
type ReactionCounter struct {
	ID           uint64    `gorm:"primaryKey" json:"-"`
	TargetType   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_counter_target" json:"targetType"`
	TargetID     uint64    `gorm:"not null;uniqueIndex:idx_counter_target" json:"targetId"`
	ReactionType string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_counter_target" json:"reactionType"`
	Count        int64     `gorm:"not null;default:0" json:"count"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (ReactionCounter) TableName() string {
	return "reaction_counters"
}
