package model

import (
	"time"
)

// Reaction is the ledger row: at most one per (user, target). Changing the
// reaction type mutates the row in place; re-selecting the current type
// deletes it.
type Reaction struct {
	ID           uint64    `gorm:"primaryKey" json:"-"`
	UserID       uint64    `gorm:"not null;uniqueIndex:idx_user_target" json:"userId"`
	TargetType   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_target;index:idx_target" json:"targetType"`
	TargetID     uint64    `gorm:"not null;uniqueIndex:idx_user_target;index:idx_target" json:"targetId"`
	ReactionType string    `gorm:"type:varchar(20);not null" json:"reactionType"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Reaction) TableName() string {
	return "reactions"
}
