package model

import (
	"time"
)

type Post struct {
	ID            uint64    `gorm:"primaryKey"`
	UserID        uint64    `gorm:"not null;index:idx_user_id" json:"user_id"`
	Title         string    `gorm:"type:varchar(255)" json:"title"`
	Content       string    `gorm:"not null" json:"content"`
	LinkURL       *string   `gorm:"type:varchar(512)" json:"link_url"`
	LinkTitle     *string   `gorm:"type:varchar(255)" json:"link_title"`
	LinkSummary   *string   `gorm:"type:varchar(512)" json:"link_summary"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	IsDeleted     bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Post) TableName() string {
	return "posts"
}
