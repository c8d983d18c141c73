package dto

import "time"

// InboxItemDTO is one notification row.
type InboxItemDTO struct {
	ID        string         `json:"id"`
	SenderID  uint64         `json:"senderId"`
	Type      int8           `json:"type"`
	TargetID  uint64         `json:"targetId"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload"`
	IsRead    bool           `json:"isRead"`
	CreatedAt time.Time      `json:"createdAt"`
}

// InboxListDTO pages the inbox with the unread badge count.
type InboxListDTO struct {
	Items       []*InboxItemDTO `json:"items"`
	UnreadCount int64           `json:"unreadCount"`
}
