package dto

import "time"

// ContactRequestCreateDTO asks an accountant for an engagement.
type ContactRequestCreateDTO struct {
	CAID    uint64 `json:"caId" binding:"required"`
	Message string `json:"message" binding:"max=1000"`
}

// ContactRequestDTO is one request as seen by either side.
type ContactRequestDTO struct {
	ID         uint64    `json:"id"`
	CustomerID uint64    `json:"customerId"`
	CAID       uint64    `json:"caId"`
	Message    string    `json:"message"`
	Status     int8      `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`

	CustomerName string `json:"customerName,omitempty"`
	CAName       string `json:"caName,omitempty"`
}
