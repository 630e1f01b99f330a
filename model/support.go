package model

import "time"

type TicketCategory string

const (
	CategoryPayment   TicketCategory = "payment"
	CategoryTechnical TicketCategory = "technical"
	CategoryAccount   TicketCategory = "account"
	CategoryRefund    TicketCategory = "refund"
	CategoryGeneral   TicketCategory = "general"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryPayment, CategoryTechnical, CategoryAccount, CategoryRefund, CategoryGeneral:
		return true
	}
	return false
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

type SupportTicket struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	TicketNumber string         `gorm:"uniqueIndex;size:20;not null" json:"ticket_number"`
	Subject      string         `gorm:"size:200;not null" json:"subject"`
	Category     TicketCategory `gorm:"size:50;not null" json:"category"`
	Priority     TicketPriority `gorm:"size:20;default:medium" json:"priority"`
	Status       TicketStatus   `gorm:"size:20;default:open" json:"status"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	OrderID      *uint          `gorm:"index" json:"order_id"`
	AssignedTo   *string        `gorm:"size:100" json:"assigned_to"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	ResolvedAt   *time.Time     `json:"resolved_at"`

	Messages []SupportMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

type SupportMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TicketID   uint      `gorm:"index;not null" json:"ticket_id"`
	SenderType string    `gorm:"size:20;not null" json:"sender_type"` // "user" or "admin"
	SenderName string    `gorm:"size:100;not null" json:"sender_name"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
