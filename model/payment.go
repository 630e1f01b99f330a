package model

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	OrderID         uint          `gorm:"index;not null" json:"order_id"`
	UserID          uint          `gorm:"index;not null" json:"user_id"`
	PaymentMethod   PaymentMethod `gorm:"size:50;not null" json:"payment_method"`
	PaymentProvider string        `gorm:"size:50;not null" json:"payment_provider"`
	TransactionID   string        `gorm:"uniqueIndex;size:100;not null" json:"transaction_id"`
	Amount          float64       `gorm:"not null" json:"amount"`
	Currency        string        `gorm:"size:3;default:USD" json:"currency"`
	Status          PaymentStatus `gorm:"size:20;default:pending" json:"status"`
	GatewayResponse *string       `json:"gateway_response"`
	RefundAmount    float64       `gorm:"default:0" json:"refund_amount"`
	RefundReason    *string       `gorm:"size:500" json:"refund_reason"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	CompletedAt     *time.Time    `json:"completed_at"`
}
