package model

import "time"

type ProductType string

const (
	ProductSteamKey     ProductType = "steam_key"
	ProductOTTService   ProductType = "ott_service"
	ProductSubscription ProductType = "subscription"
)

func (p ProductType) Valid() bool {
	switch p {
	case ProductSteamKey, ProductOTTService, ProductSubscription:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed" // modeled but never set
	OrderRefunded  OrderStatus = "refunded"
)

type PaymentMethod string

const (
	MethodStripe PaymentMethod = "stripe"
	MethodPayPal PaymentMethod = "paypal"
	MethodCrypto PaymentMethod = "crypto"
	MethodBank   PaymentMethod = "bank"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodStripe, MethodPayPal, MethodCrypto, MethodBank:
		return true
	}
	return false
}

type Order struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	UserID             uint          `gorm:"index;not null" json:"user_id"`
	OrderNumber        string        `gorm:"uniqueIndex;size:20;not null" json:"order_number"`
	ProductType        ProductType   `gorm:"size:50;not null" json:"product_type"`
	ProductName        string        `gorm:"size:200;not null" json:"product_name"`
	ProductPrice       float64       `gorm:"not null" json:"product_price"`
	OriginalPrice      float64       `gorm:"not null" json:"original_price"`
	DiscountPercentage int           `gorm:"default:0" json:"discount_percentage"`
	Status             OrderStatus   `gorm:"size:20;default:pending" json:"status"`
	PaymentMethod      PaymentMethod `gorm:"size:50;not null" json:"payment_method"`
	PaymentStatus      PaymentStatus `gorm:"size:20;default:pending" json:"payment_status"`
	TransactionID      *string       `gorm:"size:100" json:"transaction_id"`
	ProductKey         *string       `gorm:"size:500" json:"product_key"` // key or account credentials
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
