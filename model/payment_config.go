package model

import "time"

// PaymentConfig holds the admin-managed settings for one payment method.
// Provider credentials are only serialized for admins, see ToMap.
type PaymentConfig struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	PaymentMethod PaymentMethod `gorm:"uniqueIndex;size:50;not null" json:"payment_method"`
	IsActive      bool          `gorm:"default:true" json:"is_active"`

	// Stripe
	StripePublishableKey string `gorm:"size:200" json:"-"`
	StripeSecretKey      string `gorm:"size:200" json:"-"`
	StripeWebhookSecret  string `gorm:"size:200" json:"-"`
	StripeAccountID      string `gorm:"size:100" json:"-"`

	// PayPal
	PayPalClientID     string `gorm:"size:200" json:"-"`
	PayPalClientSecret string `gorm:"size:200" json:"-"`
	PayPalEmail        string `gorm:"size:100" json:"-"`
	PayPalSandbox      bool   `gorm:"default:true" json:"-"`

	// Bank account
	BankName          string `gorm:"size:100" json:"-"`
	BankAccountNumber string `gorm:"size:50" json:"-"`
	BankRoutingNumber string `gorm:"size:20" json:"-"`
	BankAccountHolder string `gorm:"size:100" json:"-"`
	BankSwiftCode     string `gorm:"size:20" json:"-"`
	BankIBAN          string `gorm:"size:50" json:"-"`

	// Crypto
	CryptoWalletAddress string `gorm:"size:200" json:"-"`
	CryptoCurrency      string `gorm:"size:20" json:"-"`
	CryptoNetwork       string `gorm:"size:50" json:"-"`

	CommissionPercentage float64   `gorm:"default:0" json:"commission_percentage"`
	MinimumPayout        float64   `gorm:"default:10" json:"minimum_payout"`
	PayoutFrequency      string    `gorm:"size:20;default:weekly" json:"payout_frequency"` // daily, weekly, monthly
	CreatedBy            uint      `gorm:"not null" json:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ToMap serializes the config. Sensitive provider credentials are included
// only when includeSensitive is set; otherwise just the fields a checkout
// page needs.
func (pc *PaymentConfig) ToMap(includeSensitive bool) map[string]interface{} {
	data := map[string]interface{}{
		"id":                    pc.ID,
		"payment_method":        pc.PaymentMethod,
		"is_active":             pc.IsActive,
		"commission_percentage": pc.CommissionPercentage,
		"minimum_payout":        pc.MinimumPayout,
		"payout_frequency":      pc.PayoutFrequency,
		"created_at":            pc.CreatedAt,
		"updated_at":            pc.UpdatedAt,
	}

	if includeSensitive {
		switch pc.PaymentMethod {
		case MethodStripe:
			data["stripe_publishable_key"] = pc.StripePublishableKey
			data["stripe_secret_key"] = pc.StripeSecretKey
			data["stripe_webhook_secret"] = pc.StripeWebhookSecret
			data["stripe_account_id"] = pc.StripeAccountID
		case MethodPayPal:
			data["paypal_client_id"] = pc.PayPalClientID
			data["paypal_client_secret"] = pc.PayPalClientSecret
			data["paypal_email"] = pc.PayPalEmail
			data["paypal_sandbox"] = pc.PayPalSandbox
		case MethodBank:
			data["bank_name"] = pc.BankName
			data["bank_account_number"] = pc.BankAccountNumber
			data["bank_routing_number"] = pc.BankRoutingNumber
			data["bank_account_holder"] = pc.BankAccountHolder
			data["bank_swift_code"] = pc.BankSwiftCode
			data["bank_iban"] = pc.BankIBAN
		case MethodCrypto:
			data["crypto_wallet_address"] = pc.CryptoWalletAddress
			data["crypto_currency"] = pc.CryptoCurrency
			data["crypto_network"] = pc.CryptoNetwork
		}
		return data
	}

	switch pc.PaymentMethod {
	case MethodPayPal:
		data["paypal_email"] = pc.PayPalEmail
	case MethodCrypto:
		data["crypto_currency"] = pc.CryptoCurrency
		data["crypto_network"] = pc.CryptoNetwork
	}
	return data
}

type PayoutRecord struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	PaymentConfigID uint          `gorm:"index;not null" json:"payment_config_id"`
	Amount          float64       `gorm:"not null" json:"amount"`
	Currency        string        `gorm:"size:3;default:USD" json:"currency"`
	Status          string        `gorm:"size:20;default:pending" json:"status"` // pending, processing, completed, failed
	PayoutMethod    PaymentMethod `gorm:"size:50;not null" json:"payout_method"`
	TransactionID   *string       `gorm:"size:100" json:"transaction_id"`
	PayoutDate      *time.Time    `json:"payout_date"`
	FailureReason   *string       `gorm:"size:500" json:"failure_reason"`
	PeriodStart     time.Time     `gorm:"not null" json:"period_start"`
	PeriodEnd       time.Time     `gorm:"not null" json:"period_end"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
