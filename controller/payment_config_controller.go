package controller

import (
	"errors"
	"strconv"
	"time"

	"gamevault-backend/model"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentConfigController struct {
	DB *gorm.DB
}

// ListMethods is the public side: active methods with only the fields a
// checkout page needs.
func (pcc *PaymentConfigController) ListMethods(c *fiber.Ctx) error {
	configs := []model.PaymentConfig{}
	if err := pcc.DB.Where("is_active = ?", true).Find(&configs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch payment methods"})
	}

	out := make([]map[string]interface{}, 0, len(configs))
	for i := range configs {
		out = append(out, configs[i].ToMap(false))
	}
	return c.JSON(out)
}

func (pcc *PaymentConfigController) ListConfigs(c *fiber.Ctx) error {
	configs := []model.PaymentConfig{}
	if err := pcc.DB.Order("payment_method ASC").Find(&configs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch configs"})
	}

	out := make([]map[string]interface{}, 0, len(configs))
	for i := range configs {
		out = append(out, configs[i].ToMap(true))
	}
	return c.JSON(out)
}

type upsertConfigRequest struct {
	PaymentMethod string `json:"payment_method"`
	IsActive      *bool  `json:"is_active"`

	StripePublishableKey *string `json:"stripe_publishable_key"`
	StripeSecretKey      *string `json:"stripe_secret_key"`
	StripeWebhookSecret  *string `json:"stripe_webhook_secret"`
	StripeAccountID      *string `json:"stripe_account_id"`

	PayPalClientID     *string `json:"paypal_client_id"`
	PayPalClientSecret *string `json:"paypal_client_secret"`
	PayPalEmail        *string `json:"paypal_email"`
	PayPalSandbox      *bool   `json:"paypal_sandbox"`

	BankName          *string `json:"bank_name"`
	BankAccountNumber *string `json:"bank_account_number"`
	BankRoutingNumber *string `json:"bank_routing_number"`
	BankAccountHolder *string `json:"bank_account_holder"`
	BankSwiftCode     *string `json:"bank_swift_code"`
	BankIBAN          *string `json:"bank_iban"`

	CryptoWalletAddress *string `json:"crypto_wallet_address"`
	CryptoCurrency      *string `json:"crypto_currency"`
	CryptoNetwork       *string `json:"crypto_network"`

	CommissionPercentage *float64 `json:"commission_percentage"`
	MinimumPayout        *float64 `json:"minimum_payout"`
	PayoutFrequency      *string  `json:"payout_frequency"`
}

func applyConfigRequest(cfg *model.PaymentConfig, req *upsertConfigRequest) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	setStr(&cfg.StripePublishableKey, req.StripePublishableKey)
	setStr(&cfg.StripeSecretKey, req.StripeSecretKey)
	setStr(&cfg.StripeWebhookSecret, req.StripeWebhookSecret)
	setStr(&cfg.StripeAccountID, req.StripeAccountID)
	setStr(&cfg.PayPalClientID, req.PayPalClientID)
	setStr(&cfg.PayPalClientSecret, req.PayPalClientSecret)
	setStr(&cfg.PayPalEmail, req.PayPalEmail)
	if req.PayPalSandbox != nil {
		cfg.PayPalSandbox = *req.PayPalSandbox
	}
	setStr(&cfg.BankName, req.BankName)
	setStr(&cfg.BankAccountNumber, req.BankAccountNumber)
	setStr(&cfg.BankRoutingNumber, req.BankRoutingNumber)
	setStr(&cfg.BankAccountHolder, req.BankAccountHolder)
	setStr(&cfg.BankSwiftCode, req.BankSwiftCode)
	setStr(&cfg.BankIBAN, req.BankIBAN)
	setStr(&cfg.CryptoWalletAddress, req.CryptoWalletAddress)
	setStr(&cfg.CryptoCurrency, req.CryptoCurrency)
	setStr(&cfg.CryptoNetwork, req.CryptoNetwork)
	if req.CommissionPercentage != nil {
		cfg.CommissionPercentage = *req.CommissionPercentage
	}
	if req.MinimumPayout != nil {
		cfg.MinimumPayout = *req.MinimumPayout
	}
	if req.PayoutFrequency != nil {
		switch *req.PayoutFrequency {
		case "daily", "weekly", "monthly":
			cfg.PayoutFrequency = *req.PayoutFrequency
		}
	}
}

// UpsertConfig creates or updates the single config row for a method.
func (pcc *PaymentConfigController) UpsertConfig(c *fiber.Ctx) error {
	adminID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req upsertConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	method := model.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payment_method"})
	}

	var cfg model.PaymentConfig
	err := pcc.DB.Where("payment_method = ?", method).First(&cfg).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	if created {
		cfg = model.PaymentConfig{
			PaymentMethod:   method,
			IsActive:        true,
			MinimumPayout:   10,
			PayoutFrequency: "weekly",
			CreatedBy:       adminID,
		}
	}
	applyConfigRequest(&cfg, &req)

	if err := pcc.DB.Save(&cfg).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to save config"})
	}

	status := 200
	if created {
		status = 201
	}
	return c.Status(status).JSON(cfg.ToMap(true))
}

func (pcc *PaymentConfigController) ToggleConfig(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var cfg model.PaymentConfig
	if err := pcc.DB.First(&cfg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "config not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	cfg.IsActive = !cfg.IsActive
	if err := pcc.DB.Save(&cfg).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update config"})
	}

	return c.JSON(cfg.ToMap(true))
}

func (pcc *PaymentConfigController) ListPayouts(c *fiber.Ctx) error {
	payouts := []model.PayoutRecord{}
	if err := pcc.DB.Order("created_at DESC, id DESC").Find(&payouts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch payouts"})
	}
	return c.JSON(payouts)
}

// CreatePayout records a manual payout against a config.
func (pcc *PaymentConfigController) CreatePayout(c *fiber.Ctx) error {
	var req struct {
		PaymentConfigID uint     `json:"payment_config_id"`
		Amount          *float64 `json:"amount"`
		PeriodStart     *string  `json:"period_start"`
		PeriodEnd       *string  `json:"period_end"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Amount == nil || *req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "amount must be positive"})
	}

	var cfg model.PaymentConfig
	if err := pcc.DB.First(&cfg, req.PaymentConfigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "config not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}
	if *req.Amount < cfg.MinimumPayout {
		return c.Status(400).JSON(fiber.Map{"error": "amount below minimum payout"})
	}

	now := time.Now()
	periodStart, periodEnd := now.AddDate(0, 0, -7), now
	if req.PeriodStart != nil {
		if t, err := time.Parse(time.RFC3339, *req.PeriodStart); err == nil {
			periodStart = t
		}
	}
	if req.PeriodEnd != nil {
		if t, err := time.Parse(time.RFC3339, *req.PeriodEnd); err == nil {
			periodEnd = t
		}
	}

	payout := model.PayoutRecord{
		PaymentConfigID: cfg.ID,
		Amount:          *req.Amount,
		Currency:        "USD",
		Status:          "pending",
		PayoutMethod:    cfg.PaymentMethod,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
	}

	if err := pcc.DB.Create(&payout).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create payout"})
	}

	return c.Status(201).JSON(payout)
}
