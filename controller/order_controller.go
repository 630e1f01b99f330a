package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"gamevault-backend/cache"
	"gamevault-backend/kafka"
	"gamevault-backend/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type OrderController struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Producer *kafka.Producer

	// AuthOpen reproduces the legacy behavior where order endpoints accept
	// an arbitrary user_id without a session. When false (default) the
	// caller's token decides whose orders are touched.
	AuthOpen bool
}

const (
	orderNumberAttempts = 5
	userOrdersCacheTTL  = 60 * time.Second
)

// generateOrderNumber builds a human-readable order number:
// "GV" + YYYYMMDD + 4 random digits. Uniqueness is enforced by the DB
// index, callers retry on collision.
func generateOrderNumber() string {
	return fmt.Sprintf("GV%s%d", time.Now().Format("20060102"), 1000+rand.Intn(9000))
}

func generateTransactionID() string {
	return "txn_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// generateProductKey synthesizes the fulfillment artifact for a paid order:
// a license-style key, an account credential block, or a confirmation line.
func generateProductKey(productType model.ProductType, productName string) string {
	switch productType {
	case model.ProductSteamKey:
		parts := make([]string, 3)
		for i := range parts {
			parts[i] = randomString(keyAlphabet, 5)
		}
		return strings.Join(parts, "-")
	case model.ProductOTTService:
		username := fmt.Sprintf("user_%d", 1000+rand.Intn(9000))
		password := randomString(passwordAlphabet, 12)
		return fmt.Sprintf("Username: %s\nPassword: %s\nService: %s", username, password, productName)
	default:
		return "Subscription activated successfully"
	}
}

func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}

func isAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals("is_admin").(bool)
	return admin
}

func (oc *OrderController) invalidateUserOrders(userID uint) {
	if oc.Redis == nil {
		return
	}
	oc.Redis.Del(cache.Ctx, fmt.Sprintf("orders:user:%d", userID))
}

type createOrderRequest struct {
	UserID             *uint    `json:"user_id"`
	ProductType        *string  `json:"product_type"`
	ProductName        *string  `json:"product_name"`
	ProductPrice       *float64 `json:"product_price"`
	OriginalPrice      *float64 `json:"original_price"`
	DiscountPercentage int      `json:"discount_percentage"`
	PaymentMethod      *string  `json:"payment_method"`
}

// Create allocates a new pending order with a fresh order number.
func (oc *OrderController) Create(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	missing := ""
	switch {
	case req.ProductType == nil:
		missing = "product_type"
	case req.ProductName == nil:
		missing = "product_name"
	case req.ProductPrice == nil:
		missing = "product_price"
	case req.OriginalPrice == nil:
		missing = "original_price"
	case req.PaymentMethod == nil:
		missing = "payment_method"
	case oc.AuthOpen && req.UserID == nil:
		missing = "user_id"
	}
	if missing != "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: " + missing})
	}

	productType := model.ProductType(*req.ProductType)
	if !productType.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "invalid product_type"})
	}
	method := model.PaymentMethod(*req.PaymentMethod)
	if !method.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payment_method"})
	}
	if *req.ProductPrice < 0 || *req.OriginalPrice < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "price must be non-negative"})
	}

	// Resolve the buyer: open policy trusts the body, closed policy trusts
	// the token (admins may still order on behalf of a user).
	var userID uint
	if oc.AuthOpen {
		userID = *req.UserID
	} else {
		authID, ok := currentUserID(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "authentication required"})
		}
		userID = authID
		if req.UserID != nil && *req.UserID != authID {
			if !isAdmin(c) {
				return c.Status(403).JSON(fiber.Map{"error": "cannot order for another user"})
			}
			userID = *req.UserID
		}
	}

	var user model.User
	if err := oc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(400).JSON(fiber.Map{"error": "invalid user"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}
	if !user.IsActive {
		return c.Status(400).JSON(fiber.Map{"error": "account is deactivated"})
	}

	// Payment config is only consulted for "is this method turned off"; a
	// method with no config row stays available.
	var cfg model.PaymentConfig
	err := oc.DB.Where("payment_method = ?", method).First(&cfg).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}
	if err == nil && !cfg.IsActive {
		return c.Status(400).JSON(fiber.Map{"error": "payment method is not available"})
	}

	order := model.Order{
		UserID:             userID,
		ProductType:        productType,
		ProductName:        *req.ProductName,
		ProductPrice:       *req.ProductPrice,
		OriginalPrice:      *req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		Status:             model.OrderPending,
		PaymentMethod:      method,
		PaymentStatus:      model.PaymentPending,
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < orderNumberAttempts; i++ {
			number := generateOrderNumber()
			var count int64
			if err := tx.Model(&model.Order{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				order.OrderNumber = number
				break
			}
		}
		if order.OrderNumber == "" {
			return errors.New("could not allocate order number")
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create order"})
	}

	oc.invalidateUserOrders(order.UserID)
	oc.Producer.PublishOrderCreatedEvent(fiber.Map{
		"event_type": "order.created",
		"data": fiber.Map{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"user_id":      order.UserID,
			"product_type": order.ProductType,
			"amount":       order.ProductPrice,
			"created_at":   order.CreatedAt.Format(time.RFC3339),
		},
	})

	return c.Status(201).JSON(order)
}

// ProcessPayment settles a pending order: mints the payment row, marks the
// order completed and attaches the fulfillment artifact. Re-invocation on a
// non-pending order is rejected instead of minting a second payment.
func (oc *OrderController) ProcessPayment(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var body struct {
		PaymentProvider string `json:"payment_provider"`
	}
	c.BodyParser(&body)
	if body.PaymentProvider == "" {
		body.PaymentProvider = "stripe"
	}

	var order model.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	if !oc.AuthOpen && !isAdmin(c) {
		if uid, ok := currentUserID(c); !ok || uid != order.UserID {
			return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
		}
	}

	if order.Status != model.OrderPending {
		return c.Status(400).JSON(fiber.Map{"error": "order already processed"})
	}

	now := time.Now()
	transactionID := generateTransactionID()
	productKey := generateProductKey(order.ProductType, order.ProductName)

	payment := model.Payment{
		OrderID:         order.ID,
		UserID:          order.UserID,
		PaymentMethod:   order.PaymentMethod,
		PaymentProvider: body.PaymentProvider,
		TransactionID:   transactionID,
		Amount:          order.ProductPrice,
		Currency:        "USD",
		Status:          model.PaymentCompleted, // mock gateway, always succeeds
		CompletedAt:     &now,
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		order.Status = model.OrderCompleted
		order.PaymentStatus = model.PaymentCompleted
		order.TransactionID = &transactionID
		order.ProductKey = &productKey
		order.UpdatedAt = now
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		// A paid subscription order activates the plan on the buyer.
		if order.ProductType == model.ProductSubscription {
			plan := strings.ToLower(order.ProductName)
			if plan == "starter" || plan == "pro" || plan == "ultimate" {
				expires := now.AddDate(0, 0, 30)
				if err := tx.Model(&model.User{}).Where("id = ?", order.UserID).
					Updates(map[string]interface{}{
						"subscription_plan":    plan,
						"subscription_expires": expires,
					}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to process payment"})
	}

	oc.invalidateUserOrders(order.UserID)
	oc.Producer.PublishPaymentCompletedEvent(fiber.Map{
		"event_type": "payment.completed",
		"data": fiber.Map{
			"order_id":       order.ID,
			"payment_id":     payment.ID,
			"user_id":        order.UserID,
			"transaction_id": transactionID,
			"amount":         payment.Amount,
			"paid_at":        now.Format(time.RFC3339),
		},
	})

	return c.JSON(fiber.Map{
		"order":   order,
		"payment": payment,
		"message": "Payment processed successfully",
	})
}

// Refund flips a completed order to refunded. The payment row, when one
// exists, is refunded in the same transaction; an order without a payment
// row is still refunded (legacy asymmetry, kept on purpose).
func (oc *OrderController) Refund(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	c.BodyParser(&body)
	if body.Reason == "" {
		body.Reason = "Customer request"
	}

	var order model.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	if !oc.AuthOpen && !isAdmin(c) {
		if uid, ok := currentUserID(c); !ok || uid != order.UserID {
			return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
		}
	}

	if order.Status != model.OrderCompleted {
		return c.Status(400).JSON(fiber.Map{"error": "Only completed orders can be refunded"})
	}

	now := time.Now()
	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		order.Status = model.OrderRefunded
		order.UpdatedAt = now
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		var payment model.Payment
		err := tx.Where("order_id = ?", order.ID).Order("id ASC").First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		payment.Status = model.PaymentRefunded
		payment.RefundAmount = order.ProductPrice
		payment.RefundReason = &body.Reason
		payment.UpdatedAt = now
		return tx.Save(&payment).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to refund order"})
	}

	oc.invalidateUserOrders(order.UserID)
	oc.Producer.PublishOrderRefundedEvent(fiber.Map{
		"event_type": "order.refunded",
		"data": fiber.Map{
			"order_id":    order.ID,
			"user_id":     order.UserID,
			"amount":      order.ProductPrice,
			"reason":      body.Reason,
			"refunded_at": now.Format(time.RFC3339),
		},
	})

	return c.JSON(fiber.Map{
		"order":   order,
		"message": "Refund processed successfully",
	})
}

func (oc *OrderController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var order model.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "order not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	if !oc.AuthOpen && !isAdmin(c) {
		if uid, ok := currentUserID(c); !ok || uid != order.UserID {
			return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
		}
	}

	return c.JSON(order)
}

// ListUser returns a user's orders, newest first. The serialized list is
// cached per user and dropped by every lifecycle mutation.
func (oc *OrderController) ListUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	if !oc.AuthOpen && !isAdmin(c) {
		if uid, ok := currentUserID(c); !ok || uid != uint(userID) {
			return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
		}
	}

	cacheKey := fmt.Sprintf("orders:user:%d", userID)
	if oc.Redis != nil {
		if cached, err := oc.Redis.Get(cache.Ctx, cacheKey).Result(); err == nil {
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	orders := []model.Order{}
	if err := oc.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch orders"})
	}

	if oc.Redis != nil {
		if data, err := json.Marshal(orders); err == nil {
			oc.Redis.Set(cache.Ctx, cacheKey, data, userOrdersCacheTTL)
		}
	}

	return c.JSON(orders)
}

// ListAll pages through every order, newest first.
func (oc *OrderController) ListAll(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var total int64
	if err := oc.DB.Model(&model.Order{}).Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to count orders"})
	}

	orders := []model.Order{}
	if err := oc.DB.Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&orders).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch orders"})
	}

	return c.JSON(fiber.Map{
		"orders":       orders,
		"total":        total,
		"pages":        int(math.Ceil(float64(total) / float64(perPage))),
		"current_page": page,
	})
}
