package controller_test

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"gamevault-backend/model"
)

type orderJSON struct {
	ID                 uint    `json:"id"`
	UserID             uint    `json:"user_id"`
	OrderNumber        string  `json:"order_number"`
	ProductType        string  `json:"product_type"`
	ProductName        string  `json:"product_name"`
	ProductPrice       float64 `json:"product_price"`
	OriginalPrice      float64 `json:"original_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	Status             string  `json:"status"`
	PaymentMethod      string  `json:"payment_method"`
	PaymentStatus      string  `json:"payment_status"`
	TransactionID      *string `json:"transaction_id"`
	ProductKey         *string `json:"product_key"`
}

type paymentJSON struct {
	ID            uint    `json:"id"`
	OrderID       uint    `json:"order_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	RefundAmount  float64 `json:"refund_amount"`
	RefundReason  *string `json:"refund_reason"`
}

func orderBody(userID uint) map[string]interface{} {
	return map[string]interface{}{
		"user_id":             userID,
		"product_type":        "steam_key",
		"product_name":        "Elden Ring",
		"product_price":       29.99,
		"original_price":      59.99,
		"discount_percentage": 50,
		"payment_method":      "stripe",
	}
}

func TestCreateOrderPendingDefaults(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "POST", "/api/orders/", token, orderBody(user.ID))
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var order orderJSON
	decodeBody(t, resp, &order)

	if order.Status != "pending" || order.PaymentStatus != "pending" {
		t.Errorf("new order status/payment_status = %s/%s, want pending/pending", order.Status, order.PaymentStatus)
	}
	if !regexp.MustCompile(`^GV\d{12}$`).MatchString(order.OrderNumber) {
		t.Errorf("order number %q malformed", order.OrderNumber)
	}
	if order.ProductKey != nil {
		t.Errorf("new order already has product_key %q", *order.ProductKey)
	}
	if order.TransactionID != nil {
		t.Errorf("new order already has transaction_id %q", *order.TransactionID)
	}
	if order.UserID != user.ID {
		t.Errorf("order user_id = %d, want %d", order.UserID, user.ID)
	}
}

func TestCreateOrderMissingField(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	body := orderBody(user.ID)
	delete(body, "payment_method")

	resp := doJSON(t, app, "POST", "/api/orders/", token, body)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var out map[string]string
	decodeBody(t, resp, &out)
	if out["error"] != "Missing required field: payment_method" {
		t.Errorf("error = %q", out["error"])
	}
}

func TestCreateOrderRejectsUnknownEnums(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	tests := []struct {
		desc  string
		field string
		value string
	}{
		{"unknown product type", "product_type", "gift_card"},
		{"unknown payment method", "payment_method", "cash"},
	}

	for _, tt := range tests {
		body := orderBody(user.ID)
		body[tt.field] = tt.value
		resp := doJSON(t, app, "POST", "/api/orders/", token, body)
		if resp.StatusCode != 400 {
			t.Errorf("%s: status = %d, want 400", tt.desc, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestCreateOrderDisabledPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	cfg := model.PaymentConfig{PaymentMethod: model.MethodStripe, IsActive: false, CreatedBy: user.ID}
	if err := db.Create(&cfg).Error; err != nil {
		t.Fatal(err)
	}

	resp := doJSON(t, app, "POST", "/api/orders/", token, orderBody(user.ID))
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400 for disabled method", resp.StatusCode)
	}
}

// Full lifecycle: create -> process-payment -> refund on a steam key order.
func TestOrderLifecycle(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "POST", "/api/orders/", token, orderBody(user.ID))
	if resp.StatusCode != 201 {
		t.Fatalf("create: status = %d, want 201", resp.StatusCode)
	}
	var created orderJSON
	decodeBody(t, resp, &created)
	if created.DiscountPercentage != 50 {
		t.Errorf("discount_percentage = %d, want 50", created.DiscountPercentage)
	}

	// process payment
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/process-payment", created.ID), token,
		map[string]interface{}{"payment_provider": "stripe"})
	if resp.StatusCode != 200 {
		t.Fatalf("process-payment: status = %d, want 200", resp.StatusCode)
	}
	var processed struct {
		Order   orderJSON   `json:"order"`
		Payment paymentJSON `json:"payment"`
	}
	decodeBody(t, resp, &processed)

	if processed.Order.Status != "completed" || processed.Order.PaymentStatus != "completed" {
		t.Errorf("processed order status/payment_status = %s/%s, want completed/completed",
			processed.Order.Status, processed.Order.PaymentStatus)
	}
	if processed.Order.ProductKey == nil ||
		!regexp.MustCompile(`^[A-Z0-9]{5}-[A-Z0-9]{5}-[A-Z0-9]{5}$`).MatchString(*processed.Order.ProductKey) {
		t.Errorf("product_key = %v, want XXXXX-XXXXX-XXXXX", processed.Order.ProductKey)
	}
	if processed.Payment.Amount != 29.99 {
		t.Errorf("payment amount = %v, want 29.99", processed.Payment.Amount)
	}
	if processed.Payment.Status != "completed" {
		t.Errorf("payment status = %s, want completed", processed.Payment.Status)
	}
	if processed.Order.TransactionID == nil || *processed.Order.TransactionID != processed.Payment.TransactionID {
		t.Errorf("order transaction_id %v does not mirror payment %q",
			processed.Order.TransactionID, processed.Payment.TransactionID)
	}

	// refund
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/refund", created.ID), token,
		map[string]interface{}{"reason": "defective key"})
	if resp.StatusCode != 200 {
		t.Fatalf("refund: status = %d, want 200", resp.StatusCode)
	}
	var refunded struct {
		Order orderJSON `json:"order"`
	}
	decodeBody(t, resp, &refunded)
	if refunded.Order.Status != "refunded" {
		t.Errorf("refunded order status = %s, want refunded", refunded.Order.Status)
	}

	var payment model.Payment
	if err := db.Where("order_id = ?", created.ID).First(&payment).Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if payment.Status != model.PaymentRefunded {
		t.Errorf("payment status = %s, want refunded", payment.Status)
	}
	if payment.RefundAmount != 29.99 {
		t.Errorf("refund_amount = %v, want 29.99", payment.RefundAmount)
	}
	if payment.RefundReason == nil || *payment.RefundReason != "defective key" {
		t.Errorf("refund_reason = %v, want 'defective key'", payment.RefundReason)
	}
}

func TestProcessPaymentGuardsReinvocation(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "POST", "/api/orders/", token, orderBody(user.ID))
	var created orderJSON
	decodeBody(t, resp, &created)

	path := fmt.Sprintf("/api/orders/%d/process-payment", created.ID)
	resp = doJSON(t, app, "POST", path, token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("first process-payment: status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, "POST", path, token, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("second process-payment: status = %d, want 400", resp.StatusCode)
	}

	var count int64
	db.Model(&model.Payment{}).Where("order_id = ?", created.ID).Count(&count)
	if count != 1 {
		t.Errorf("payment rows = %d, want exactly 1", count)
	}
}

// Lifecycle mutations are owner-or-admin under the closed policy, same as
// reads.
func TestLifecycleMutationsForbiddenForStrangers(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	owner := createTestUser(t, db, "owner", false)
	stranger := createTestUser(t, db, "stranger", false)
	ownerToken := signTestToken(t, owner)
	strangerToken := signTestToken(t, stranger)

	resp := doJSON(t, app, "POST", "/api/orders/", ownerToken, orderBody(owner.ID))
	var created orderJSON
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/process-payment", created.ID), strangerToken, nil)
	if resp.StatusCode != 403 {
		t.Fatalf("stranger process-payment: status = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	var order model.Order
	db.First(&order, created.ID)
	if order.Status != model.OrderPending {
		t.Fatalf("order status = %s after rejected payment, want pending", order.Status)
	}

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/process-payment", created.ID), ownerToken, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("owner process-payment: status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/refund", created.ID), strangerToken, nil)
	if resp.StatusCode != 403 {
		t.Fatalf("stranger refund: status = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	db.First(&order, created.ID)
	if order.Status != model.OrderCompleted {
		t.Errorf("order status = %s after rejected refund, want completed", order.Status)
	}

	// admins may settle and refund on behalf of the owner
	admin := createTestUser(t, db, "admin", true)
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/refund", created.ID), signTestToken(t, admin), nil)
	if resp.StatusCode != 200 {
		t.Fatalf("admin refund: status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestProcessPaymentUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "POST", "/api/orders/9999/process-payment", token, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRefundPendingOrderRejected(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "POST", "/api/orders/", token, orderBody(user.ID))
	var created orderJSON
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/refund", created.ID), token, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var order model.Order
	db.First(&order, created.ID)
	if order.Status != model.OrderPending {
		t.Errorf("order status changed to %s on rejected refund", order.Status)
	}
}

// An order completed without a payment row (legacy data) still refunds; only
// the order flips.
func TestRefundWithoutPaymentRow(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	order := model.Order{
		UserID:        user.ID,
		OrderNumber:   "GV202501010001",
		ProductType:   model.ProductSteamKey,
		ProductName:   "Hades II",
		ProductPrice:  19.99,
		OriginalPrice: 19.99,
		Status:        model.OrderCompleted,
		PaymentMethod: model.MethodStripe,
		PaymentStatus: model.PaymentCompleted,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatal(err)
	}

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/refund", order.ID), token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var reloaded model.Order
	db.First(&reloaded, order.ID)
	if reloaded.Status != model.OrderRefunded {
		t.Errorf("order status = %s, want refunded", reloaded.Status)
	}
}

func TestRefundDefaultReason(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "POST", "/api/orders/", token, orderBody(user.ID))
	var created orderJSON
	decodeBody(t, resp, &created)

	doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/process-payment", created.ID), token, nil).Body.Close()

	// no body at all: the reason falls back to "Customer request"
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/refund", created.ID), token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("refund: status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	var payment model.Payment
	if err := db.Where("order_id = ?", created.ID).First(&payment).Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if payment.RefundReason == nil || *payment.RefundReason != "Customer request" {
		t.Errorf("refund_reason = %v, want 'Customer request'", payment.RefundReason)
	}
}

func TestListUserOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	other := createTestUser(t, db, "other", false)
	token := signTestToken(t, user)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := model.Order{
			UserID:        user.ID,
			OrderNumber:   fmt.Sprintf("GV2025010100%02d", i),
			ProductType:   model.ProductSteamKey,
			ProductName:   fmt.Sprintf("Game %d", i),
			ProductPrice:  9.99,
			OriginalPrice: 9.99,
			Status:        model.OrderPending,
			PaymentMethod: model.MethodStripe,
			PaymentStatus: model.PaymentPending,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatal(err)
		}
	}
	stranger := model.Order{
		UserID:        other.ID,
		OrderNumber:   "GV202501019999",
		ProductType:   model.ProductSteamKey,
		ProductName:   "Not yours",
		ProductPrice:  9.99,
		OriginalPrice: 9.99,
		Status:        model.OrderPending,
		PaymentMethod: model.MethodStripe,
		PaymentStatus: model.PaymentPending,
	}
	if err := db.Create(&stranger).Error; err != nil {
		t.Fatal(err)
	}

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/orders/user/%d", user.ID), token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var orders []orderJSON
	decodeBody(t, resp, &orders)
	if len(orders) != 3 {
		t.Fatalf("got %d orders, want 3", len(orders))
	}
	for _, o := range orders {
		if o.UserID != user.ID {
			t.Errorf("foreign order %d in user listing", o.ID)
		}
	}
	if orders[0].ProductName != "Game 2" || orders[2].ProductName != "Game 0" {
		t.Errorf("orders not newest-first: %s .. %s", orders[0].ProductName, orders[2].ProductName)
	}
}

func TestListUserOrdersForbiddenForStrangers(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	other := createTestUser(t, db, "other", false)
	token := signTestToken(t, other)

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/orders/user/%d", user.ID), token, nil)
	if resp.StatusCode != 403 {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestListAllPagination(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	admin := createTestUser(t, db, "admin", true)
	token := signTestToken(t, admin)

	for i := 0; i < 25; i++ {
		order := model.Order{
			UserID:        user.ID,
			OrderNumber:   fmt.Sprintf("GV20250101%04d", i),
			ProductType:   model.ProductSteamKey,
			ProductName:   fmt.Sprintf("Game %d", i),
			ProductPrice:  9.99,
			OriginalPrice: 9.99,
			Status:        model.OrderPending,
			PaymentMethod: model.MethodStripe,
			PaymentStatus: model.PaymentPending,
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatal(err)
		}
	}

	resp := doJSON(t, app, "GET", "/api/orders/?page=2&per_page=20", token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Orders      []orderJSON `json:"orders"`
		Total       int         `json:"total"`
		Pages       int         `json:"pages"`
		CurrentPage int         `json:"current_page"`
	}
	decodeBody(t, resp, &out)

	if len(out.Orders) != 5 {
		t.Errorf("page 2 has %d orders, want 5", len(out.Orders))
	}
	if out.Total != 25 || out.Pages != 2 || out.CurrentPage != 2 {
		t.Errorf("total/pages/current_page = %d/%d/%d, want 25/2/2", out.Total, out.Pages, out.CurrentPage)
	}
}

func TestListAllRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "GET", "/api/orders/", token, nil)
	if resp.StatusCode != 403 {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

// Open policy: the legacy mode where the body user_id is trusted and no
// token is required.
func TestOpenPolicyAcceptsBodyUserID(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, true)
	user := createTestUser(t, db, "buyer", false)

	resp := doJSON(t, app, "POST", "/api/orders/", "", orderBody(user.ID))
	if resp.StatusCode != 201 {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created orderJSON
	decodeBody(t, resp, &created)
	if created.UserID != user.ID {
		t.Errorf("order user_id = %d, want %d", created.UserID, user.ID)
	}
}

func TestSubscriptionOrderActivatesPlan(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	body := orderBody(user.ID)
	body["product_type"] = "subscription"
	body["product_name"] = "pro"

	resp := doJSON(t, app, "POST", "/api/orders/", token, body)
	var created orderJSON
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/orders/%d/process-payment", created.ID), token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var processed struct {
		Order orderJSON `json:"order"`
	}
	decodeBody(t, resp, &processed)
	if processed.Order.ProductKey == nil || *processed.Order.ProductKey != "Subscription activated successfully" {
		t.Errorf("product_key = %v, want subscription confirmation", processed.Order.ProductKey)
	}

	var reloaded model.User
	db.First(&reloaded, user.ID)
	if reloaded.SubscriptionPlan == nil || *reloaded.SubscriptionPlan != "pro" {
		t.Errorf("subscription_plan = %v, want pro", reloaded.SubscriptionPlan)
	}
	if reloaded.SubscriptionExpires == nil || time.Until(*reloaded.SubscriptionExpires) < 29*24*time.Hour {
		t.Errorf("subscription_expires = %v, want ~30 days out", reloaded.SubscriptionExpires)
	}
}

func TestGetOrder(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db, false)
	user := createTestUser(t, db, "buyer", false)
	token := signTestToken(t, user)

	resp := doJSON(t, app, "POST", "/api/orders/", token, orderBody(user.ID))
	var created orderJSON
	decodeBody(t, resp, &created)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/orders/%d", created.ID), token, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("get: status = %d, want 200", resp.StatusCode)
	}
	var got orderJSON
	decodeBody(t, resp, &got)
	if got.OrderNumber != created.OrderNumber {
		t.Errorf("order_number = %q, want %q", got.OrderNumber, created.OrderNumber)
	}

	resp = doJSON(t, app, "GET", "/api/orders/424242", token, nil)
	if resp.StatusCode != 404 {
		t.Fatalf("get missing: status = %d, want 404", resp.StatusCode)
	}
}
