package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamevault-backend/controller"
	"gamevault-backend/model"
	"gamevault-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

var testDBSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", t.Name(), testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.Payment{},
		&model.SupportTicket{},
		&model.SupportMessage{},
		&model.PaymentConfig{},
		&model.PayoutRecord{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newTestApp(t *testing.T, db *gorm.DB, authOpen bool) *fiber.App {
	t.Helper()

	app := fiber.New()
	oc := &controller.OrderController{DB: db, AuthOpen: authOpen}
	routes.RegisterAuthRoutes(app, db, testSecret)
	routes.RegisterOrderRoutes(app, oc, testSecret)
	routes.RegisterSupportRoutes(app, db, testSecret)
	routes.RegisterPaymentConfigRoutes(app, db, testSecret)
	routes.RegisterUserRoutes(app, db, testSecret)
	return app
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) model.User {
	t.Helper()

	user := model.User{
		Username: username,
		Email:    username + "@example.com",
		IsAdmin:  admin,
		IsActive: true,
	}
	if err := user.SetPassword("Password1"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func signTestToken(t *testing.T, user model.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":      float64(user.ID),
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
