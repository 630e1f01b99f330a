package routes

import (
	"gamevault-backend/controller"
	"gamevault-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func RegisterPaymentConfigRoutes(app *fiber.App, db *gorm.DB, jwtSecret string) {
	pcc := &controller.PaymentConfigController{DB: db}
	authRequired := middleware.AuthRequired(jwtSecret)
	adminRequired := middleware.AdminRequired()

	api := app.Group("/api")

	// public: what a checkout page may see
	api.Get("/payment-methods", pcc.ListMethods)

	admin := api.Group("/admin", authRequired, adminRequired)
	admin.Get("/payment-configs", pcc.ListConfigs)
	admin.Post("/payment-configs", pcc.UpsertConfig)
	admin.Put("/payment-configs/:id/toggle", pcc.ToggleConfig)
	admin.Get("/payouts", pcc.ListPayouts)
	admin.Post("/payouts", pcc.CreatePayout)
}
