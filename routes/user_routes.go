package routes

import (
	"gamevault-backend/controller"
	"gamevault-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func RegisterUserRoutes(app *fiber.App, db *gorm.DB, jwtSecret string) {
	uc := &controller.UserController{DB: db}
	authRequired := middleware.AuthRequired(jwtSecret)
	adminRequired := middleware.AdminRequired()

	api := app.Group("/api")
	u := api.Group("/admin/users", authRequired, adminRequired)

	u.Get("/", uc.List)
	u.Get("/:id", uc.Get)
	u.Put("/:id/toggle-active", uc.ToggleActive)
}
