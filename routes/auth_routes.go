package routes

import (
	"gamevault-backend/controller"
	"gamevault-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func RegisterAuthRoutes(app *fiber.App, db *gorm.DB, jwtSecret string) {
	ac := &controller.AuthController{DB: db, JWTSecret: jwtSecret}
	authRequired := middleware.AuthRequired(jwtSecret)

	api := app.Group("/api")
	a := api.Group("/auth")

	a.Post("/register", ac.Register)
	a.Post("/login", ac.Login)
	a.Get("/me", authRequired, ac.Me)
	a.Post("/change-password", authRequired, ac.ChangePassword)
	a.Put("/update-profile", authRequired, ac.UpdateProfile)
	a.Post("/subscribe", authRequired, ac.Subscribe)
}
