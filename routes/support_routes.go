package routes

import (
	"gamevault-backend/controller"
	"gamevault-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func RegisterSupportRoutes(app *fiber.App, db *gorm.DB, jwtSecret string) {
	sc := &controller.SupportController{DB: db}
	authRequired := middleware.AuthRequired(jwtSecret)
	adminRequired := middleware.AdminRequired()

	api := app.Group("/api")
	s := api.Group("/support")

	s.Post("/tickets", authRequired, sc.CreateTicket)
	s.Get("/tickets", authRequired, sc.ListTickets)
	s.Get("/tickets/:id", authRequired, sc.GetTicket)
	s.Post("/tickets/:id/messages", authRequired, sc.AddMessage)
	s.Put("/tickets/:id/status", authRequired, adminRequired, sc.UpdateStatus)
}
