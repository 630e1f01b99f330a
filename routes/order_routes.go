package routes

import (
	"gamevault-backend/controller"
	"gamevault-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterOrderRoutes wires the order lifecycle. With the open policy every
// route takes OptionalAuth (legacy behavior: body user_id accepted, listing
// unrestricted); closed policy requires a token and gates list-all behind
// the admin flag.
func RegisterOrderRoutes(app *fiber.App, oc *controller.OrderController, jwtSecret string) {
	authRequired := middleware.AuthRequired(jwtSecret)
	optionalAuth := middleware.OptionalAuth(jwtSecret)

	guard := authRequired
	listAllGuards := []fiber.Handler{authRequired, middleware.AdminRequired()}
	if oc.AuthOpen {
		guard = optionalAuth
		listAllGuards = []fiber.Handler{optionalAuth}
	}

	api := app.Group("/api")
	o := api.Group("/orders")

	o.Post("/", guard, oc.Create)
	o.Get("/", append(listAllGuards, oc.ListAll)...)
	o.Get("/user/:id", guard, oc.ListUser)
	o.Get("/:id", guard, oc.Get)
	o.Post("/:id/process-payment", guard, oc.ProcessPayment)
	o.Post("/:id/refund", guard, oc.Refund)
}
