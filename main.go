package main

import (
	"log"

	"gamevault-backend/cache"
	"gamevault-backend/config"
	"gamevault-backend/controller"
	"gamevault-backend/jobs"
	kafkax "gamevault-backend/kafka"
	"gamevault-backend/model"
	"gamevault-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ======================
// INIT DATABASE
// ======================
func initDB(cfg config.AppConfig) {
	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPass +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable TimeZone=UTC"

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}

	if err := DB.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.Payment{},
		&model.SupportTicket{},
		&model.SupportMessage{},
		&model.PaymentConfig{},
		&model.PayoutRecord{},
	); err != nil {
		log.Fatal(err)
	}
}

func main() {
	cfg := config.Load()
	initDB(cfg)

	producer := kafkax.NewProducer(cfg.KafkaBroker)
	rdb := cache.Connect(cfg.RedisAddr)

	// ======================
	// SCHEDULED JOBS
	// ======================
	c := cron.New()
	if _, err := c.AddFunc("30 3 * * *", func() { jobs.ExpireSubscriptions(DB) }); err != nil {
		log.Fatal("failed to schedule subscription expiry:", err)
	}
	if _, err := c.AddFunc("0 4 * * *", func() { jobs.SweepPayouts(DB) }); err != nil {
		log.Fatal("failed to schedule payout sweep:", err)
	}
	c.Start()

	// ======================
	// HTTP SERVER (Fiber)
	// ======================
	app := fiber.New()
	app.Use(logger.New())

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "message": "GameVault API is running"})
	})

	oc := &controller.OrderController{
		DB:       DB,
		Redis:    rdb,
		Producer: producer,
		AuthOpen: cfg.OrderAuthOpen,
	}

	routes.RegisterAuthRoutes(app, DB, cfg.JWTSecret)
	routes.RegisterOrderRoutes(app, oc, cfg.JWTSecret)
	routes.RegisterSupportRoutes(app, DB, cfg.JWTSecret)
	routes.RegisterPaymentConfigRoutes(app, DB, cfg.JWTSecret)
	routes.RegisterUserRoutes(app, DB, cfg.JWTSecret)

	log.Println("HTTP server running on port " + cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("fiber error:", err)
	}
}
