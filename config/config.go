package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port          string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPass        string
	DBName        string
	JWTSecret     string
	RedisAddr     string
	KafkaBroker   string
	OrderAuthOpen bool
}

// Load reads .env (if present) and builds the config from environment
// variables with the same defaults the services always ran with.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment variables")
	}

	return AppConfig{
		Port:          getEnv("PORT", "3000"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPass:        getEnv("DB_PASS", "postgres"),
		DBName:        getEnv("DB_NAME", "gamevaultdb"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		OrderAuthOpen: os.Getenv("ORDER_AUTH_OPEN") == "true",
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
