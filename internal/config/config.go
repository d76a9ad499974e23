package config

import (
	"os"
	"time"

	"github.com/SaladDann/SIGECOB/pkg/config"
)

type ServiceConfig struct {
	config.Config

	// CheckoutRateLimit is requests per second per client on POST /orders; 0 disables it.
	CheckoutRateLimit float64
	TokenTTL          time.Duration
	ShutdownTimeout   time.Duration

	// AdminEmail and AdminPassword seed the first administrator when no admin exists.
	AdminEmail    string
	AdminPassword string
}

func Load() (ServiceConfig, error) {
	cfg := config.Load()

	if err := config.CheckRequired(
		config.RequiredString("DATABASE_URL", cfg.DatabaseURL),
		config.Required{Env: "JWT_SECRET", Value: cfg.JWTAccessSecret},
	); err != nil {
		return ServiceConfig{}, err
	}

	return ServiceConfig{
		Config:            cfg,
		CheckoutRateLimit: config.EnvFloatDefault("CHECKOUT_RATE_LIMIT", 5),
		TokenTTL:          time.Duration(config.EnvIntDefault("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		ShutdownTimeout:   10 * time.Second,
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}, nil
}
