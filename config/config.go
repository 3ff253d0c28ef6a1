package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/services"
)

// InitDB opens the database from environment settings. MySQL is the
// production driver; DB_DRIVER=sqlite switches to a local file for
// development.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "food_order.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		envOr("DB_USER", "root"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_HOST", "127.0.0.1"),
		envOr("DB_PORT", "3306"),
		envOr("DB_NAME", "food_order"),
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// LoadPricing reads the pricing knobs from the environment, falling back
// to the service defaults for anything unset or unparsable.
func LoadPricing() services.PricingConfig {
	cfg := services.DefaultPricingConfig()
	if v, ok := envDecimal("TAX_RATE"); ok {
		cfg.TaxRate = v
	}
	if v, ok := envDecimal("DELIVERY_FEE"); ok {
		cfg.DeliveryFee = v
	}
	if v, ok := envDecimal("FREE_DELIVERY_THRESHOLD"); ok {
		cfg.FreeDeliveryThreshold = v
	}
	if v, ok := envDecimal("MINIMUM_ORDER"); ok {
		cfg.MinimumOrder = v
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDecimal(key string) (decimal.Decimal, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
