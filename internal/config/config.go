package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"gamehub/topup-service/internal/fees"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string

	OrderServiceURL    string
	InternalServiceKey string

	PaystackSecretKey       string
	PaystackBaseURL         string
	PaystackCheckoutEnabled bool
	PaystackCallbackURL     string
	PaystackAllowedChannels []string
	PaystackDefaultCurrency string

	// Amounts are in currency subunits (kobo for NGN).
	FeePercentage          decimal.Decimal
	FlatFee                int64
	FlatFeeWaiverThreshold int64
	FeeCap                 int64
	MinAmount              int64
	MaxAmount              int64

	VerifyDelay     time.Duration
	VerifyTimeout   time.Duration
	ScheduleRefresh time.Duration

	JWTPublicKeyPath string
	JWTIssuer        string
	AppEnv           string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}
	return &Config{
		Port:                    getEnv("PORT", "8006"),
		MongoURI:                mustGetEnv("MONGO_URI"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "gamehub"),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		OrderServiceURL:         getEnv("ORDER_SERVICE_URL", "http://order-service:8005"),
		InternalServiceKey:      getEnv("INTERNAL_SERVICE_KEY", "dev-service-key"),
		PaystackSecretKey:       getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:         getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackCheckoutEnabled: getEnvBool("PAYSTACK_CHECKOUT_ENABLED", true),
		PaystackCallbackURL:     getEnv("PAYSTACK_CALLBACK_URL", ""),
		PaystackAllowedChannels: splitAndTrim(getEnv("PAYSTACK_ALLOWED_CHANNELS", "card,bank,ussd,bank_transfer")),
		PaystackDefaultCurrency: getEnv("PAYSTACK_DEFAULT_CURRENCY", "NGN"),
		FeePercentage:           getEnvDecimal("TOPUP_FEE_PERCENTAGE", decimal.RequireFromString("0.015")),
		FlatFee:                 getEnvInt64("TOPUP_FLAT_FEE", 10000),
		FlatFeeWaiverThreshold:  getEnvInt64("TOPUP_FLAT_FEE_WAIVER_THRESHOLD", 250000),
		FeeCap:                  getEnvInt64("TOPUP_FEE_CAP", 200000),
		MinAmount:               getEnvInt64("TOPUP_MIN_AMOUNT", 10000),
		MaxAmount:               getEnvInt64("TOPUP_MAX_AMOUNT", 100000000),
		VerifyDelay:             getEnvDuration("TOPUP_VERIFY_DELAY", 5*time.Second),
		VerifyTimeout:           getEnvDuration("TOPUP_VERIFY_TIMEOUT", 15*time.Second),
		ScheduleRefresh:         getEnvDuration("TOPUP_SCHEDULE_REFRESH", 5*time.Minute),
		JWTPublicKeyPath:        getEnv("JWT_PUBLIC_KEY_PATH", "/run/secrets/jwt_public.pem"),
		JWTIssuer:               getEnv("JWT_ISSUER", "gamehub-auth"),
		AppEnv:                  getEnv("APP_ENV", "development"),
	}
}

// Calculator is the fee calculator configured through the environment. It is
// the fallback when no schedule is published.
func (c *Config) Calculator() fees.Calculator {
	return fees.Calculator{
		Schedule: fees.Schedule{
			PercentageFee:          c.FeePercentage,
			FlatFee:                c.FlatFee,
			FlatFeeWaiverThreshold: c.FlatFeeWaiverThreshold,
			FeeCap:                 c.FeeCap,
		},
		MinAmount: c.MinAmount,
		MaxAmount: c.MaxAmount,
	}
}

func mustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("FATAL: %s required", key)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		log.Printf("[config] %s=%q is not an integer, using %d", key, v, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[config] %s=%q is not a duration, using %s", key, v, fallback)
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
		log.Printf("[config] %s=%q is not a decimal, using %s", key, v, fallback)
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
