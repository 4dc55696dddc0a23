package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	AppPort    string
	CORSOrigin string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	JWTSecret  string
	SessionTTL time.Duration

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	PaymentCurrency       string
	GatewayTimeout        time.Duration

	NotifierDriver string
	SMTPHost       string
	SMTPPort       string
	MailUsername   string
	MailPassword   string
	MailSender     string
	NotifyTimeout  time.Duration
	NotifyWait     time.Duration
	AMQPURL        string
	AMQPExchange   string

	GoogleMapsAPIKey string
	ImageDir         string
	AdminInviteCode  string

	InternalSecretKey string
}

var ErrMissingEnv = errors.New("environment variables not loaded properly")

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		AppPort:    getEnv("APP_PORT", "8080"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		PaymentCurrency:       getEnv("PAYMENT_CURRENCY", "INR"),
		GatewayTimeout:        getDuration("GATEWAY_TIMEOUT", 15*time.Second),

		NotifierDriver: getEnv("NOTIFIER_DRIVER", "log"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		MailUsername:   os.Getenv("EMAIL"),
		MailPassword:   os.Getenv("PASSWORD"),
		MailSender:     getEnv("MAIL_DEFAULT_SENDER", os.Getenv("EMAIL")),
		NotifyTimeout:  getDuration("NOTIFY_TIMEOUT", 10*time.Second),
		NotifyWait:     getDuration("NOTIFY_WAIT", 2*time.Second),
		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "sudhamrit.notifications"),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		ImageDir:         getEnv("IMAGE_DIR", "static/images"),
		AdminInviteCode:  os.Getenv("ADMIN_INVITE_CODE"),

		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
	}

	if cfg.DBHost == "" || cfg.JWTSecret == "" {
		return nil, ErrMissingEnv
	}

	return cfg, nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("15s") or plain seconds ("15").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
