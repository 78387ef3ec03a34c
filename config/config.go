package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port string
	Env  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RazorpayKeyID     string
	RazorpayKeySecret string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string

	// PublicBaseURL is the externally reachable origin used when building
	// receipt links; the messaging provider fetches media from it.
	PublicBaseURL string
	ReceiptsDir   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// App is the active configuration, set by LoadConfig.
var App *Config

// LoadConfig loads configuration from environment variables. A missing .env
// file is not an error; deployments commonly inject the environment directly.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			smtpPort = p
		}
	}

	config := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  os.Getenv("ENV"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", "postgres"),
		DBName:               getEnv("DB_NAME", "donations"),
		RazorpayKeyID:        os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:    os.Getenv("RAZORPAY_KEY_SECRET"),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886"),
		PublicBaseURL:        getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		ReceiptsDir:          getEnv("RECEIPTS_DIR", "receipts"),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             smtpPort,
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             os.Getenv("SMTP_FROM"),
	}

	App = config
	return config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
