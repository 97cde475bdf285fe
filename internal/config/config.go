package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	DBDriver          string
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	MongoURI          string
	MongoDatabase     string
	AppPort           string
	AppEnv            string
	JWTSecret         string
	RazorpayKeyID     string
	RazorpayKeySecret string
	FrontendURL       string
	UploadDir         string
	AdminName         string
	AdminEmail        string
	AdminPassword     string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:          getEnv("DB_DRIVER", DriverPostgres),
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            os.Getenv("DB_PORT"),
		MongoURI:          os.Getenv("MONGODB_URI"),
		MongoDatabase:     getEnv("MONGODB_DATABASE", "threadstory"),
		AppPort:           getEnv("APP_PORT", "5000"),
		AppEnv:            os.Getenv("APP_ENV"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		FrontendURL:       os.Getenv("FRONTEND_URL"),
		UploadDir:         getEnv("UPLOAD_DIR", "public/images/products"),
		AdminName:         getEnv("ADMIN_NAME", "Admin User"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// Validate checks that the selected store has connection settings.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" {
			return errEnvNotLoaded
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errMongoURIMissing
		}
	default:
		return errUnknownDriver
	}
	return nil
}

// PaymentsConfigured reports whether both Razorpay credentials are present.
func (c *Config) PaymentsConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
