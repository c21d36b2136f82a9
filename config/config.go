package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds everything the service reads from the environment
type Config struct {
	Port          string `envconfig:"PORT" default:"8000"`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"ecommerce"`
	JWTSecret     string `envconfig:"JWT_SECRET" default:"your_secret_key"`
	SessionDBPath string `envconfig:"SESSION_DB_PATH" default:"data/session.db"`
	SessionCache  int    `envconfig:"SESSION_CACHE_SIZE" default:"10000"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	CloudinaryCloudName    string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryUploadPreset string `envconfig:"CLOUDINARY_UPLOAD_PRESET"`
	CloudinaryBaseURL      string `envconfig:"CLOUDINARY_BASE_URL" default:"https://api.cloudinary.com"`

	EmailProvider    string `envconfig:"EMAIL_PROVIDER" default:"none"` // postmark, sendgrid or none
	PostmarkAPIToken string `envconfig:"POSTMARK_API_TOKEN"`
	SendGridAPIKey   string `envconfig:"SENDGRID_API_KEY"`
	EmailSender      string `envconfig:"EMAIL_SENDER"`

	DeliveryAreas []string `envconfig:"DELIVERY_AREAS"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// Load reads .env when present and then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	for i, area := range cfg.DeliveryAreas {
		cfg.DeliveryAreas[i] = strings.ToLower(strings.TrimSpace(area))
	}
	return &cfg, nil
}

// NewLogger builds a production zap logger at the configured level
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
