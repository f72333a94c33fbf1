package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // REPORT_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	MongoDB       MongoDBConfig
	Report        ReportConfig
	JWT           JWTConfig
	PurchaseSheet PurchaseSheetConfig
	InfluxDB      InfluxDBConfig
	Archive       ArchiveConfig
	S3            S3Config
	Email         EmailConfig
	Schedule      ScheduleConfig
	OpenAI        OpenAIConfig
	Log           LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// MongoDBConfig holds MongoDB connection details and collection names
type MongoDBConfig struct {
	URI        string
	Username   string
	Password   string
	Host       string
	Port       string
	Database   string
	AuthSource string // Database to authenticate against (default: admin)

	TasksCollection       string
	WorkflowsCollection   string
	ChecklistsCollection  string
	HelpTicketsCollection string
	UsersCollection       string
}

// ReportConfig holds MIS report settings
type ReportConfig struct {
	Timezone string
	Location *time.Location // resolved from Timezone by ValidateConfig
}

// JWTConfig holds JWT-related configuration. An empty secret disables auth.
type JWTConfig struct {
	Secret          string
	TokenTTL        time.Duration
	MockAuthEnabled bool
}

// PurchaseSheetConfig holds the purchase indent spreadsheet source
type PurchaseSheetConfig struct {
	URL          string // published CSV export URL
	StatusColumn string
	CacheTTL     time.Duration
	Timeout      time.Duration
}

// InfluxDBConfig holds InfluxDB connection details (optional metrics sink)
type InfluxDBConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// ArchiveConfig selects where exported PDFs are stored
type ArchiveConfig struct {
	Backend   string // "local" or "s3"
	LocalPath string
	BaseURL   string
}

// S3Config holds S3 connection details
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for S3-compatible services like MinIO
}

// EmailConfig holds SendGrid email configuration
type EmailConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// ScheduleConfig holds cron schedules
type ScheduleConfig struct {
	MonthlyEmail string // cron format with seconds
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Development bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8085"),
			Host:            getEnv("HOST", "0.0.0.0"),
			GinMode:         getEnv("GIN_MODE", "release"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		MongoDB: MongoDBConfig{
			URI:                   getEnv("MONGODB_URI", ""),
			Username:              getEnv("MONGODB_USERNAME", ""),
			Password:              getEnv("MONGODB_PASSWORD", ""),
			Host:                  getEnv("MONGODB_HOST", "localhost"),
			Port:                  getEnv("MONGODB_PORT", "27017"),
			Database:              getEnv("MONGODB_DATABASE", "fms"),
			AuthSource:            getEnv("MONGODB_AUTH_SOURCE", "admin"),
			TasksCollection:       getEnv("MONGODB_TASKS_COLLECTION", "tasks"),
			WorkflowsCollection:   getEnv("MONGODB_WORKFLOWS_COLLECTION", "projects"),
			ChecklistsCollection:  getEnv("MONGODB_CHECKLISTS_COLLECTION", "checklists"),
			HelpTicketsCollection: getEnv("MONGODB_HELPTICKETS_COLLECTION", "helptickets"),
			UsersCollection:       getEnv("MONGODB_USERS_COLLECTION", "users"),
		},
		Report: ReportConfig{
			Timezone: getEnv("REPORT_TIMEZONE", "Local"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			TokenTTL:        getEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
			MockAuthEnabled: getEnvBool("AUTH_MOCK_ENABLED", false),
		},
		PurchaseSheet: PurchaseSheetConfig{
			URL:          getEnv("PURCHASE_SHEET_URL", ""),
			StatusColumn: getEnv("PURCHASE_STATUS_COLUMN", "Status"),
			CacheTTL:     getEnvDuration("PURCHASE_CACHE_TTL", 5*time.Minute),
			Timeout:      getEnvDuration("PURCHASE_SHEET_TIMEOUT", 30*time.Second),
		},
		InfluxDB: InfluxDBConfig{
			URL:    getEnv("INFLUXDB2_URL", ""),
			Token:  getEnv("INFLUXDB2_TOKEN", ""),
			Org:    getEnv("INFLUXDB2_ORG", ""),
			Bucket: getEnv("INFLUXDB2_BUCKET", ""),
		},
		Archive: ArchiveConfig{
			Backend:   getEnv("ARCHIVE_BACKEND", "local"),
			LocalPath: getEnv("ARCHIVE_LOCAL_PATH", "./archive"),
			BaseURL:   getEnv("ARCHIVE_BASE_URL", "http://localhost:8085/archive"),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Optional for MinIO/custom S3
		},
		Email: EmailConfig{
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
			FromName:  getEnv("SENDGRID_FROM_NAME", "FMS Reports"),
		},
		Schedule: ScheduleConfig{
			MonthlyEmail: getEnv("MIS_EMAIL_SCHEDULE", "0 0 6 1 * *"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.3),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 600),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that required configuration values are present
// and resolves derived values such as the report location
func ValidateConfig(config *Config) error {
	if config.MongoDB.URI == "" && config.MongoDB.Host == "" {
		return fmt.Errorf("MONGODB_URI or MONGODB_HOST is required")
	}
	if config.MongoDB.Database == "" {
		return fmt.Errorf("MONGODB_DATABASE is required")
	}

	loc, err := time.LoadLocation(config.Report.Timezone)
	if err != nil {
		return fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", config.Report.Timezone, err)
	}
	config.Report.Location = loc

	if config.PurchaseSheet.CacheTTL <= 0 {
		return fmt.Errorf("PURCHASE_CACHE_TTL must be positive")
	}

	switch config.Archive.Backend {
	case "local":
		if config.Archive.LocalPath == "" {
			return fmt.Errorf("ARCHIVE_LOCAL_PATH is required for the local archive backend")
		}
	case "s3":
		if config.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 archive backend")
		}
		if config.S3.AccessKeyID == "" || config.S3.SecretAccessKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required for the s3 archive backend")
		}
	default:
		return fmt.Errorf("ARCHIVE_BACKEND must be \"local\" or \"s3\", got %q", config.Archive.Backend)
	}

	// InfluxDB is optional, but a partial configuration is a mistake
	if config.InfluxDB.URL != "" && (config.InfluxDB.Token == "" || config.InfluxDB.Org == "" || config.InfluxDB.Bucket == "") {
		return fmt.Errorf("INFLUXDB2_TOKEN, INFLUXDB2_ORG and INFLUXDB2_BUCKET are required when INFLUXDB2_URL is set")
	}

	if config.Email.APIKey != "" && config.Email.FromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is required when SENDGRID_API_KEY is set")
	}

	if config.JWT.MockAuthEnabled && config.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MOCK_ENABLED is true")
	}

	return nil
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
