package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreMySQL    = "mysql"
	StorePostgres = "postgres"
)

// Model artifact sources.
const (
	ModelSourceFile = "file"
	ModelSourceS3   = "s3"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origins              []string
	Environment          string
	LogLevel             string
	LogFormat            string
	StoreDriver          string
	Database             DatabaseConfig
	Model                ModelConfig
	Kafka                KafkaConfig
	JWTSecret            string
	JWTExpirationMinutes int
	Admin                AdminConfig
	StaticDir            string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// ModelConfig locates the prediction artifacts.
type ModelConfig struct {
	Source     string
	Dir        string
	ModelFile  string
	ScalerFile string
	S3Bucket   string
}

// KafkaConfig enables event publishing when Brokers is not empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AdminConfig holds the operator credentials.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	environment := getEnv("APP_ENV", "development")
	if err := oneOf("APP_ENV", environment, "development", "production", "testing"); err != nil {
		return nil, err
	}

	storeDriver := strings.ToLower(getEnv("STORE_DRIVER", StoreMemory))
	if err := oneOf("STORE_DRIVER", storeDriver, StoreMemory, StoreMySQL, StorePostgres); err != nil {
		return nil, err
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", defaultDBPort(storeDriver)),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "seizure_care"),
	}
	dbConfig.DSN = buildDSN(storeDriver, dbConfig, getEnv("DATABASE_URL", ""))

	modelConfig := ModelConfig{
		Source:     strings.ToLower(getEnv("MODEL_SOURCE", ModelSourceFile)),
		Dir:        getEnv("MODEL_DIR", "models"),
		ModelFile:  getEnv("MODEL_FILE", "best_mlp_model.json"),
		ScalerFile: getEnv("SCALER_FILE", "mlp_scaler.json"),
		S3Bucket:   getEnv("MODEL_S3_BUCKET", ""),
	}
	if err := oneOf("MODEL_SOURCE", modelConfig.Source, ModelSourceFile, ModelSourceS3); err != nil {
		return nil, err
	}
	if modelConfig.Source == ModelSourceS3 && modelConfig.S3Bucket == "" {
		return nil, fmt.Errorf("MODEL_S3_BUCKET is required when MODEL_SOURCE=s3")
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	logFormat := "json"
	if environment == "development" {
		logFormat = "console"
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		Origins:     splitList(getEnv("ORIGIN", "*")),
		Environment: environment,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", logFormat),
		StoreDriver: storeDriver,
		Database:    dbConfig,
		Model:       modelConfig,
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "seizure-care-events"),
		},
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
		JWTExpirationMinutes: jwtExpMinutes,
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		StaticDir: getEnv("STATIC_DIR", "static"),
	}, nil
}

func defaultDBPort(driver string) string {
	if driver == StorePostgres {
		return "5432"
	}
	return "3306"
}

// buildDSN returns databaseURL when set, otherwise a DSN for driver built from db.
// Hosting providers hand out postgres:// URLs; the pgx driver prefers postgresql://.
func buildDSN(driver string, db DatabaseConfig, databaseURL string) string {
	if databaseURL != "" {
		if strings.HasPrefix(databaseURL, "postgres://") {
			return "postgresql://" + strings.TrimPrefix(databaseURL, "postgres://")
		}
		return databaseURL
	}
	if driver == StorePostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			db.Host, db.Port, db.Username, db.Password, db.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		db.Username, db.Password, db.Host, db.Port, db.Name)
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q: must be one of %s", key, value, strings.Join(allowed, ", "))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
