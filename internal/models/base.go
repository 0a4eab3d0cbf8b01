package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// GetID returns the entity identifier.
func (base *BaseModel) GetID() string {
	return base.ID
}

// AssignID sets the identifier of a record that has not been stored yet.
func (base *BaseModel) AssignID(id string) {
	base.ID = id
}

// MarkCreated stamps both timestamps with the creation instant.
func (base *BaseModel) MarkCreated(at time.Time) {
	base.CreatedAt = at
	base.UpdatedAt = at
}

// MarkUpdated stamps the update timestamp.
func (base *BaseModel) MarkUpdated(at time.Time) {
	base.UpdatedAt = at
}

// Database drivers accepted by InitDB.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string
	DSN    string
	Logger zerolog.Logger
}

// InitDB opens the relational backend and migrates the resource tables.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case DriverMySQL:
		dialector = mysql.Open(config.DSN)
	case DriverPostgres:
		dialector = postgres.Open(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(config.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.Driver, err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the resource tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Appointment{}, &Medication{}, &SeizureLog{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// NewGormLogger routes slow queries and driver errors to log. Missing rows
// are reported to callers, not logged.
func NewGormLogger(log zerolog.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}
