package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultDataPath keeps the sqlite database in memory for the life of the
// process.
const DefaultDataPath = "file:restbook?mode=memory&cache=shared"

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	TotalBookings int    `gorm:"default:0" json:"total_bookings"`
	TotalCovers   int    `gorm:"default:0" json:"total_covers"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RestaurantRecord represents the restaurants table. UUID is the identifier
// handed out to callers.
type RestaurantRecord struct {
	ID          uint   `gorm:"primaryKey"`
	UUID        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Description string
	Periods     []OpeningPeriodRecord `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Tables      []TableRecord         `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}

func (RestaurantRecord) TableName() string { return "restaurants" }

// OpeningPeriodRecord stores a period as its two integer offsets.
type OpeningPeriodRecord struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Position     int  `gorm:"not null"`
	StartOffset  int  `gorm:"not null"`
	EndOffset    int  `gorm:"not null"`
}

func (OpeningPeriodRecord) TableName() string { return "opening_periods" }

// TableRecord keeps the table's position, which is its number.
type TableRecord struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID uint `gorm:"index;not null"`
	Position     int  `gorm:"not null"`
	Covers       int  `gorm:"not null"`
}

func (TableRecord) TableName() string { return "restaurant_tables" }

// BookingRecord represents the bookings table. Rows are read back in ID
// order, which is the order they were accepted in.
type BookingRecord struct {
	ID           uint   `gorm:"primaryKey"`
	UUID         string `gorm:"uniqueIndex;not null"`
	RestaurantID uint   `gorm:"index;not null"`
	Reference    string
	Covers       int       `gorm:"not null"`
	Start        time.Time `gorm:"not null"`
	Finish       time.Time `gorm:"not null"`
	CreatedAt    time.Time
}

func (BookingRecord) TableName() string { return "bookings" }

// InitDB opens postgres when databaseURL is set and sqlite at dataPath
// otherwise, then migrates the schema.
func InitDB(databaseURL, dataPath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if databaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
			Logger:      logger.Default.LogMode(logger.Warn),
		})
	} else {
		if dataPath == "" {
			dataPath = DefaultDataPath
		}
		db, err = gorm.Open(sqlite.Open(dataPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			// sqlite allows a single writer; one connection avoids lock errors.
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&APIKey{}, &APIUsage{}, &MasterUser{},
		&RestaurantRecord{}, &OpeningPeriodRecord{}, &TableRecord{}, &BookingRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
