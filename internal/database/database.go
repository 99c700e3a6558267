package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"gymstudio/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate applies the schema for every booking-core model. The composite
// unique index on appointments that arbitrates slot exclusivity is declared on
// the model itself so SQLite test databases carry the same guarantee.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Client{},
		&domain.Event{},
		&domain.Registration{},
		&domain.Appointment{},
		&domain.Payment{},
		&domain.AttendanceLog{},
		&domain.Lead{},
	)
}
