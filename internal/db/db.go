package db

import (
	"log"

	"allvoter/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to PostgreSQL and runs migrations. The returned handle is
// injected into handlers and services; there is no package-level connection.
func Open(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	return gdb, nil
}

// Migrate creates or updates the schema for every model. Exposed separately
// so tests can run it against their own database.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Candidate{},
		&models.Election{},
	)
}

// Close releases the underlying connection pool. Called on shutdown.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
