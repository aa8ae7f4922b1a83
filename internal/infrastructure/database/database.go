package database

import (
	"yardsale-board/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the ledger database from a Postgres DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers (PgBouncer, Supabase).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// AutoMigrate creates the ledger tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.ListingEvent{}, &domain.Payment{})
}

// Pinger adapts a GORM handle to the health check.
type Pinger struct {
	DB *gorm.DB
}

func (p *Pinger) Ping() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
