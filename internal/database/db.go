package database

import (
	"billing-backend/internal/config"
	"billing-backend/internal/logger"
	"billing-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	log := logger.WithComponent("database")

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Msg("database connected, migration complete")
}

// Migrate runs AutoMigrate for every model. Shared with tests, which run it
// against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Counter{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.StockMovement{},
		&models.Quotation{},
		&models.QuotationItem{},
		&models.Expense{},
	)
}
