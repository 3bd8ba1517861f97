package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/emaskripto-boop/Emaskripto/config"
	"github.com/emaskripto-boop/Emaskripto/internal/store"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

// Connect opens the backing database for the document store. SQLite is the
// default so the demo runs standalone; postgres is available for deployments
// that want a shared store.
func Connect(cfg *config.Config, log *utils.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.StoreDSN,
			PreferSimpleProtocol: true,
		})
	default:
		dialector = sqlite.Open(cfg.StoreDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Error),
	})
	if err != nil {
		return nil, err
	}

	log.Infof("✅ Connected to %s store", cfg.StoreDriver)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB, log *utils.Logger) error {
	log.Info("📦 Migrating document table...")
	if err := db.AutoMigrate(&store.Document{}); err != nil {
		log.Errorf("✖ Failed to migrate database: %v", err)
		return err
	}
	return nil
}
