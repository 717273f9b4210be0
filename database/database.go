package database

import (
	"shiftly/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	// Seed default super-admin if not exists
	if err := seedSuperAdmin(); err != nil {
		return err
	}

	return nil
}

// Migrate runs the schema migration for every entity. Shared with the test
// harness, which points it at an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Establishment{},
		&models.User{},
		&models.Employee{},
		&models.Team{},
		&models.Shift{},
		&models.Assignment{},
	)
}

func seedSuperAdmin() error {
	var count int64
	DB.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		Email:        "admin@localhost",
		PasswordHash: string(hashedPassword),
		IsManager:    true,
		IsAdmin:      true,
		IsSuperAdmin: true,
	}

	if result := DB.Create(&admin); result.Error != nil {
		return result.Error
	}

	log.Info().Msg("default super-admin created (username: admin, password: admin)")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
