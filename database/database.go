// database.go - Handles database connection and setup

package database

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-devicetrust-backend/config"
	"go-devicetrust-backend/models"
)

// DB is the global database handle, set by Connect.
var DB *gorm.DB

// Connect opens the database and runs migrations.
func Connect(dbPath string) error {
	// _busy_timeout keeps concurrent writers queued instead of failing
	// with SQLITE_BUSY during simultaneous login attempts.
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := DB.AutoMigrate(
		&models.User{},
		&models.AuthorizedDevice{},
		&models.AccessRequest{},
		&models.Session{},
	); err != nil {
		return err
	}

	return seedAdmin()
}

// seedAdmin creates a provisioned administrator account if configured and no
// administrator exists yet. Credentials come from the environment, never from
// code.
func seedAdmin() error {
	cfg := config.Load()
	if !cfg.SeedAdmin || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", models.RoleAdministrator).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdministrator,
	}
	return DB.Create(&admin).Error
}
