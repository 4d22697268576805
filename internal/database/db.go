package database

import (
	"errors"
	"log"
	"time"

	"go-rental-pos/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the MySQL database, waiting for it to come up, and syncs the
// schema. The returned handle is passed down to the store and handlers rather
// than held as a package global.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DB_DSN not set; configure the database connection")
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database connected and schema synced")
	return db, nil
}

// Migrate syncs the schema. Split out so tests can run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Client{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Rental{},
		&models.RentalItem{},
		&models.MonthlyReport{},
	)
}

// SeedAdmin creates the initial admin account if no user with that name
// exists yet. Used by the `seed` command on first install.
func SeedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         "admin",
		Active:       true,
	}
	return db.Create(&admin).Error
}
