package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"equiptrack-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func envDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// D2CChannelName is the organizational name of the distributor record that
// acts as the direct-to-consumer sale channel.
func D2CChannelName() string {
	return envDefault("D2C_CHANNEL_NAME", "Factory Direct")
}

func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envDefault("DB_HOST", "db"),
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"),
		envDefault("DB_PORT", "5432"))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Println(err)
		panic("could not connect to database")
	}
}

// AutoMigrate creates/updates all tables. Constraints AutoMigrate cannot
// express (cross-table FKs, CHECKs) live in EnsureConstraints.
func AutoMigrate() error {
	return DB.AutoMigrate(
		&models.Category{}, &models.MachineModel{},
		&models.Distributor{}, &models.Engineer{}, &models.User{},
		&models.Supply{}, &models.Return{}, &models.Sale{}, &models.WarrantyCertificate{},
		&models.Machine{},
		&models.ServiceRequest{}, &models.ServiceVisit{}, &models.VisitComment{}, &models.CommentAttachment{},
		&models.IdempotencyKey{},
	)
}

// SeedDirectChannel makes sure the D2C channel distributor exists, so the
// reverse-sale path always has a row to compare against.
func SeedDirectChannel() error {
	d := models.Distributor{Name: D2CChannelName()}
	return DB.Where("name = ?", d.Name).FirstOrCreate(&d).Error
}
