// Package seed prepares the simulator's schema and optional demo data.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codeup/statio-portal/pkg/config"
	"github.com/codeup/statio-portal/pkg/db/models"
	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/security"
)

// Demo credentials, printed at startup when demo seeding is on.
const (
	DemoAdminEmail    = "admin@statio.dev"
	DemoAdminPassword = "admin-password"
	DemoUserEmail     = "driver@statio.dev"
	DemoUserPassword  = "driver-password"
)

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Building{},
		&models.Floor{},
		&models.Spot{},
		&models.Reservation{},
		&models.ParkingSession{},
		&models.Payment{},
		&models.ActivityLog{},
	)
}

// Demo inserts a small garage and two accounts. Idempotent: it does nothing
// when any user already exists.
func Demo(ctx context.Context, db *gorm.DB, passCfg config.PasswordConfig, logg *logger.Logger) error {
	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if users > 0 {
		return nil
	}

	adminHash, err := security.HashPassword(DemoAdminPassword, passCfg)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	userHash, err := security.HashPassword(DemoUserPassword, passCfg)
	if err != nil {
		return fmt.Errorf("hashing user password: %w", err)
	}

	building := models.Building{
		ID:      uuid.New(),
		Name:    "Central Garage",
		Address: "1 Station Plaza",
	}

	floors := []models.Floor{
		{ID: uuid.New(), BuildingID: building.ID, FloorNumber: 0},
		{ID: uuid.New(), BuildingID: building.ID, FloorNumber: 1},
	}

	spotSpecs := []struct {
		floor  int
		number string
		typ    enums.SpotType
		rate   float64
	}{
		{0, "G-01", enums.SpotTypeRegular, 20},
		{0, "G-02", enums.SpotTypeRegular, 20},
		{0, "G-03", enums.SpotTypeHandicap, 15},
		{0, "G-04", enums.SpotTypeEVCharging, 35},
		{1, "F1-01", enums.SpotTypeRegular, 20},
		{1, "F1-02", enums.SpotTypeVIP, 50},
		{1, "F1-03", enums.SpotTypeVIP, 50},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin := models.User{
			ID:           uuid.New(),
			Email:        DemoAdminEmail,
			PasswordHash: adminHash,
			FullName:     "Demo Admin",
			Role:         enums.RoleAdmin,
			IsActive:     true,
		}
		driver := models.User{
			ID:           uuid.New(),
			Email:        DemoUserEmail,
			PasswordHash: userHash,
			FullName:     "Demo Driver",
			Role:         enums.RoleUser,
			IsActive:     true,
		}
		if err := tx.Create([]*models.User{&admin, &driver}).Error; err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}

		if err := tx.Create(&building).Error; err != nil {
			return fmt.Errorf("seeding building: %w", err)
		}
		if err := tx.Create(&floors).Error; err != nil {
			return fmt.Errorf("seeding floors: %w", err)
		}

		for _, spec := range spotSpecs {
			spot := models.Spot{
				ID:         uuid.New(),
				FloorID:    floors[spec.floor].ID,
				SpotNumber: spec.number,
				Type:       spec.typ,
				Status:     enums.SpotStatusAvailable,
				HourlyRate: spec.rate,
			}
			if err := tx.Create(&spot).Error; err != nil {
				return fmt.Errorf("seeding spot %s: %w", spec.number, err)
			}
		}

		if logg != nil {
			logg.Info(ctx, "demo data seeded")
		}
		return nil
	})
}
