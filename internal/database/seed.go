package database

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/boxento/boxento-server/internal/config"
	"github.com/boxento/boxento-server/internal/models"
	"github.com/boxento/boxento-server/internal/utils"
)

// SeedDemoUser creates a demo account with a starter widget list when the
// database is empty, so a fresh install renders a dashboard. Layout
// placements are synthesized by reconciliation on first load.
func SeedDemoUser(db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.DemoPassword)
	if err != nil {
		return err
	}

	user := models.User{
		UserID:   uuid.NewString(),
		FullName: cfg.DemoFullName,
		Email:    cfg.DemoEmail,
		Password: hashed,
		Active:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	starters := []string{"clock", "weather", "quicklinks"}
	for i, typ := range starters {
		w := models.Widget{
			UserIDRef: user.UserID,
			WidgetID:  typ + "-" + uuid.NewString()[:8],
			Type:      typ,
			Position:  i,
		}
		if err := db.Create(&w).Error; err != nil {
			return err
		}
		conf := models.WidgetConfig{
			UserIDRef: user.UserID,
			WidgetID:  w.WidgetID,
			Config:    []byte(`{}`),
		}
		if err := db.Create(&conf).Error; err != nil {
			return err
		}
	}

	logger.Info("seeded demo user", zap.String("email", user.Email))
	return nil
}
