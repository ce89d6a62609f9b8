package models

import (
	"time"

	"gorm.io/datatypes"
)

// WidgetConfig stores a widget's free-form settings object, keyed by widget
// id, independently of layout.
type WidgetConfig struct {
	ID        uint           `gorm:"primaryKey"`
	UserIDRef string         `gorm:"uniqueIndex:uniq_user_config,priority:1"`
	WidgetID  string         `gorm:"uniqueIndex:uniq_user_config,priority:2"`
	Config    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
