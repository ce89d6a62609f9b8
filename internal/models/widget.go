package models

import (
	"time"
)

// Widget is one entry in a user's widget list: an identity/type pair.
// Placement lives in DashboardLayout and settings in WidgetConfig so the
// three stores stay independently writable.
type Widget struct {
	ID        uint   `gorm:"primaryKey"`
	UserIDRef string `gorm:"uniqueIndex:uniq_user_widget,priority:1"`
	WidgetID  string `gorm:"uniqueIndex:uniq_user_widget,priority:2"`
	Type      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
