package models

import (
	"time"

	"gorm.io/datatypes"
)

// DashboardLayout holds one user's full breakpoint-keyed layout document
// (the LayoutSet) as raw JSONB. The document is read and written whole;
// reconciliation happens in the dashboard package.
type DashboardLayout struct {
	ID        uint           `gorm:"primaryKey"`
	UserIDRef string         `gorm:"uniqueIndex"`
	Layouts   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
