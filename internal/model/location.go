package model

import "time"

// Location is one physical store / register site. Sales, closures, and
// announcements can be scoped to a location; users are optionally pinned to one.
type Location struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Code      string `gorm:"uniqueIndex;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
