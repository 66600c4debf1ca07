package model

import "time"

// Announcement is a staff-facing notice shown on the register screens.
// LocationID nil means the announcement is visible at every location.
type Announcement struct {
	ID         uint   `gorm:"primaryKey"`
	Title      string `gorm:"not null"`
	Body       string `gorm:"type:text;not null"`
	LocationID *uint  `gorm:"index"`
	UserID     uint   `gorm:"not null"`
	Active     bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User *User `gorm:"foreignKey:UserID"`
}
