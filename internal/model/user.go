package model

import "time"

// User is a system user who logs in with a numeric PIN.
// Role: "cashier" | "manager" | "admin"
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	// PINHash is a bcrypt hash of the login PIN — never the PIN itself.
	PINHash string `gorm:"column:pin_hash;not null"`
	Role    string `gorm:"type:varchar(20);not null"`
	// LocationID restricts the user to one location; nil = all locations.
	LocationID *uint
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Location *Location `gorm:"foreignKey:LocationID"`
}
