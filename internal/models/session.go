package models

import "time"

// Session is one issued refresh token, keyed by its jti. Refreshing is
// refused once the session is revoked or gone.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
