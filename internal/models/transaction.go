package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single dated income or expense movement.
// Deleting its category leaves the transaction in place with CategoryID set to NULL.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	CategoryID  *uint           `gorm:"index"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Date        time.Time       `gorm:"type:date;not null"`
	Description string          `gorm:"type:text;not null;default:''"`
	Type        string          `gorm:"size:7;not null"` // income / expense

	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL"`
}
