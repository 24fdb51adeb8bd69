package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget is a spending cap for one user and one month.
// Month is stored as a full date; (UserID, Month) is unique.
type MonthlyBudget struct {
	ID     uint            `gorm:"primaryKey"`
	UserID uint            `gorm:"uniqueIndex:idx_budget_user_month;not null"`
	Month  time.Time       `gorm:"type:date;uniqueIndex:idx_budget_user_month;not null"`
	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
