package models

// Category represents a user-defined income/expense label.
type Category struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:50;not null"`
	Type   string `gorm:"size:7;not null"` // income / expense
	UserID uint   `gorm:"index;not null"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
