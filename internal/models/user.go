package models

import "time"

// User is the account that owns categories, transactions and budgets.
// Password holds an encoded hash ("<algorithm>$...") and is never serialized.
type User struct {
	ID         uint       `gorm:"primaryKey"`
	Username   string     `gorm:"size:150;uniqueIndex;not null"`
	Password   string     `gorm:"size:128;not null"`
	DateJoined time.Time  `gorm:"autoCreateTime"`
	LastLogin  *time.Time
}
