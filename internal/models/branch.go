package models

import "time"

type Branch struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:50"`
	OwnerID   uint   `gorm:"index;not null"`
	Owner     *User
	CreatedAt time.Time
	UpdatedAt time.Time
}
