package models

import "time"

type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:50"`
	Email     string `gorm:"size:100"`
	BranchID  uint   `gorm:"index;not null"`
	Branch    Branch
	CreatedAt time.Time
	UpdatedAt time.Time
}
