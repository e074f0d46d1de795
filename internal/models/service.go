package models

import "time"

// Service é um item do catálogo. BranchID nulo significa serviço global,
// compartilhado por todas as filiais do dono.
type Service struct {
	ID              uint    `gorm:"primaryKey"`
	Name            string  `gorm:"size:100;not null"`
	Price           float64 `gorm:"not null;default:0"`
	DurationMinutes int     `gorm:"not null;default:30"`
	BranchID        *uint   `gorm:"index"`
	OwnerID         uint    `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
