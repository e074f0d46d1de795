package models

import "time"

type UserRole string

const (
	RoleSuperAdmin   UserRole = "SUPERADMIN"
	RoleAdmin        UserRole = "ADMIN"
	RoleProfessional UserRole = "PROFESSIONAL"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Name         string   `gorm:"size:100"`
	BusinessName string   `gorm:"size:150"`
	Phone        string   `gorm:"size:50"`
	Role         UserRole `gorm:"size:20;not null;default:'ADMIN'"`
	IsSuperAdmin bool     `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Filiais pertencentes ao usuário (apenas para ADMIN)
	Branches []Branch `gorm:"foreignKey:OwnerID"`
}
