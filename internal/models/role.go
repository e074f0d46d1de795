package models

import "time"

// CustomRole é um cargo configurável por filial que sobrepõe a taxa de
// comissão do profissional e carrega dados de salário.
type CustomRole struct {
	ID             uint    `gorm:"primaryKey"`
	BranchID       uint    `gorm:"index;not null"`
	Branch         Branch
	Title          string  `gorm:"size:100;not null"`
	CommissionRate float64 `gorm:"not null;default:0"`
	BaseSalary     *float64
	SalaryPayDay   *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
