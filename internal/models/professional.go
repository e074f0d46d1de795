package models

import "time"

// Professional é o funcionário que executa serviços e recebe comissão.
// UserID é o vínculo explícito com a conta de login; registros antigos
// ainda podem estar vinculados apenas pelo nome.
type Professional struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"size:100;not null"`
	Role           string  `gorm:"size:100"` // cargo exibido (ex.: "Barbeiro")
	CommissionRate float64 `gorm:"not null;default:0"` // percentual 0–100
	BaseSalary     *float64
	SalaryPayDay   *int
	BranchID       uint `gorm:"index;not null"`
	Branch         Branch
	UserID         *uint `gorm:"index"`
	RoleID         *uint `gorm:"index"`
	CustomRole     *CustomRole `gorm:"foreignKey:RoleID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveCommissionRate aplica a precedência do cargo customizado
// sobre a taxa base do profissional.
func (p *Professional) EffectiveCommissionRate() float64 {
	if p.CustomRole != nil && p.CustomRole.CommissionRate > 0 {
		return p.CustomRole.CommissionRate
	}
	return p.CommissionRate
}

// EffectiveSalary retorna salário base e dia de pagamento vigentes,
// com o cargo customizado tendo precedência.
func (p *Professional) EffectiveSalary() (*float64, *int) {
	salary := p.BaseSalary
	payDay := p.SalaryPayDay
	if p.CustomRole != nil {
		if p.CustomRole.BaseSalary != nil {
			salary = p.CustomRole.BaseSalary
		}
		if p.CustomRole.SalaryPayDay != nil {
			payDay = p.CustomRole.SalaryPayDay
		}
	}
	return salary, payDay
}
