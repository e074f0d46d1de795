package models

import "time"

type TransactionType string

const (
	TransactionIncome     TransactionType = "INCOME"
	TransactionExpense    TransactionType = "EXPENSE"
	TransactionInvestment TransactionType = "INVESTMENT"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentPix      PaymentMethod = "PIX"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentOther    PaymentMethod = "OTHER"
)

// ExpenseCategory é identificada por (filial, nome, tipo); o índice único
// impede duplicatas criadas em paralelo pela reconciliação.
type ExpenseCategory struct {
	ID          uint            `gorm:"primaryKey"`
	BranchID    uint            `gorm:"not null;uniqueIndex:idx_categories_identity"`
	Branch      Branch
	Name        string          `gorm:"size:100;not null;uniqueIndex:idx_categories_identity"`
	Type        TransactionType `gorm:"size:20;not null;uniqueIndex:idx_categories_identity"`
	Color       string          `gorm:"size:20"`
	Description string          `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FinancialTransaction é um lançamento do livro-caixa. Reference é a chave
// de correlação usada pela reconciliação (ex.: "Atendimento-42").
type FinancialTransaction struct {
	ID            uint            `gorm:"primaryKey"`
	Description   string          `gorm:"size:255;not null"`
	Amount        float64         `gorm:"not null"`
	Type          TransactionType `gorm:"size:20;not null"`
	CategoryID    uint            `gorm:"index;not null"`
	Category      ExpenseCategory
	PaymentMethod PaymentMethod `gorm:"size:20;not null;default:'CASH'"`
	Reference     string        `gorm:"size:100;index"`
	AppointmentID *uint         `gorm:"index"`
	BranchID      uint          `gorm:"index;not null"`
	Date          time.Time     `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecurringExpense é o modelo de uma conta periódica. ProfessionalID
// aponta para o profissional quando a despesa nasce do salário dele.
type RecurringExpense struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:150;not null"`
	Description    string `gorm:"size:255"`
	CategoryID     uint   `gorm:"index;not null"`
	Category       ExpenseCategory
	FixedAmount    *float64
	ReceiptDay     int  `gorm:"not null"` // 1–31
	DueDay         int  `gorm:"not null"` // 1–31, >= ReceiptDay
	IsActive       bool `gorm:"not null;default:true"`
	BranchID       uint `gorm:"index;not null"`
	ProfessionalID *uint `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
