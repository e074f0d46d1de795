package models

import "time"

type Product struct {
	ID           uint    `gorm:"primaryKey"`
	BranchID     uint    `gorm:"index;not null"`
	Branch       Branch
	Name         string  `gorm:"size:100;not null"`
	Category     string  `gorm:"size:100"`
	Brand        string  `gorm:"size:100"`
	Unit         string  `gorm:"size:20;not null;default:'un'"`
	CostPrice    float64 `gorm:"not null;default:0"`
	SalePrice    float64 `gorm:"not null;default:0"`
	CurrentStock int     `gorm:"not null;default:0"`
	MinStock     int     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type StockMovementType string

const (
	StockIn         StockMovementType = "IN"
	StockOut        StockMovementType = "OUT"
	StockAdjustment StockMovementType = "ADJUSTMENT"
)

type StockMovement struct {
	ID        uint              `gorm:"primaryKey"`
	ProductID uint              `gorm:"index;not null"`
	Product   Product
	Type      StockMovementType `gorm:"size:20;not null"`
	Quantity  int               `gorm:"not null"`
	Reason    string            `gorm:"size:255"`
	IsSale    bool              `gorm:"not null;default:false"`
	CreatedAt time.Time
}
