package financial

import (
	"errors"

	"salao-backend/internal/models"

	"gorm.io/gorm"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) TransactionByReference(ref string) (*models.FinancialTransaction, error) {
	var tx models.FinancialTransaction
	err := s.DB.First(&tx, "reference = ?", ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (s *GormStore) CategoryByIdentity(branchID uint, name string, t models.TransactionType) (*models.ExpenseCategory, error) {
	var cat models.ExpenseCategory
	err := s.DB.First(&cat, "branch_id = ? AND name = ? AND type = ?", branchID, name, t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *GormStore) CreateCategory(cat *models.ExpenseCategory) error {
	return s.DB.Create(cat).Error
}

func (s *GormStore) CreateTransaction(tx *models.FinancialTransaction) error {
	return s.DB.Create(tx).Error
}

func (s *GormStore) InTransaction(fn func(Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}
