package professional

import (
	"fmt"

	"salao-backend/internal/models"

	"gorm.io/gorm"
)

const (
	salaryCategoryName  = "Salários"
	salaryCategoryColor = "#EC4899"
)

// SyncSalaryExpense mantém a despesa fixa de salário do profissional em
// sincronia com o cadastro: cria ou atualiza quando há salário vigente e
// desativa quando o salário é removido.
func SyncSalaryExpense(db *gorm.DB, prof *models.Professional) error {
	salary, payDay := prof.EffectiveSalary()

	var existing models.RecurringExpense
	err := db.Where("professional_id = ?", prof.ID).First(&existing).Error
	found := err == nil
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if salary == nil || *salary <= 0 || payDay == nil {
		if found && existing.IsActive {
			existing.IsActive = false
			return db.Save(&existing).Error
		}
		return nil
	}

	category, err := ensureSalaryCategory(db, prof.BranchID)
	if err != nil {
		return err
	}

	receiptDay := *payDay - 2
	if receiptDay < 1 {
		receiptDay = 1
	}

	if found {
		existing.Name = fmt.Sprintf("Salário: %s", prof.Name)
		existing.CategoryID = category.ID
		existing.FixedAmount = salary
		existing.ReceiptDay = receiptDay
		existing.DueDay = *payDay
		existing.IsActive = true
		existing.BranchID = prof.BranchID
		return db.Save(&existing).Error
	}

	profID := prof.ID
	expense := models.RecurringExpense{
		Name:           fmt.Sprintf("Salário: %s", prof.Name),
		Description:    fmt.Sprintf("Salário mensal de %s", prof.Name),
		CategoryID:     category.ID,
		FixedAmount:    salary,
		ReceiptDay:     receiptDay,
		DueDay:         *payDay,
		IsActive:       true,
		BranchID:       prof.BranchID,
		ProfessionalID: &profID,
	}
	return db.Create(&expense).Error
}

// SyncAllSalaryExpenses refaz a sincronização para todos os
// profissionais das filiais informadas e devolve quantas despesas
// foram criadas ou atualizadas.
func SyncAllSalaryExpenses(db *gorm.DB, branchIDs []uint) (int, error) {
	var professionals []models.Professional
	if err := db.Preload("CustomRole").
		Where("branch_id IN ?", branchIDs).
		Find(&professionals).Error; err != nil {
		return 0, err
	}

	synced := 0
	for i := range professionals {
		prof := &professionals[i]
		salary, payDay := prof.EffectiveSalary()
		if err := SyncSalaryExpense(db, prof); err != nil {
			return synced, err
		}
		if salary != nil && *salary > 0 && payDay != nil {
			synced++
		}
	}
	return synced, nil
}

func ensureSalaryCategory(db *gorm.DB, branchID uint) (*models.ExpenseCategory, error) {
	var category models.ExpenseCategory
	err := db.Where("branch_id = ? AND name = ? AND type = ?",
		branchID, salaryCategoryName, models.TransactionExpense).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	category = models.ExpenseCategory{
		BranchID:    branchID,
		Name:        salaryCategoryName,
		Type:        models.TransactionExpense,
		Color:       salaryCategoryColor,
		Description: "Salários de funcionários",
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
