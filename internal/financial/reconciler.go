package financial

import (
	"fmt"

	"salao-backend/internal/models"
)

const (
	servicesCategoryName    = "Serviços"
	servicesCategoryColor   = "#10B981"
	commissionCategoryName  = "Comissões"
	commissionCategoryColor = "#8B5CF6"
)

// AppointmentReference é a chave de correlação entre um atendimento e os
// seus lançamentos no livro-caixa.
func AppointmentReference(appointmentID uint) string {
	return fmt.Sprintf("Atendimento-%d", appointmentID)
}

// Store é a superfície de persistência da reconciliação. InTransaction
// executa fn dentro de uma unidade de trabalho tudo-ou-nada.
type Store interface {
	TransactionByReference(ref string) (*models.FinancialTransaction, error)
	CategoryByIdentity(branchID uint, name string, t models.TransactionType) (*models.ExpenseCategory, error)
	CreateCategory(cat *models.ExpenseCategory) error
	CreateTransaction(tx *models.FinancialTransaction) error
	InTransaction(fn func(Store) error) error
}

// Reconciler deriva, de forma idempotente, os lançamentos financeiros de
// um atendimento concluído: uma receita e, se a comissão for positiva,
// uma despesa de comissão, ambas na mesma transação de banco.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile devolve true quando criou lançamentos e false quando o
// atendimento já estava reconciliado. O atendimento deve vir com
// Professional (e CustomRole) e Client carregados.
func (r *Reconciler) Reconcile(appt *models.Appointment) (bool, error) {
	ref := AppointmentReference(appt.ID)

	existing, err := r.store.TransactionByReference(ref)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	err = r.store.InTransaction(func(tx Store) error {
		incomeCat, err := ensureCategory(tx, appt.BranchID, servicesCategoryName, models.TransactionIncome, servicesCategoryColor)
		if err != nil {
			return err
		}

		professionalName := "Profissional"
		var rate float64
		if appt.Professional != nil {
			professionalName = appt.Professional.Name
			rate = appt.Professional.EffectiveCommissionRate()
		}

		apptID := appt.ID
		income := &models.FinancialTransaction{
			Description:   fmt.Sprintf("Atendimento: %s - %s", professionalName, appt.Client.Name),
			Amount:        appt.Total,
			Type:          models.TransactionIncome,
			CategoryID:    incomeCat.ID,
			PaymentMethod: models.PaymentCash,
			Reference:     ref,
			AppointmentID: &apptID,
			Date:          appt.ScheduledAt,
			BranchID:      appt.BranchID,
		}
		if err := tx.CreateTransaction(income); err != nil {
			return err
		}

		commission := appt.Total * rate / 100
		if commission <= 0 {
			return nil
		}

		expenseCat, err := ensureCategory(tx, appt.BranchID, commissionCategoryName, models.TransactionExpense, commissionCategoryColor)
		if err != nil {
			return err
		}

		expense := &models.FinancialTransaction{
			Description:   fmt.Sprintf("Comissão: %s - %s", professionalName, appt.Client.Name),
			Amount:        commission,
			Type:          models.TransactionExpense,
			CategoryID:    expenseCat.ID,
			PaymentMethod: models.PaymentOther,
			Reference:     ref,
			AppointmentID: &apptID,
			Date:          appt.ScheduledAt,
			BranchID:      appt.BranchID,
		}
		return tx.CreateTransaction(expense)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ensureCategory busca a categoria pela identidade (filial, nome, tipo) e
// cria quando ausente.
func ensureCategory(store Store, branchID uint, name string, t models.TransactionType, color string) (*models.ExpenseCategory, error) {
	cat, err := store.CategoryByIdentity(branchID, name, t)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		return cat, nil
	}

	cat = &models.ExpenseCategory{
		BranchID: branchID,
		Name:     name,
		Type:     t,
		Color:    color,
	}
	if err := store.CreateCategory(cat); err != nil {
		return nil, err
	}
	return cat, nil
}
