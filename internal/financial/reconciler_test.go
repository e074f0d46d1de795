package financial

import (
	"errors"
	"testing"
	"time"

	"salao-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore simula a unidade de trabalho: os writes ficam pendentes até o
// fechamento da transação e são descartados quando fn devolve erro.
type fakeStore struct {
	categories   []models.ExpenseCategory
	transactions []models.FinancialTransaction
	nextCatID    uint
	nextTxID     uint
	failOnTxN    int // falha no n-ésimo CreateTransaction (0 = nunca)
	txCount      int
}

func newReconcilerStore() *fakeStore {
	return &fakeStore{nextCatID: 1, nextTxID: 1}
}

func (f *fakeStore) TransactionByReference(ref string) (*models.FinancialTransaction, error) {
	for i := range f.transactions {
		if f.transactions[i].Reference == ref {
			return &f.transactions[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CategoryByIdentity(branchID uint, name string, t models.TransactionType) (*models.ExpenseCategory, error) {
	for i := range f.categories {
		c := &f.categories[i]
		if c.BranchID == branchID && c.Name == name && c.Type == t {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateCategory(cat *models.ExpenseCategory) error {
	cat.ID = f.nextCatID
	f.nextCatID++
	f.categories = append(f.categories, *cat)
	return nil
}

func (f *fakeStore) CreateTransaction(tx *models.FinancialTransaction) error {
	f.txCount++
	if f.failOnTxN != 0 && f.txCount == f.failOnTxN {
		return errors.New("falha simulada de escrita")
	}
	tx.ID = f.nextTxID
	f.nextTxID++
	f.transactions = append(f.transactions, *tx)
	return nil
}

func (f *fakeStore) InTransaction(fn func(Store) error) error {
	snapshot := *f
	snapCats := append([]models.ExpenseCategory(nil), f.categories...)
	snapTxs := append([]models.FinancialTransaction(nil), f.transactions...)
	if err := fn(f); err != nil {
		// rollback
		*f = snapshot
		f.categories = snapCats
		f.transactions = snapTxs
		return err
	}
	return nil
}

func completedAppointment() *models.Appointment {
	profID := uint(1)
	return &models.Appointment{
		ID:             42,
		ProfessionalID: &profID,
		Professional:   &models.Professional{ID: 1, Name: "João Silva", CommissionRate: 20},
		Client:         models.Client{ID: 7, Name: "Cliente Teste"},
		BranchID:       1,
		ScheduledAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Status:         models.AppointmentCompleted,
		Total:          100,
	}
}

func TestReconcileCreatesIncomeAndCommission(t *testing.T) {
	store := newReconcilerStore()
	r := NewReconciler(store)

	created, err := r.Reconcile(completedAppointment())
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, store.transactions, 2)

	income := store.transactions[0]
	assert.Equal(t, models.TransactionIncome, income.Type)
	assert.Equal(t, 100.0, income.Amount)
	assert.Equal(t, "Atendimento-42", income.Reference)
	assert.Equal(t, "Atendimento: João Silva - Cliente Teste", income.Description)

	expense := store.transactions[1]
	assert.Equal(t, models.TransactionExpense, expense.Type)
	assert.Equal(t, 20.0, expense.Amount)
	assert.Equal(t, "Atendimento-42", expense.Reference)

	// categorias criadas com a identidade (filial, nome, tipo)
	require.Len(t, store.categories, 2)
	assert.Equal(t, "Serviços", store.categories[0].Name)
	assert.Equal(t, "Comissões", store.categories[1].Name)
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := newReconcilerStore()
	r := NewReconciler(store)
	appt := completedAppointment()

	created, err := r.Reconcile(appt)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = r.Reconcile(appt)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, store.transactions, 2)
}

func TestReconcileZeroCommissionSkipsExpense(t *testing.T) {
	store := newReconcilerStore()
	r := NewReconciler(store)

	appt := completedAppointment()
	appt.Professional.CommissionRate = 0

	created, err := r.Reconcile(appt)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, store.transactions, 1)
	assert.Equal(t, models.TransactionIncome, store.transactions[0].Type)
}

func TestReconcileCustomRoleOverridesRate(t *testing.T) {
	store := newReconcilerStore()
	r := NewReconciler(store)

	appt := completedAppointment()
	appt.Professional.CustomRole = &models.CustomRole{CommissionRate: 50}

	_, err := r.Reconcile(appt)
	require.NoError(t, err)
	require.Len(t, store.transactions, 2)
	assert.Equal(t, 50.0, store.transactions[1].Amount)
}

func TestReconcileRollsBackOnPartialFailure(t *testing.T) {
	store := newReconcilerStore()
	store.failOnTxN = 2 // receita passa, comissão falha
	r := NewReconciler(store)

	_, err := r.Reconcile(completedAppointment())
	require.Error(t, err)

	// nada pode sobrar: nem a receita nem as categorias
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.categories)
}

func TestReconcileReusesExistingCategories(t *testing.T) {
	store := newReconcilerStore()
	store.categories = []models.ExpenseCategory{
		{ID: 9, BranchID: 1, Name: "Serviços", Type: models.TransactionIncome},
	}
	store.nextCatID = 10
	r := NewReconciler(store)

	_, err := r.Reconcile(completedAppointment())
	require.NoError(t, err)
	assert.Equal(t, uint(9), store.transactions[0].CategoryID)
}
