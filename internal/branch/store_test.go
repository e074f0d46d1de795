package branch

import (
	"testing"

	"salao-backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db, PreferSimpleProtocol: true}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStore(gdb), mock
}

func TestGormStoreFirstBranchOrdersByID(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "owner_id"}).AddRow(1, "Matriz", 10)
	mock.ExpectQuery(`SELECT \* FROM "branches" ORDER BY id asc,.*LIMIT`).WillReturnRows(rows)

	b, err := store.FirstBranch()
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, uint(1), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFirstBranchEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "branches"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	b, err := store.FirstBranch()
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestGormStoreProfessionalForUserFallsBackToName(t *testing.T) {
	store, mock := newMockStore(t)

	// sem vínculo por user_id
	mock.ExpectQuery(`SELECT \* FROM "professionals" WHERE user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// casamento legado por nome
	mock.ExpectQuery(`SELECT \* FROM "professionals" WHERE name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "branch_id"}).AddRow(7, "Maria Santos", 3))

	p, err := store.ProfessionalForUser(&models.User{ID: 40, Name: "Maria Santos"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint(3), p.BranchID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreProfessionalForUserNoNameNoLink(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "professionals" WHERE user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := store.ProfessionalForUser(&models.User{ID: 41})
	require.NoError(t, err)
	assert.Nil(t, p)
}
