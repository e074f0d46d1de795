package branch

import (
	"testing"

	"salao-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	branches      []models.Branch
	users         map[uint]*models.User
	professionals []models.Professional
}

func (f *fakeStore) BranchByID(id uint) (*models.Branch, error) {
	for i := range f.branches {
		if f.branches[i].ID == id {
			return &f.branches[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) BranchesByOwner(ownerID uint) ([]models.Branch, error) {
	var out []models.Branch
	for _, b := range f.branches {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) AllBranches() ([]models.Branch, error) {
	return f.branches, nil
}

func (f *fakeStore) FirstBranch() (*models.Branch, error) {
	if len(f.branches) == 0 {
		return nil, nil
	}
	return &f.branches[0], nil
}

func (f *fakeStore) UserByID(id uint) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) ProfessionalForUser(user *models.User) (*models.Professional, error) {
	for i := range f.professionals {
		if f.professionals[i].UserID != nil && *f.professionals[i].UserID == user.ID {
			return &f.professionals[i], nil
		}
	}
	for i := range f.professionals {
		if user.Name != "" && f.professionals[i].Name == user.Name {
			return &f.professionals[i], nil
		}
	}
	return nil, nil
}

func uintPtr(v uint) *uint { return &v }

func newFakeStore() *fakeStore {
	return &fakeStore{
		branches: []models.Branch{
			{ID: 1, Name: "Matriz", OwnerID: 10},
			{ID: 2, Name: "Unidade Centro", OwnerID: 10},
			{ID: 3, Name: "Outro Dono", OwnerID: 20},
		},
		users: map[uint]*models.User{
			10: {ID: 10, Name: "Dona Ana", Role: models.RoleAdmin},
			20: {ID: 20, Name: "Seu Carlos", Role: models.RoleAdmin},
			30: {ID: 30, Name: "João Silva", Role: models.RoleProfessional},
			40: {ID: 40, Name: "Maria Santos", Role: models.RoleProfessional},
			50: {ID: 50, Name: "Root", Role: models.RoleSuperAdmin},
		},
		professionals: []models.Professional{
			{ID: 1, Name: "João Silva", BranchID: 2, UserID: uintPtr(30)},
			// Maria só tem o vínculo legado por nome
			{ID: 2, Name: "Maria Santos", BranchID: 3},
		},
	}
}

func TestResolveExplicitBranch(t *testing.T) {
	r := NewResolver(newFakeStore())

	id, err := r.Resolve(&Caller{UserID: 10, Role: models.RoleAdmin}, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)
}

func TestResolveExplicitBranchNotFound(t *testing.T) {
	r := NewResolver(newFakeStore())

	_, err := r.Resolve(&Caller{UserID: 10, Role: models.RoleAdmin}, 99)
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestResolveExplicitBranchDeniedForOtherOwner(t *testing.T) {
	r := NewResolver(newFakeStore())

	_, err := r.Resolve(&Caller{UserID: 10, Role: models.RoleAdmin}, 3)
	assert.ErrorIs(t, err, ErrBranchAccessDenied)
}

func TestResolveAdminDefaultsToFirstOwnedBranch(t *testing.T) {
	r := NewResolver(newFakeStore())

	id, err := r.Resolve(&Caller{UserID: 10, Role: models.RoleAdmin}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id, "admin sem filial explícita cai na primeira filial própria")
}

func TestResolveAdminWithoutBranches(t *testing.T) {
	store := newFakeStore()
	store.users[60] = &models.User{ID: 60, Role: models.RoleAdmin}
	r := NewResolver(store)

	_, err := r.Resolve(&Caller{UserID: 60, Role: models.RoleAdmin}, 0)
	assert.ErrorIs(t, err, ErrNoBranchConfigured)
}

func TestResolveProfessionalByUserLink(t *testing.T) {
	r := NewResolver(newFakeStore())

	id, err := r.Resolve(&Caller{UserID: 30, Role: models.RoleProfessional}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(2), id)
}

func TestResolveProfessionalByLegacyNameMatch(t *testing.T) {
	r := NewResolver(newFakeStore())

	id, err := r.Resolve(&Caller{UserID: 40, Role: models.RoleProfessional}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
}

func TestResolveProfessionalNotLinked(t *testing.T) {
	store := newFakeStore()
	store.users[70] = &models.User{ID: 70, Name: "Sem Registro", Role: models.RoleProfessional}
	r := NewResolver(store)

	_, err := r.Resolve(&Caller{UserID: 70, Role: models.RoleProfessional}, 0)
	assert.ErrorIs(t, err, ErrProfessionalNotLinked)
}

func TestResolveWithoutCallerUsesFirstBranch(t *testing.T) {
	r := NewResolver(newFakeStore())

	id, err := r.Resolve(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
}

func TestResolveWithoutCallerNoBranches(t *testing.T) {
	r := NewResolver(&fakeStore{users: map[uint]*models.User{}})

	_, err := r.Resolve(nil, 0)
	assert.ErrorIs(t, err, ErrNoBranchExists)
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver(newFakeStore())
	caller := &Caller{UserID: 10, Role: models.RoleAdmin}

	first, err := r.Resolve(caller, 0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := r.Resolve(caller, 0)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestScopeBranchIDs(t *testing.T) {
	r := NewResolver(newFakeStore())

	admin, err := r.ScopeBranchIDs(&Caller{UserID: 10, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, admin)

	super, err := r.ScopeBranchIDs(&Caller{UserID: 50, Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, super)

	prof, err := r.ScopeBranchIDs(&Caller{UserID: 30, Role: models.RoleProfessional})
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, prof)

	anon, err := r.ScopeBranchIDs(nil)
	require.NoError(t, err)
	assert.Nil(t, anon)
}
