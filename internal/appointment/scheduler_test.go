package appointment

import (
	"testing"
	"time"

	"salao-backend/internal/branch"
	"salao-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	branchID uint
	scope    []uint
	err      error
}

func (f *fakeResolver) Resolve(caller *branch.Caller, explicitID uint) (uint, error) {
	if f.err != nil {
		return 0, f.err
	}
	if explicitID != 0 {
		return explicitID, nil
	}
	return f.branchID, nil
}

func (f *fakeResolver) ScopeBranchIDs(caller *branch.Caller) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scope, nil
}

type fakeStore struct {
	appointments  []models.Appointment
	services      map[uint]models.Service
	professionals map[uint]models.Professional
	nextID        uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		services: map[uint]models.Service{
			1: {ID: 1, Name: "Corte Masculino", Price: 10},
			2: {ID: 2, Name: "Barba", Price: 15},
		},
		professionals: map[uint]models.Professional{
			1: {ID: 1, Name: "João Silva", BranchID: 1, CommissionRate: 20},
		},
		nextID: 1,
	}
}

func (f *fakeStore) AppointmentAt(professionalID uint, at time.Time) (*models.Appointment, error) {
	for i := range f.appointments {
		a := &f.appointments[i]
		if a.ProfessionalID != nil && *a.ProfessionalID == professionalID && a.ScheduledAt.Equal(at) {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ServicesByIDs(ids []uint) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if svc, ok := f.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeStore) ProfessionalByID(id uint) (*models.Professional, error) {
	if p, ok := f.professionals[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeStore) Create(appt *models.Appointment) error {
	appt.ID = f.nextID
	f.nextID++
	f.appointments = append(f.appointments, *appt)
	return nil
}

func (f *fakeStore) ByID(id uint) (*models.Appointment, error) {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			return &f.appointments[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ByBranches(branchIDs []uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		for _, id := range branchIDs {
			if a.BranchID == id {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) All() ([]models.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeStore) InWindow(professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.ProfessionalID == nil || *a.ProfessionalID != professionalID {
			continue
		}
		if !a.ScheduledAt.Before(from) && !a.ScheduledAt.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ByDateWindow(from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if !a.ScheduledAt.Before(from) && !a.ScheduledAt.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) SetStatus(id uint, status models.AppointmentStatus) error {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments[i].Status = status
		}
	}
	return nil
}

func (f *fakeStore) Delete(id uint) error {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestScheduler() (*Scheduler, *fakeStore) {
	store := newFakeStore()
	return NewScheduler(store, &fakeResolver{branchID: 1, scope: []uint{1}}), store
}

func TestCreateSnapshotsTotal(t *testing.T) {
	s, store := newTestScheduler()

	appt, err := s.Create(CreateInput{
		ProfessionalID: 1,
		ClientID:       1,
		ServiceIDs:     []uint{1, 2},
		ScheduledAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, appt.Total)
	assert.Equal(t, models.AppointmentScheduled, appt.Status)
	assert.Equal(t, uint(1), appt.BranchID)

	// alterar o preço depois não muda o snapshot
	svc := store.services[1]
	svc.Price = 99
	store.services[1] = svc

	got, err := s.FindOne(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Total)
}

func TestCreateSlotConflict(t *testing.T) {
	s, _ := newTestScheduler()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	first, err := s.Create(CreateInput{ProfessionalID: 1, ClientID: 1, ServiceIDs: []uint{1}, ScheduledAt: at})
	require.NoError(t, err)

	_, err = s.Create(CreateInput{ProfessionalID: 1, ClientID: 2, ServiceIDs: []uint{1}, ScheduledAt: at})
	assert.ErrorIs(t, err, ErrSlotConflict)

	// o primeiro permanece intacto
	got, err := s.FindOne(first.ID)
	require.NoError(t, err)
	assert.Equal(t, at, got.ScheduledAt)
}

func TestCreateUnknownService(t *testing.T) {
	s, _ := newTestScheduler()

	_, err := s.Create(CreateInput{
		ProfessionalID: 1,
		ClientID:       1,
		ServiceIDs:     []uint{1, 99},
		ScheduledAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreateUnknownProfessional(t *testing.T) {
	s, _ := newTestScheduler()

	_, err := s.Create(CreateInput{
		ProfessionalID: 42,
		ClientID:       1,
		ServiceIDs:     []uint{1},
		ScheduledAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestCreateWalkInCompleted(t *testing.T) {
	s, _ := newTestScheduler()

	appt, err := s.Create(CreateInput{
		ProfessionalID: 1,
		ClientID:       1,
		ServiceIDs:     []uint{1},
		ScheduledAt:    time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		Status:         models.AppointmentCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, appt.Status)
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	s, _ := newTestScheduler()

	_, err := s.Create(CreateInput{
		ProfessionalID: 1,
		ClientID:       1,
		ServiceIDs:     []uint{1},
		ScheduledAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = s.Create(CreateInput{
		ProfessionalID: 1,
		ClientID:       2,
		ServiceIDs:     []uint{1},
		ScheduledAt:    time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	slots, err := s.AvailableSlots(1, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00", "14:00", "16:00", "17:00"}, slots)

	// outro dia continua com a grade cheia
	full, err := s.AvailableSlots(1, "2025-03-11")
	require.NoError(t, err)
	assert.Equal(t, WorkingHours, full)
}

func TestAvailableSlotsBadDate(t *testing.T) {
	s, _ := newTestScheduler()
	_, err := s.AvailableSlots(1, "10/03/2025")
	assert.Error(t, err)
}

func TestConfirmTransitionsToCompleted(t *testing.T) {
	s, _ := newTestScheduler()

	appt, err := s.Create(CreateInput{
		ProfessionalID: 1,
		ClientID:       1,
		ServiceIDs:     []uint{1},
		ScheduledAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	confirmed, err := s.Confirm(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, confirmed.Status)
}

func TestConfirmMissing(t *testing.T) {
	s, _ := newTestScheduler()
	_, err := s.Confirm(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelDeletes(t *testing.T) {
	s, store := newTestScheduler()

	appt, err := s.Create(CreateInput{
		ProfessionalID: 1,
		ClientID:       1,
		ServiceIDs:     []uint{1},
		ScheduledAt:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, s.Cancel(appt.ID))
	assert.Empty(t, store.appointments)

	assert.ErrorIs(t, s.Cancel(appt.ID), ErrNotFound)
}

func TestFindAllScopes(t *testing.T) {
	store := newFakeStore()
	resolver := &fakeResolver{branchID: 1, scope: []uint{1, 2}}
	s := NewScheduler(store, resolver)

	one := uint(1)
	store.appointments = []models.Appointment{
		{ID: 1, BranchID: 1, ProfessionalID: &one, ScheduledAt: time.Now()},
		{ID: 2, BranchID: 2, ProfessionalID: &one, ScheduledAt: time.Now()},
		{ID: 3, BranchID: 3, ProfessionalID: &one, ScheduledAt: time.Now()},
	}

	// admin com duas filiais enxerga as duas
	caller := &branch.Caller{UserID: 10, Role: models.RoleAdmin}
	got, err := s.FindAll(caller, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// filial explícita restringe
	got, err = s.FindAll(caller, 3)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// sem contexto: lista global (ferramenta de manutenção)
	got, err = s.FindAll(nil, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestFindAllUnlinkedProfessionalGetsEmptyList(t *testing.T) {
	store := newFakeStore()
	s := NewScheduler(store, &fakeResolver{err: branch.ErrProfessionalNotLinked})

	got, err := s.FindAll(&branch.Caller{UserID: 70, Role: models.RoleProfessional}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
