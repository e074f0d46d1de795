package professional

import (
	"testing"
	"time"

	"salao-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommissionStore struct {
	professionals map[uint]*models.Professional
	appointments  []models.Appointment
}

func (f *fakeCommissionStore) ProfessionalByID(id uint) (*models.Professional, error) {
	return f.professionals[id], nil
}

func (f *fakeCommissionStore) CompletedAppointments(professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appt := range f.appointments {
		if appt.ProfessionalID == nil || *appt.ProfessionalID != professionalID {
			continue
		}
		if appt.Status != models.AppointmentCompleted {
			continue
		}
		if appt.ScheduledAt.Before(from) || appt.ScheduledAt.After(to) {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func ptrUint(v uint) *uint { return &v }

func newTestCalculator(store *fakeCommissionStore) *Calculator {
	calc := NewCalculator(store)
	calc.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return calc
}

func TestReportAgrupaPorDia(t *testing.T) {
	store := &fakeCommissionStore{
		professionals: map[uint]*models.Professional{
			1: {ID: 1, Name: "Carlos", CommissionRate: 40},
		},
		appointments: []models.Appointment{
			{ID: 1, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), Total: 100},
			{ID: 2, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), Total: 50},
			{ID: 3, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC), Total: 80},
		},
	}

	report, err := newTestCalculator(store).Report(1, "2025-03-01", "2025-03-31")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.TotalAppointments)
	assert.InDelta(t, 230.0, report.Summary.TotalRevenue, 0.001)
	assert.InDelta(t, 92.0, report.Summary.TotalCommission, 0.001)

	require.Len(t, report.DailyCommissions, 2)
	assert.Equal(t, "2025-03-10", report.DailyCommissions[0].Date)
	assert.Equal(t, 2, report.DailyCommissions[0].Appointments)
	assert.InDelta(t, 150.0, report.DailyCommissions[0].Revenue, 0.001)
	assert.InDelta(t, 60.0, report.DailyCommissions[0].Commission, 0.001)
	assert.Equal(t, "2025-03-12", report.DailyCommissions[1].Date)
}

func TestReportUsaTaxaDoCargoCustomizado(t *testing.T) {
	store := &fakeCommissionStore{
		professionals: map[uint]*models.Professional{
			1: {ID: 1, Name: "Ana", CommissionRate: 40,
				CustomRole: &models.CustomRole{ID: 3, Title: "Sênior", CommissionRate: 50}},
		},
		appointments: []models.Appointment{
			{ID: 1, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), Total: 200},
		},
	}

	report, err := newTestCalculator(store).Report(1, "2025-03-01", "2025-03-31")
	require.NoError(t, err)

	assert.InDelta(t, 50.0, report.Professional.CommissionRate, 0.001)
	assert.InDelta(t, 100.0, report.Summary.TotalCommission, 0.001)
}

func TestReportCargoComTaxaZeroNaoSobrepoe(t *testing.T) {
	store := &fakeCommissionStore{
		professionals: map[uint]*models.Professional{
			1: {ID: 1, Name: "Ana", CommissionRate: 40,
				CustomRole: &models.CustomRole{ID: 3, Title: "Auxiliar", CommissionRate: 0}},
		},
	}

	report, err := newTestCalculator(store).Report(1, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.InDelta(t, 40.0, report.Professional.CommissionRate, 0.001)
}

func TestReportPeriodoPadraoMesCorrente(t *testing.T) {
	store := &fakeCommissionStore{
		professionals: map[uint]*models.Professional{
			1: {ID: 1, Name: "Carlos", CommissionRate: 40},
		},
		appointments: []models.Appointment{
			{ID: 1, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC), Total: 100},
			{ID: 2, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), Total: 100},
		},
	}

	report, err := newTestCalculator(store).Report(1, "", "")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", report.Period.StartDate)
	assert.Equal(t, "2025-03-31", report.Period.EndDate)
	assert.Equal(t, 1, report.Summary.TotalAppointments)
}

func TestReportLimitesInclusivos(t *testing.T) {
	store := &fakeCommissionStore{
		professionals: map[uint]*models.Professional{
			1: {ID: 1, Name: "Carlos", CommissionRate: 40},
		},
		appointments: []models.Appointment{
			{ID: 1, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Total: 100},
			{ID: 2, ProfessionalID: ptrUint(1), Status: models.AppointmentCompleted,
				ScheduledAt: time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC), Total: 100},
		},
	}

	report, err := newTestCalculator(store).Report(1, "2025-03-10", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Summary.TotalAppointments)
}

func TestReportIgnoraNaoConcluidos(t *testing.T) {
	store := &fakeCommissionStore{
		professionals: map[uint]*models.Professional{
			1: {ID: 1, Name: "Carlos", CommissionRate: 40},
		},
		appointments: []models.Appointment{
			{ID: 1, ProfessionalID: ptrUint(1), Status: models.AppointmentScheduled,
				ScheduledAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), Total: 100},
		},
	}

	report, err := newTestCalculator(store).Report(1, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.TotalAppointments)
	assert.Empty(t, report.DailyCommissions)
}

func TestReportProfissionalInexistente(t *testing.T) {
	store := &fakeCommissionStore{professionals: map[uint]*models.Professional{}}

	_, err := newTestCalculator(store).Report(99, "", "")
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestReportDataInvalida(t *testing.T) {
	store := &fakeCommissionStore{
		professionals: map[uint]*models.Professional{
			1: {ID: 1, Name: "Carlos", CommissionRate: 40},
		},
	}

	_, err := newTestCalculator(store).Report(1, "10/03/2025", "2025-03-31")
	assert.Error(t, err)
}
