package professional

import (
	"errors"
	"sort"
	"time"

	"salao-backend/internal/models"
)

var ErrProfessionalNotFound = errors.New("profissional não encontrado")

// CommissionStore é a visão de dados do cálculo de comissão.
type CommissionStore interface {
	ProfessionalByID(id uint) (*models.Professional, error)
	CompletedAppointments(professionalID uint, from, to time.Time) ([]models.Appointment, error)
}

type CommissionProfessional struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	CommissionRate float64 `json:"commissionRate"`
}

type CommissionPeriod struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type CommissionSummary struct {
	TotalAppointments int     `json:"totalAppointments"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalCommission   float64 `json:"totalCommission"`
}

type DailyCommission struct {
	Date         string  `json:"date"`
	Appointments int     `json:"appointments"`
	Revenue      float64 `json:"revenue"`
	Commission   float64 `json:"commission"`
}

// CommissionReport é o fechamento de comissão de um profissional num
// período, com o detalhamento dia a dia.
type CommissionReport struct {
	Professional     CommissionProfessional `json:"professional"`
	Period           CommissionPeriod       `json:"period"`
	Summary          CommissionSummary      `json:"summary"`
	DailyCommissions []DailyCommission      `json:"dailyCommissions"`
}

// Calculator fecha comissões sobre atendimentos concluídos. O campo now
// existe para os testes fixarem o mês corrente.
type Calculator struct {
	store CommissionStore
	now   func() time.Time
}

func NewCalculator(store CommissionStore) *Calculator {
	return &Calculator{store: store, now: time.Now}
}

// Report calcula a comissão do período. Datas vazias caem no mês
// corrente; os limites são inclusivos, em dias UTC inteiros.
func (c *Calculator) Report(professionalID uint, startDate, endDate string) (*CommissionReport, error) {
	prof, err := c.store.ProfessionalByID(professionalID)
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return nil, ErrProfessionalNotFound
	}

	from, to, err := c.periodBounds(startDate, endDate)
	if err != nil {
		return nil, err
	}

	appointments, err := c.store.CompletedAppointments(professionalID, from, to)
	if err != nil {
		return nil, err
	}

	rate := prof.EffectiveCommissionRate()

	report := &CommissionReport{
		Professional: CommissionProfessional{
			ID:             prof.ID,
			Name:           prof.Name,
			CommissionRate: rate,
		},
		Period: CommissionPeriod{
			StartDate: from.Format("2006-01-02"),
			EndDate:   to.Format("2006-01-02"),
		},
		DailyCommissions: []DailyCommission{},
	}

	byDay := map[string]*DailyCommission{}
	for _, appt := range appointments {
		commission := appt.Total * rate / 100
		report.Summary.TotalAppointments++
		report.Summary.TotalRevenue += appt.Total
		report.Summary.TotalCommission += commission

		day := appt.ScheduledAt.UTC().Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &DailyCommission{Date: day}
			byDay[day] = entry
		}
		entry.Appointments++
		entry.Revenue += appt.Total
		entry.Commission += commission
	}

	for _, entry := range byDay {
		report.DailyCommissions = append(report.DailyCommissions, *entry)
	}
	sort.Slice(report.DailyCommissions, func(i, j int) bool {
		return report.DailyCommissions[i].Date < report.DailyCommissions[j].Date
	})

	return report, nil
}

// periodBounds converte o intervalo de datas em instantes UTC
// inclusivos: início às 00:00:00 e fim às 23:59:59.
func (c *Calculator) periodBounds(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		now := c.now().UTC()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0).Add(-time.Second)
		return from, to, nil
	}

	from, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to = to.Add(24*time.Hour - time.Second)
	return from, to, nil
}
