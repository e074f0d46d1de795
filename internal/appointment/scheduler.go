package appointment

import (
	"errors"
	"time"

	"salao-backend/internal/branch"
	"salao-backend/internal/models"
)

var (
	ErrSlotConflict         = errors.New("já existe um agendamento neste horário")
	ErrServiceNotFound      = errors.New("algum dos serviços não foi encontrado")
	ErrProfessionalNotFound = errors.New("profissional não encontrado")
	ErrNotFound             = errors.New("agendamento não encontrado")
	ErrInvalidStatus        = errors.New("status de agendamento inválido")
)

// WorkingHours é a grade fixa de horários agendáveis por profissional.
var WorkingHours = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// BranchResolver é a fatia do resolvedor de filial usada pelo agendador.
type BranchResolver interface {
	Resolve(caller *branch.Caller, explicitID uint) (uint, error)
	ScopeBranchIDs(caller *branch.Caller) ([]uint, error)
}

// Store é a superfície de persistência do agendador.
type Store interface {
	AppointmentAt(professionalID uint, at time.Time) (*models.Appointment, error)
	ServicesByIDs(ids []uint) ([]models.Service, error)
	ProfessionalByID(id uint) (*models.Professional, error)
	Create(appt *models.Appointment) error
	ByID(id uint) (*models.Appointment, error)
	ByBranches(branchIDs []uint) ([]models.Appointment, error)
	All() ([]models.Appointment, error)
	InWindow(professionalID uint, from, to time.Time) ([]models.Appointment, error)
	ByDateWindow(from, to time.Time) ([]models.Appointment, error)
	SetStatus(id uint, status models.AppointmentStatus) error
	Delete(id uint) error
}

type CreateInput struct {
	ProfessionalID uint
	ClientID       uint
	ServiceIDs     []uint
	ScheduledAt    time.Time
	Status         models.AppointmentStatus
	BranchID       uint // filial explícita, opcional
	Caller         *branch.Caller
}

// Scheduler concentra as regras de agendamento: exclusividade de horário,
// snapshot do total e escopo de filial.
type Scheduler struct {
	store    Store
	resolver BranchResolver
}

func NewScheduler(store Store, resolver BranchResolver) *Scheduler {
	return &Scheduler{store: store, resolver: resolver}
}

func (s *Scheduler) Create(in CreateInput) (*models.Appointment, error) {
	branchID, err := s.resolver.Resolve(in.Caller, in.BranchID)
	if err != nil {
		return nil, err
	}

	// pré-checagem amigável; a garantia real é o índice único
	// (professional_id, scheduled_at) no banco
	existing, err := s.store.AppointmentAt(in.ProfessionalID, in.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotConflict
	}

	services, err := s.store.ServicesByIDs(in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(services) != len(in.ServiceIDs) {
		return nil, ErrServiceNotFound
	}
	var total float64
	for _, svc := range services {
		total += svc.Price
	}

	prof, err := s.store.ProfessionalByID(in.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return nil, ErrProfessionalNotFound
	}

	status := in.Status
	if status == "" {
		status = models.AppointmentScheduled
	}
	if status != models.AppointmentScheduled && status != models.AppointmentCompleted {
		return nil, ErrInvalidStatus
	}

	appt := &models.Appointment{
		ProfessionalID: &in.ProfessionalID,
		ClientID:       in.ClientID,
		BranchID:       branchID,
		ScheduledAt:    in.ScheduledAt,
		Status:         status,
		Total:          total,
	}
	for _, id := range in.ServiceIDs {
		appt.Services = append(appt.Services, models.AppointmentService{ServiceID: id})
	}

	if err := s.store.Create(appt); err != nil {
		return nil, err
	}
	return s.store.ByID(appt.ID)
}

// FindAll lista atendimentos no escopo do chamador. Filial explícita
// restringe à filial; sem contexto algum, devolve a lista global
// (caminho de manutenção).
func (s *Scheduler) FindAll(caller *branch.Caller, explicitBranchID uint) ([]models.Appointment, error) {
	if explicitBranchID != 0 {
		return s.store.ByBranches([]uint{explicitBranchID})
	}

	if caller != nil && caller.UserID != 0 {
		ids, err := s.resolver.ScopeBranchIDs(caller)
		if err != nil {
			if errors.Is(err, branch.ErrProfessionalNotLinked) || errors.Is(err, branch.ErrUserNotFound) {
				return []models.Appointment{}, nil
			}
			return nil, err
		}
		return s.store.ByBranches(ids)
	}

	return s.store.All()
}

func (s *Scheduler) FindOne(id uint) (*models.Appointment, error) {
	appt, err := s.store.ByID(id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	return appt, nil
}

// AvailableSlots devolve os horários da grade ainda livres para o
// profissional no dia (limites do dia em UTC), preservando a ordem da
// grade.
func (s *Scheduler) AvailableSlots(professionalID uint, date string) ([]string, error) {
	from, to, err := utcDayWindow(date)
	if err != nil {
		return nil, err
	}

	booked, err := s.store.InWindow(professionalID, from, to)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, appt := range booked {
		taken[appt.ScheduledAt.UTC().Format("15:04")] = true
	}

	free := make([]string, 0, len(WorkingHours))
	for _, hour := range WorkingHours {
		if !taken[hour] {
			free = append(free, hour)
		}
	}
	return free, nil
}

// ByDate lista os atendimentos de um dia (todas as filiais), em ordem de
// horário.
func (s *Scheduler) ByDate(date string) ([]models.Appointment, error) {
	from, to, err := utcDayWindow(date)
	if err != nil {
		return nil, err
	}
	return s.store.ByDateWindow(from, to)
}

// Confirm marca o atendimento como realizado. A reconciliação financeira
// é disparada pelo chamador na sequência, não aqui.
func (s *Scheduler) Confirm(id uint) (*models.Appointment, error) {
	appt, err := s.store.ByID(id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}

	if err := s.store.SetStatus(id, models.AppointmentCompleted); err != nil {
		return nil, err
	}
	return s.store.ByID(id)
}

// Cancel remove o agendamento e seus vínculos de serviço. Cancelamento é
// exclusão física; não fica trilha de auditoria.
func (s *Scheduler) Cancel(id uint) error {
	appt, err := s.store.ByID(id)
	if err != nil {
		return err
	}
	if appt == nil {
		return ErrNotFound
	}
	return s.store.Delete(id)
}

func utcDayWindow(date string) (time.Time, time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
	return from, to, nil
}
