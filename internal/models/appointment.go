package models

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// Appointment registra um atendimento. Total é o snapshot da soma dos
// preços dos serviços no momento da criação; alterações posteriores de
// preço não o afetam. O índice único (professional_id, scheduled_at) é a
// garantia real de exclusividade de horário.
type Appointment struct {
	ID             uint  `gorm:"primaryKey"`
	ProfessionalID *uint `gorm:"index;uniqueIndex:idx_appointments_slot"`
	Professional   *Professional
	ClientID       uint `gorm:"index;not null"`
	Client         Client
	BranchID       uint `gorm:"index;not null"`
	Branch         Branch
	ScheduledAt    time.Time         `gorm:"not null;uniqueIndex:idx_appointments_slot"`
	Status         AppointmentStatus `gorm:"size:20;not null;default:'SCHEDULED'"`
	Total          float64           `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Services []AppointmentService
}

// AppointmentService liga um atendimento a um serviço do catálogo.
type AppointmentService struct {
	ID            uint `gorm:"primaryKey"`
	AppointmentID uint `gorm:"index;not null"`
	ServiceID     uint `gorm:"index;not null"`
	Service       Service
	CreatedAt     time.Time
}
