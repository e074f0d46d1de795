package professional

import (
	"errors"
	"time"

	"salao-backend/internal/models"

	"gorm.io/gorm"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ProfessionalByID(id uint) (*models.Professional, error) {
	var prof models.Professional
	err := s.DB.Preload("CustomRole").First(&prof, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *GormStore) CompletedAppointments(professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.
		Where("professional_id = ? AND status = ? AND scheduled_at BETWEEN ? AND ?",
			professionalID, models.AppointmentCompleted, from, to).
		Order("scheduled_at asc").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
