package appointment

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

func (s *GormStore) withJoins() *gorm.DB {
	return s.DB.
		Preload("Professional").
		Preload("Professional.CustomRole").
		Preload("Client").
		Preload("Services.Service")
}

func (s *GormStore) AppointmentAt(professionalID uint, at time.Time) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.DB.First(&appt, "professional_id = ? AND scheduled_at = ?", professionalID, at).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) ServicesByIDs(ids []uint) ([]models.Service, error) {
	var list []models.Service
	err := s.DB.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (s *GormStore) ProfessionalByID(id uint) (*models.Professional, error) {
	var p models.Professional
	err := s.DB.Preload("CustomRole").First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) Create(appt *models.Appointment) error {
	return s.DB.Create(appt).Error
}

func (s *GormStore) ByID(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.withJoins().First(&appt, "appointments.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) ByBranches(branchIDs []uint) ([]models.Appointment, error) {
	if len(branchIDs) == 0 {
		return []models.Appointment{}, nil
	}
	var list []models.Appointment
	err := s.withJoins().
		Where("branch_id IN ?", branchIDs).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (s *GormStore) All() ([]models.Appointment, error) {
	var list []models.Appointment
	err := s.withJoins().Order("created_at desc").Find(&list).Error
	return list, err
}

func (s *GormStore) InWindow(professionalID uint, from, to time.Time) ([]models.Appointment, error) {
	var list []models.Appointment
	err := s.DB.
		Where("professional_id = ? AND scheduled_at BETWEEN ? AND ?", professionalID, from, to).
		Find(&list).Error
	return list, err
}

func (s *GormStore) ByDateWindow(from, to time.Time) ([]models.Appointment, error) {
	var list []models.Appointment
	err := s.withJoins().
		Where("scheduled_at BETWEEN ? AND ?", from, to).
		Order("scheduled_at asc").
		Find(&list).Error
	return list, err
}

func (s *GormStore) SetStatus(id uint, status models.AppointmentStatus) error {
	return s.DB.Model(&models.Appointment{}).Where("id = ?", id).Update("status", status).Error
}

func (s *GormStore) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("appointment_id = ?", id).Delete(&models.AppointmentService{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Appointment{}, "id = ?", id).Error
	})
}
