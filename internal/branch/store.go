package branch

import (
	"errors"

	"salao-backend/internal/models"

	"gorm.io/gorm"
)

// GormStore implementa Store sobre o banco relacional.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) BranchByID(id uint) (*models.Branch, error) {
	var b models.Branch
	if err := s.DB.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) BranchesByOwner(ownerID uint) ([]models.Branch, error) {
	var list []models.Branch
	err := s.DB.Where("owner_id = ?", ownerID).Order("id asc").Find(&list).Error
	return list, err
}

func (s *GormStore) AllBranches() ([]models.Branch, error) {
	var list []models.Branch
	err := s.DB.Order("id asc").Find(&list).Error
	return list, err
}

func (s *GormStore) FirstBranch() (*models.Branch, error) {
	var b models.Branch
	if err := s.DB.Order("id asc").First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) UserByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) ProfessionalForUser(user *models.User) (*models.Professional, error) {
	var p models.Professional
	err := s.DB.First(&p, "user_id = ?", user.ID).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// vínculo legado por nome, anterior à FK user_id
	if user.Name == "" {
		return nil, nil
	}
	err = s.DB.First(&p, "name = ?", user.Name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
