package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
)

type patientStore struct {
	db *gorm.DB
}

func (s *patientStore) Create(ctx context.Context, p *models.Patient) error {
	err := s.db.WithContext(ctx).Create(p).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (s *patientStore) ByID(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *patientStore) ByEmail(ctx context.Context, email string) (*models.Patient, error) {
	var p models.Patient
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
