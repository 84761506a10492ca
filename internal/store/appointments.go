package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
)

type appointmentStore struct {
	db *gorm.DB
}

func (s *appointmentStore) CreateBatch(ctx context.Context, appts []*models.Appointment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range appts {
			if err := tx.Create(a).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (s *appointmentStore) ByID(ctx context.Context, id string) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *appointmentStore) ByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date asc, time asc").
		Find(&appts).Error
	return appts, err
}

func (s *appointmentStore) ByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).Where("date = ?", date).Find(&appts).Error
	return appts, err
}

func (s *appointmentStore) Save(ctx context.Context, a *models.Appointment) error {
	err := s.db.WithContext(ctx).Save(a).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (s *appointmentStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *appointmentStore) DeleteByPatient(ctx context.Context, patientID string) error {
	return s.db.WithContext(ctx).
		Delete(&models.Appointment{}, "patient_id = ?", patientID).Error
}
