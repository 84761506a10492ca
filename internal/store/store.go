package store

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write collides with a unique
	// index (the (date, time) slot or a patient email).
	ErrDuplicate = errors.New("duplicate record")
)

// Patients is the patient repository.
type Patients interface {
	Create(ctx context.Context, p *models.Patient) error
	ByID(ctx context.Context, id string) (*models.Patient, error)
	ByEmail(ctx context.Context, email string) (*models.Patient, error)
}

// Appointments is the appointment repository.
type Appointments interface {
	// CreateBatch inserts all appointments in one transaction; either
	// every session is persisted or none is.
	CreateBatch(ctx context.Context, appts []*models.Appointment) error
	ByID(ctx context.Context, id string) (*models.Appointment, error)
	ByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ByDate(ctx context.Context, date string) ([]models.Appointment, error)
	Save(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id string) error
	DeleteByPatient(ctx context.Context, patientID string) error
}

// Store bundles the gorm-backed repositories.
type Store struct {
	Patients     Patients
	Appointments Appointments
}

// New creates a Store on top of an initialized gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{
		Patients:     &patientStore{db: db},
		Appointments: &appointmentStore{db: db},
	}
}

// isDuplicate reports whether err is a unique-index violation.
func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
