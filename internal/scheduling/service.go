package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/store"
)

// Notifier delivers appointment emails. Delivery is best-effort: the
// service logs failures and never lets them abort a completed booking,
// reschedule or cancellation.
type Notifier interface {
	AppointmentsBooked(p *models.Patient, appts []models.Appointment) error
	AppointmentRescheduled(p *models.Patient, appt models.Appointment) error
	AppointmentsCancelled(p *models.Patient, appts []models.Appointment) error
}

// Service implements the treatment-cycle scheduler: booking a cycle of
// three sessions, rescheduling a single session and cancellations.
type Service struct {
	patients store.Patients
	appts    store.Appointments
	notifier Notifier
	log      zerolog.Logger
}

// NewService creates a scheduling Service.
func NewService(patients store.Patients, appts store.Appointments, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		patients: patients,
		appts:    appts,
		notifier: notifier,
		log:      log,
	}
}

// BookCycle books a full treatment cycle for a patient: the first
// session at exactly (date, clock), two follow-ups 14 days apart rolled
// forward to the next allowed weekday, same time of day.
//
// All three target slots are validated before anything is written, and
// the three inserts share one transaction, so a follow-up conflict
// leaves no partial cycle behind.
func (s *Service) BookCycle(ctx context.Context, patientID, date, clock string) ([]models.Appointment, error) {
	patient, err := s.patients.ByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound("Patient not found.")
		}
		return nil, err
	}

	first, err := ParseSlot(date, clock)
	if err != nil {
		return nil, ErrBadRequest("Invalid date or time. Use YYYY-MM-DD and HH:00.")
	}
	if !AllowedDay(first) {
		return nil, ErrBadRequest("First session must be on Tue/Wed/Fri.")
	}

	dates := PlanSessions(first)
	for i, d := range dates {
		dateStr := d.Format(DateLayout)
		free, err := s.isSlotFree(ctx, dateStr, clock, "")
		if err != nil {
			return nil, err
		}
		if !free {
			if i == 0 {
				return nil, ErrConflict("This time slot is already booked.")
			}
			return nil, ErrConflict(fmt.Sprintf(
				"Follow-up session %d slot already booked on %s at %s", i+1, dateStr, clock))
		}
	}

	appts := make([]*models.Appointment, 0, SessionCount)
	for i, d := range dates {
		appts = append(appts, &models.Appointment{
			PatientID: patientID,
			Session:   i + 1,
			Date:      d.Format(DateLayout),
			Time:      clock,
		})
	}
	if err := s.appts.CreateBatch(ctx, appts); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrConflict("This time slot is already booked.")
		}
		return nil, err
	}

	booked := make([]models.Appointment, SessionCount)
	for i, a := range appts {
		booked[i] = *a
	}
	s.notify("booked", func() error {
		return s.notifier.AppointmentsBooked(patient, booked)
	})
	return booked, nil
}

// AppointmentsFor returns all appointments of one patient, soonest first.
func (s *Service) AppointmentsFor(ctx context.Context, patientID string) ([]models.Appointment, error) {
	appts, err := s.appts.ByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, ErrNotFound("No appointments found for this patient.")
	}
	return appts, nil
}

// Reschedule moves one existing appointment to a new slot. Session
// number and patient are immutable; only date, time and updatedAt change.
func (s *Service) Reschedule(ctx context.Context, appointmentID, newDate, newClock string) (*models.Appointment, error) {
	appt, err := s.appts.ByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound("Appointment not found.")
		}
		return nil, err
	}

	target, err := ParseSlot(newDate, newClock)
	if err != nil {
		return nil, ErrBadRequest("Invalid date or time. Use YYYY-MM-DD and HH:00.")
	}
	if !AllowedDay(target) {
		return nil, ErrBadRequest("Appointments must be on Tue/Wed/Fri.")
	}

	// The appointment may keep its own slot, so exclude it from the check.
	free, err := s.isSlotFree(ctx, newDate, newClock, appt.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrConflict("This slot is already taken.")
	}

	appt.Date = newDate
	appt.Time = newClock
	appt.UpdatedAt = time.Now()
	if err := s.appts.Save(ctx, appt); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrConflict("This slot is already taken.")
		}
		return nil, err
	}

	if patient, err := s.patients.ByID(ctx, appt.PatientID); err == nil {
		s.notify("rescheduled", func() error {
			return s.notifier.AppointmentRescheduled(patient, *appt)
		})
	}
	return appt, nil
}

// CancelAppointment deletes a single appointment. No notification is sent.
func (s *Service) CancelAppointment(ctx context.Context, appointmentID string) error {
	err := s.appts.Delete(ctx, appointmentID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound("Appointment not found.")
	}
	return err
}

// CancelAllForPatient deletes every appointment of one patient and sends
// a single cancellation mail listing the removed sessions.
func (s *Service) CancelAllForPatient(ctx context.Context, patientID string) error {
	appts, err := s.appts.ByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if len(appts) == 0 {
		return ErrNotFound("No appointments found for this patient.")
	}

	if err := s.appts.DeleteByPatient(ctx, patientID); err != nil {
		return err
	}

	if patient, err := s.patients.ByID(ctx, patientID); err == nil {
		s.notify("cancelled", func() error {
			return s.notifier.AppointmentsCancelled(patient, appts)
		})
	}
	return nil
}

// isSlotFree reports whether (date, clock) is unoccupied. excludeID,
// when non-empty, names an appointment ignored by the check.
func (s *Service) isSlotFree(ctx context.Context, date, clock, excludeID string) (bool, error) {
	appts, err := s.appts.ByDate(ctx, date)
	if err != nil {
		return false, err
	}
	for _, a := range appts {
		if a.Time == clock && a.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

// notify runs a notifier call and logs a failure instead of returning it.
func (s *Service) notify(event string, send func() error) {
	if err := send(); err != nil {
		s.log.Warn().Err(err).Str("event", event).Msg("appointment notification failed")
	}
}
