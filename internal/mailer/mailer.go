package mailer

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/models"
)

// Mailer sends appointment emails over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

// New creates an SMTP mailer from config.
func New(cfg config.MailerConfig, log zerolog.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

// AppointmentsBooked mails the patient the full list of booked sessions.
func (m *Mailer) AppointmentsBooked(p *models.Patient, appts []models.Appointment) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointments have been booked:\n\n%s\n\nThank you.",
		p.Name, sessionLines(appts))
	return m.send(p.Email, "Appointment Booked", body)
}

// AppointmentRescheduled mails the patient the new slot of one session.
func (m *Mailer) AppointmentRescheduled(p *models.Patient, appt models.Appointment) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment (Session: %d) has been rescheduled to %s at %s.\n\nThank you.",
		p.Name, appt.Session, appt.Date, appt.Time)
	return m.send(p.Email, "Appointment Rescheduled", body)
}

// AppointmentsCancelled mails the patient every cancelled session.
func (m *Mailer) AppointmentsCancelled(p *models.Patient, appts []models.Appointment) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nThe following appointment(s) have been cancelled:\n\n%s\n\nThank you.",
		p.Name, sessionLines(appts))
	return m.send(p.Email, "Appointment Cancelled", body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	m.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

func sessionLines(appts []models.Appointment) string {
	lines := make([]string, len(appts))
	for i, a := range appts {
		lines[i] = fmt.Sprintf("Session %d: %s at %s", a.Session, a.Date, a.Time)
	}
	return strings.Join(lines, "\n")
}

// Disabled is a no-op notifier used when SMTP is not configured.
type Disabled struct{}

func (Disabled) AppointmentsBooked(*models.Patient, []models.Appointment) error { return nil }

func (Disabled) AppointmentRescheduled(*models.Patient, models.Appointment) error { return nil }

func (Disabled) AppointmentsCancelled(*models.Patient, []models.Appointment) error { return nil }
