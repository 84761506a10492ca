package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Patient represents a registered patient account.
type Patient struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // Never send password in JSON

	// Relation (not always preloaded)
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
}

// PatientSanitized represents the patient data that is safe to send in API responses.
type PatientSanitized struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the patient
func (p *Patient) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the patient's hashed password
func (p *Patient) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password))
	return err == nil
}

// Sanitize creates a PatientSanitized struct from a Patient model, excluding sensitive data.
func (p *Patient) Sanitize() PatientSanitized {
	return PatientSanitized{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
