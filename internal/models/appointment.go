package models

// Appointment represents one session of a treatment cycle.
//
// Date and Time are stored as "YYYY-MM-DD" and "HH:00" strings; the pair
// is a globally exclusive slot, enforced by the uq_slot unique index.
type Appointment struct {
	BaseModel
	PatientID string `gorm:"size:36;index;not null" json:"patientId"`
	Session   int    `gorm:"not null" json:"session"` // 1, 2 or 3
	Date      string `gorm:"size:10;not null;uniqueIndex:uq_slot" json:"date"`
	Time      string `gorm:"size:5;not null;uniqueIndex:uq_slot" json:"time"`

	// Relation
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}
