package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. The stored hypertension and heart
// disease flags are read by the risk engine as part of the patient's
// longitudinal record.
type Patient struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Active         bool       `db:"active" json:"active"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Gender         *string    `db:"gender" json:"gender,omitempty"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Hypertension   bool       `db:"hypertension" json:"hypertension"`
	HeartDisease   bool       `db:"heart_disease" json:"heart_disease"`
	MedicalHistory *string    `db:"medical_history" json:"medical_history,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Email          *string    `db:"email" json:"email,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// DefaultAge is used when a patient has no recorded date of birth.
const DefaultAge = 30

// Age returns the patient's age in whole years as of now.
func (p *Patient) Age() int {
	return p.AgeAt(time.Now())
}

// AgeAt returns the patient's age in whole years at the given time.
func (p *Patient) AgeAt(now time.Time) int {
	if p.DateOfBirth == nil {
		return DefaultAge
	}
	dob := *p.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
