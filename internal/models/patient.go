package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PatientProfile represents a registered patient and their saved chart history
type PatientProfile struct {
	UserID         string       `json:"user_id"`
	Password       string       `json:"-"` // Never send password in JSON
	Name           string       `json:"name"`
	BirthDate      string       `json:"birth_date"`
	PhoneNumber    string       `json:"phone_number"`
	InsuranceInfo  string       `json:"insurance_info"`
	Allergies      string       `json:"allergies"`
	Medications    string       `json:"medications"`
	MedicalHistory string       `json:"medical_history"`
	Address        string       `json:"address,omitempty"`
	Email          string       `json:"email,omitempty"`
	Charts         []ChartEntry `json:"charts"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// SetPassword hashes a password and sets it on the profile
func (p *PatientProfile) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the profile's hashed password
func (p *PatientProfile) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password))
	return err == nil
}

// Clone returns a deep copy so callers never share the chart slice with the store.
func (p *PatientProfile) Clone() *PatientProfile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Charts != nil {
		cp.Charts = make([]ChartEntry, len(p.Charts))
		for i, entry := range p.Charts {
			cp.Charts[i] = entry.Clone()
		}
	}
	return &cp
}

// ValueOr returns v, or fallback when v is blank.
func ValueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
