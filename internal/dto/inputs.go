package dto

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/healthconnect-api/internal/model"
)

// DoctorInput is the body of POST /doctors.
type DoctorInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Specialty string `json:"specialty" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=50"`
	Email     string `json:"email" validate:"max=255"`
}

// PatientInput is the body of POST /patients.
type PatientInput struct {
	FirstName string      `json:"first_name" validate:"required,max=100"`
	LastName  string      `json:"last_name" validate:"required,max=100"`
	DOB       *model.Date `json:"dob"`
	Phone     string      `json:"phone" validate:"max=50"`
	Email     string      `json:"email" validate:"max=255"`
	Address   string      `json:"address" validate:"max=255"`
}

// PatientRecordInput is the body of POST /patient_records.
type PatientRecordInput struct {
	Date      *model.Date `json:"date" validate:"required"`
	Notes     string      `json:"notes"`
	HeightIn  *int        `json:"height_in" validate:"omitempty,gte=0"`
	WeightLb  *int        `json:"weight_lb" validate:"omitempty,gte=0"`
	Diagnosis string      `json:"diagnosis" validate:"max=255"`
	PatientID *uint64     `json:"patient_id" validate:"required"`
	DoctorID  *uint64     `json:"doctor_id"`
}

// AppointmentInput is the body of POST /appointments. The booking form
// also posts contact details (full_name, email, phone, department); they
// are checked for shape but never stored.
type AppointmentInput struct {
	Date      *model.Date  `json:"date" validate:"required"`
	Time      *string      `json:"time"`
	Purpose   string       `json:"purpose" validate:"max=255"`
	DoctorID  *ReferenceID `json:"doctor_id"`
	PatientID *ReferenceID `json:"patient_id"`

	FullName   string `json:"full_name"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
}

// Credentials is the body of POST /auth/signup and POST /auth/login.
// bcrypt only hashes the first 72 bytes of a password.
type Credentials struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=72"`
}

// ReferenceID is a doctor or patient id posted with an appointment. Any
// JSON integer decodes; one outside the int64 range becomes 0 since it
// cannot name a row either.
type ReferenceID int64

func (r *ReferenceID) UnmarshalJSON(b []byte) error {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		*r = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("reference id: %w", err)
	}
	*r = ReferenceID(n)
	return nil
}
