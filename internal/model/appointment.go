package model

import "time"

// Appointment is a scheduled visit stored in `appointments`.  Both
// references are optional: ids that do not resolve when the appointment
// is booked are stored as null rather than rejected.
type Appointment struct {
	ID        uint64     `json:"id"`         // appointments.id
	Date      Date       `json:"date"`       // appointments.date
	Time      *TimeOfDay `json:"time"`       // appointments.time (nullable)
	Purpose   string     `json:"purpose"`    // appointments.purpose
	DoctorID  *uint64    `json:"doctor_id"`  // appointments.doctor_id (nullable)
	PatientID *uint64    `json:"patient_id"` // appointments.patient_id (nullable)
	CreatedAt time.Time  `json:"created_at"` // appointments.created_at
}

// AppointmentFilter narrows an appointment listing.  Nil fields are not
// applied.
type AppointmentFilter struct {
	DoctorID  *uint64
	PatientID *uint64
}
