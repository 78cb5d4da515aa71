// Package queue defines message payloads exchanged over the message broker
// together with the publisher used by the API and the consumer run by the
// worker.
package queue

import (
	"time"

	"github.com/iliyamo/healthconnect-api/internal/model"
)

// AppointmentBookedQueue is the durable queue carrying AppointmentBookedEvent.
const AppointmentBookedQueue = "appointment.booked"

// AppointmentBookedEvent is published after an appointment is stored. It
// holds only persisted fields; contact details posted with the booking
// form never leave the request.
type AppointmentBookedEvent struct {
	AppointmentID uint64  `json:"appointment_id"`
	Date          string  `json:"date"`
	Time          *string `json:"time,omitempty"`
	Purpose       string  `json:"purpose"`
	DoctorID      *uint64 `json:"doctor_id,omitempty"`
	PatientID     *uint64 `json:"patient_id,omitempty"`
	BookedAt      string  `json:"booked_at"`
}

// NewAppointmentBookedEvent builds the event for a stored appointment.
func NewAppointmentBookedEvent(a model.Appointment) AppointmentBookedEvent {
	ev := AppointmentBookedEvent{
		AppointmentID: a.ID,
		Date:          a.Date.String(),
		Purpose:       a.Purpose,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		BookedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.Time != nil {
		s := a.Time.String()
		ev.Time = &s
	}
	return ev
}
