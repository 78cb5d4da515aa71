package router

import (
	"github.com/labstack/echo/v4"
)

// RegisterClinical registers the doctor, patient, record and appointment
// endpoints. m is applied to every one of them.
func RegisterClinical(e *echo.Echo, h Handlers, m ...echo.MiddlewareFunc) {
	doctors := e.Group("/doctors", m...)
	doctors.GET("", h.Doctors.List)
	doctors.POST("", h.Doctors.Create)
	doctors.DELETE("/:id", h.Doctors.Delete)

	patients := e.Group("/patients", m...)
	patients.GET("", h.Patients.List)
	patients.POST("", h.Patients.Create)
	patients.DELETE("/:id", h.Patients.Delete)

	// GET takes a patient id, DELETE a record id.
	records := e.Group("/patient_records", m...)
	records.GET("/:patient_id", h.Records.ListForPatient)
	records.POST("", h.Records.Create)
	records.DELETE("/:id", h.Records.Delete)

	appointments := e.Group("/appointments", m...)
	appointments.GET("", h.Appointments.List)
	appointments.POST("", h.Appointments.Create)
	appointments.DELETE("/:id", h.Appointments.Delete)
}
