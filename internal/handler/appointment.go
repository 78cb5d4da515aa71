package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthconnect-api/internal/dto"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

type AppointmentService interface {
	List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
	Create(ctx context.Context, a model.Appointment) (model.Appointment, error)
	Delete(ctx context.Context, id uint64) error
}

// AppointmentHandler serves /appointments.
type AppointmentHandler struct {
	svc AppointmentService
}

func NewAppointmentHandler(svc AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// List handles GET /appointments?doctor_id=&patient_id=, ordered by date.
func (h *AppointmentHandler) List(c echo.Context) error {
	var (
		f   model.AppointmentFilter
		err error
	)
	if f.DoctorID, err = queryID(c, "doctor_id"); err != nil {
		return writeError(c, err)
	}
	if f.PatientID, err = queryID(c, "patient_id"); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	appointments, err := h.svc.List(ctx, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, appointments)
}

// Create handles POST /appointments. Doctor and patient ids that do not
// resolve are stored as null.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var in dto.AppointmentInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	a, err := dto.ToAppointment(in)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	created, err := h.svc.Create(ctx, a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *AppointmentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
