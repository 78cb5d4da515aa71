package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthconnect-api/internal/dto"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

type PatientService interface {
	List(ctx context.Context) ([]model.Patient, error)
	Create(ctx context.Context, p model.Patient) (model.Patient, error)
	Delete(ctx context.Context, id uint64) error
}

type PatientHandler struct {
	svc PatientService
}

func NewPatientHandler(svc PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func (h *PatientHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	patients, err := h.svc.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *PatientHandler) Create(c echo.Context) error {
	var in dto.PatientInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := dto.ToPatient(in)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	created, err := h.svc.Create(ctx, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Delete handles DELETE /patients/:id, removing the patient's records too.
func (h *PatientHandler) Delete(c echo.Context) error {
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
