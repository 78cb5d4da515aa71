package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthconnect-api/internal/dto"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

type PatientRecordService interface {
	ListForPatient(ctx context.Context, patientID uint64) ([]model.PatientRecord, error)
	Create(ctx context.Context, rec model.PatientRecord) (model.PatientRecord, error)
	Delete(ctx context.Context, id uint64) error
}

// PatientRecordHandler serves /patient_records.
type PatientRecordHandler struct {
	svc PatientRecordService
}

func NewPatientRecordHandler(svc PatientRecordService) *PatientRecordHandler {
	return &PatientRecordHandler{svc: svc}
}

// ListForPatient handles GET /patient_records/:patient_id, newest first.
// An unknown patient simply has no records.
func (h *PatientRecordHandler) ListForPatient(c echo.Context) error {
	patientID, err := pathID(c, "patient_id")
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	records, err := h.svc.ListForPatient(ctx, patientID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// Create handles POST /patient_records. The patient (and doctor, when
// given) must exist.
func (h *PatientRecordHandler) Create(c echo.Context) error {
	var in dto.PatientRecordInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	rec, err := dto.ToPatientRecord(in)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	created, err := h.svc.Create(ctx, rec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PatientRecordHandler) Delete(c echo.Context) error {
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
