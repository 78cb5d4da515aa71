package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthconnect-api/internal/dto"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

type DoctorService interface {
	List(ctx context.Context) ([]model.Doctor, error)
	Create(ctx context.Context, d model.Doctor) (model.Doctor, error)
	Delete(ctx context.Context, id uint64) error
}

// DoctorHandler serves /doctors.
type DoctorHandler struct {
	svc DoctorService
}

func NewDoctorHandler(svc DoctorService) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

// List handles GET /doctors.
func (h *DoctorHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	doctors, err := h.svc.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, doctors)
}

// Create handles POST /doctors.
func (h *DoctorHandler) Create(c echo.Context) error {
	var in dto.DoctorInput
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	d, err := dto.ToDoctor(in)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	created, err := h.svc.Create(ctx, d)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Delete handles DELETE /doctors/:id. Records and appointments of the
// doctor are kept with their doctor cleared.
func (h *DoctorHandler) Delete(c echo.Context) error {
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
