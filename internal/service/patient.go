package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/model"
)

// PatientStore is the persistence contract of PatientService.
type PatientStore interface {
	crudStore[model.Patient]
	List(ctx context.Context) ([]model.Patient, error)
}

type PatientService struct {
	entityService[model.Patient]
	patients PatientStore
}

func NewPatientService(patients PatientStore, log zerolog.Logger) *PatientService {
	return &PatientService{
		entityService: newEntityService[model.Patient]("patient", "patient", patients, log),
		patients:      patients,
	}
}

func (s *PatientService) List(ctx context.Context) ([]model.Patient, error) {
	return s.patients.List(ctx)
}

func (s *PatientService) Create(ctx context.Context, p model.Patient) (model.Patient, error) {
	err := s.create(ctx, &p)
	return p, err
}

// Delete removes a patient and all of their records. Appointments keep
// existing with no patient.
func (s *PatientService) Delete(ctx context.Context, id uint64) error {
	return s.delete(ctx, id)
}
