package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/model"
)

// DoctorStore is the persistence contract of DoctorService.
type DoctorStore interface {
	crudStore[model.Doctor]
	List(ctx context.Context) ([]model.Doctor, error)
}

type DoctorService struct {
	entityService[model.Doctor]
	doctors DoctorStore
}

func NewDoctorService(doctors DoctorStore, log zerolog.Logger) *DoctorService {
	return &DoctorService{
		entityService: newEntityService[model.Doctor]("doctor", "doctor", doctors, log),
		doctors:       doctors,
	}
}

func (s *DoctorService) List(ctx context.Context) ([]model.Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *DoctorService) Create(ctx context.Context, d model.Doctor) (model.Doctor, error) {
	err := s.create(ctx, &d)
	return d, err
}

// Delete removes a doctor; its records and appointments are kept with
// the doctor reference cleared.
func (s *DoctorService) Delete(ctx context.Context, id uint64) error {
	return s.delete(ctx, id)
}
