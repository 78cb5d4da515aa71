package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

// PatientRecordStore is the persistence contract of PatientRecordService.
type PatientRecordStore interface {
	crudStore[model.PatientRecord]
	ListByPatient(ctx context.Context, patientID uint64) ([]model.PatientRecord, error)
}

// existenceChecker answers whether an id resolves to a stored row.
type existenceChecker interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// PatientRecordService rejects records whose references do not resolve.
type PatientRecordService struct {
	entityService[model.PatientRecord]
	records  PatientRecordStore
	patients existenceChecker
	doctors  existenceChecker
}

func NewPatientRecordService(records PatientRecordStore, patients, doctors existenceChecker, log zerolog.Logger) *PatientRecordService {
	return &PatientRecordService{
		entityService: newEntityService[model.PatientRecord]("patient_record", "record", records, log),
		records:       records,
		patients:      patients,
		doctors:       doctors,
	}
}

// ListForPatient returns a patient's records, newest first. An unknown
// patient simply has no records.
func (s *PatientRecordService) ListForPatient(ctx context.Context, patientID uint64) ([]model.PatientRecord, error) {
	return s.records.ListByPatient(ctx, patientID)
}

// Create stores rec after checking that its patient and, when given, its
// doctor exist.
func (s *PatientRecordService) Create(ctx context.Context, rec model.PatientRecord) (model.PatientRecord, error) {
	ok, err := s.patients.Exists(ctx, rec.PatientID)
	if err != nil {
		return rec, fmt.Errorf("lookup patient: %w", err)
	}
	if !ok {
		return rec, apperr.Reference("invalid patient")
	}
	if rec.DoctorID != nil {
		ok, err := s.doctors.Exists(ctx, *rec.DoctorID)
		if err != nil {
			return rec, fmt.Errorf("lookup doctor: %w", err)
		}
		if !ok {
			return rec, apperr.Reference("invalid doctor")
		}
	}
	err = s.create(ctx, &rec)
	return rec, err
}

func (s *PatientRecordService) Delete(ctx context.Context, id uint64) error {
	return s.delete(ctx, id)
}
