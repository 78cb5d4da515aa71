package repository

import (
	"context"

	"github.com/iliyamo/healthconnect-api/internal/database"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

// PatientRecordRepo stores clinical notes attached to a patient.
type PatientRecordRepo struct {
	db *database.DB
}

func NewPatientRecordRepo(db *database.DB) *PatientRecordRepo {
	return &PatientRecordRepo{db: db}
}

// Create inserts a record. Reference checks are the caller's job; a
// dangling patient_id still fails here on dialects enforcing foreign keys.
func (r *PatientRecordRepo) Create(ctx context.Context, rec *model.PatientRecord) error {
	const q = `INSERT INTO patient_records (date, notes, height_in, weight_lb, diagnosis, patient_id, doctor_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := r.db.Dialect.InsertReturningID(ctx, r.db, q,
		rec.Date, rec.Notes, rec.HeightIn, rec.WeightLb, rec.Diagnosis, rec.PatientID, rec.DoctorID)
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// ListByPatient returns the records of one patient, newest first. Records
// sharing a date come back in reverse insertion order.
func (r *PatientRecordRepo) ListByPatient(ctx context.Context, patientID uint64) ([]model.PatientRecord, error) {
	const q = `SELECT id, date, notes, height_in, weight_lb, diagnosis, patient_id, doctor_id
	           FROM patient_records
	           WHERE patient_id = ?
	           ORDER BY date DESC, id DESC`
	if !storable(patientID) {
		return []model.PatientRecord{}, nil
	}
	rows, err := r.db.Query(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PatientRecord{}
	for rows.Next() {
		var rec model.PatientRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Notes, &rec.HeightIn, &rec.WeightLb,
			&rec.Diagnosis, &rec.PatientID, &rec.DoctorID); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a single record.
func (r *PatientRecordRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "patient_records", id)
}

// deleteByID removes one row from a table without dependants.
func deleteByID(ctx context.Context, db *database.DB, table string, id uint64) error {
	if !storable(id) {
		return ErrNotFound
	}
	res, err := db.Exec(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
