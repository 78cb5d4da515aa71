package repository

import (
	"context"

	"github.com/iliyamo/healthconnect-api/internal/database"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

// PatientRepo encapsulates all database queries related to patients.
type PatientRepo struct {
	db *database.DB
}

func NewPatientRepo(db *database.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

// Create inserts a new patient and populates its ID.
func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	const q = `INSERT INTO patients (first_name, last_name, dob, phone, email, address)
	           VALUES (?, ?, ?, ?, ?, ?)`
	id, err := r.db.Dialect.InsertReturningID(ctx, r.db, q,
		p.FirstName, p.LastName, p.DOB, p.Phone, p.Email, p.Address)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// List returns every patient ordered by id.
func (r *PatientRepo) List(ctx context.Context) ([]model.Patient, error) {
	const q = `SELECT id, first_name, last_name, dob, phone, email, address
	           FROM patients ORDER BY id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Patient{}
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DOB, &p.Phone, &p.Email, &p.Address); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether a patient with the given id is stored.
func (r *PatientRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "patients", id)
}

// Delete removes a patient together with all of its records. Appointments
// survive with patient_id cleared.
func (r *PatientRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		if err := lockRow(ctx, tx, "patients", id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM patient_records WHERE patient_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE appointments SET patient_id = NULL WHERE patient_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM patients WHERE id = ?`, id)
		return err
	})
}
