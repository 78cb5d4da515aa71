package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/iliyamo/healthconnect-api/internal/database"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

// DoctorRepo encapsulates all database queries related to doctors.
type DoctorRepo struct {
	db *database.DB
}

// NewDoctorRepo constructs a DoctorRepo with the provided DB handle.
func NewDoctorRepo(db *database.DB) *DoctorRepo {
	return &DoctorRepo{db: db}
}

// Create inserts a new doctor. On success the doctor's ID field is
// populated with the generated value.
func (r *DoctorRepo) Create(ctx context.Context, d *model.Doctor) error {
	const q = `INSERT INTO doctors (first_name, last_name, specialty, phone, email)
	           VALUES (?, ?, ?, ?, ?)`
	id, err := r.db.Dialect.InsertReturningID(ctx, r.db, q,
		d.FirstName, d.LastName, d.Specialty, d.Phone, d.Email)
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// List returns every doctor ordered by id.
func (r *DoctorRepo) List(ctx context.Context) ([]model.Doctor, error) {
	const q = `SELECT id, first_name, last_name, specialty, phone, email
	           FROM doctors ORDER BY id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Doctor{}
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Specialty, &d.Phone, &d.Email); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether a doctor with the given id is stored.
func (r *DoctorRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "doctors", id)
}

// Delete removes a doctor. Records and appointments that referenced the
// doctor are kept with doctor_id cleared. The work happens in one
// transaction; ErrNotFound is returned when the doctor does not exist.
func (r *DoctorRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		if err := lockRow(ctx, tx, "doctors", id); err != nil {
			return err
		}
		// Detach dependants first so dialects without ON DELETE SET NULL
		// enforcement behave the same.
		if _, err := tx.Exec(ctx, `UPDATE patient_records SET doctor_id = NULL WHERE doctor_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE appointments SET doctor_id = NULL WHERE doctor_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM doctors WHERE id = ?`, id)
		return err
	})
}

// storable reports whether id fits the signed 64-bit key columns. Larger
// ids cannot name a row and database/sql refuses to bind them.
func storable(id uint64) bool {
	return id <= math.MaxInt64
}

// exists runs a keyed COUNT against table. table is always a constant
// supplied by the caller, never user input.
func exists(ctx context.Context, db *database.DB, table string, id uint64) (bool, error) {
	if !storable(id) {
		return false, nil
	}
	var n int
	if err := db.QueryRow(ctx, "SELECT COUNT(1) FROM "+table+" WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// lockRow verifies that the row exists inside tx, mapping a miss to
// ErrNotFound.
func lockRow(ctx context.Context, tx *database.Tx, table string, id uint64) error {
	if !storable(id) {
		return ErrNotFound
	}
	var got uint64
	err := tx.QueryRow(ctx, "SELECT id FROM "+table+" WHERE id = ?", id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
