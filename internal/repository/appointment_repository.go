package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/healthconnect-api/internal/database"
	"github.com/iliyamo/healthconnect-api/internal/model"
)

// AppointmentRepo persists appointments.
type AppointmentRepo struct {
	db *database.DB
}

func NewAppointmentRepo(db *database.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

// Create inserts an appointment. CreatedAt must already be set.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	const q = `INSERT INTO appointments (date, time, purpose, created_at, doctor_id, patient_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	id, err := r.db.Dialect.InsertReturningID(ctx, r.db, q,
		a.Date, a.Time, a.Purpose, a.CreatedAt, a.DoctorID, a.PatientID)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// List returns appointments in chronological order of their date, with
// insertion order breaking ties. Non-nil filter fields narrow the result.
func (r *AppointmentRepo) List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	var (
		where []string
		args  []any
	)
	for _, id := range []*uint64{f.DoctorID, f.PatientID} {
		if id != nil && !storable(*id) {
			return []model.Appointment{}, nil
		}
	}
	if f.DoctorID != nil {
		where = append(where, "doctor_id = ?")
		args = append(args, *f.DoctorID)
	}
	if f.PatientID != nil {
		where = append(where, "patient_id = ?")
		args = append(args, *f.PatientID)
	}

	q := `SELECT id, date, time, purpose, created_at, doctor_id, patient_id FROM appointments`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY date ASC, id ASC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.Date, &a.Time, &a.Purpose, &a.CreatedAt, &a.DoctorID, &a.PatientID); err != nil {
			return nil, err
		}
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a single appointment.
func (r *AppointmentRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "appointments", id)
}
