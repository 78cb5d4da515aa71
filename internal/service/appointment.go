package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/metrics"
	"github.com/iliyamo/healthconnect-api/internal/model"
	"github.com/iliyamo/healthconnect-api/internal/queue"
)

// AppointmentStore is the persistence contract of AppointmentService.
type AppointmentStore interface {
	crudStore[model.Appointment]
	List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
}

// EventPublisher delivers appointment events to downstream consumers.
type EventPublisher interface {
	PublishAppointmentBooked(ctx context.Context, ev queue.AppointmentBookedEvent) error
}

// publishTimeout bounds one appointment.booked delivery, which runs after
// the request that caused it has returned.
const publishTimeout = 10 * time.Second

// AppointmentService books appointments. Unlike records, appointments
// tolerate unknown doctor or patient ids by storing them as null.
type AppointmentService struct {
	entityService[model.Appointment]
	appointments AppointmentStore
	doctors      existenceChecker
	patients     existenceChecker
	events       EventPublisher
	inflight     sync.WaitGroup
	now          func() time.Time
}

func NewAppointmentService(appointments AppointmentStore, doctors, patients existenceChecker, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		entityService: newEntityService[model.Appointment]("appointment", "appointment", appointments, log),
		appointments:  appointments,
		doctors:       doctors,
		patients:      patients,
		now:           time.Now,
	}
}

// WithPublisher enables the appointment.booked event. A nil publisher
// disables it.
func (s *AppointmentService) WithPublisher(p EventPublisher) *AppointmentService {
	s.events = p
	return s
}

// List returns appointments ordered by date, oldest first.
func (s *AppointmentService) List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	return s.appointments.List(ctx, f)
}

// Create clears references that do not resolve, stamps created_at and
// stores the appointment. The booked event is published in the background
// and never fails or delays the booking.
func (s *AppointmentService) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	var err error
	if a.DoctorID, err = s.resolve(ctx, s.doctors, a.DoctorID, "doctor"); err != nil {
		return a, err
	}
	if a.PatientID, err = s.resolve(ctx, s.patients, a.PatientID, "patient"); err != nil {
		return a, err
	}
	a.CreatedAt = s.now().UTC()

	if err := s.create(ctx, &a); err != nil {
		return a, err
	}

	if s.events != nil {
		s.publish(ctx, a)
	}
	return a, nil
}

// publish delivers the booked event on its own goroutine. The request
// context only contributes its values; its deadline and cancellation do
// not apply.
func (s *AppointmentService) publish(ctx context.Context, a model.Appointment) {
	ev := queue.NewAppointmentBookedEvent(a)
	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := s.events.PublishAppointmentBooked(ctx, ev); err != nil {
			s.log.Warn().Err(err).Uint64("appointment_id", ev.AppointmentID).Msg("appointment.booked not published")
		}
	}()
}

// Drain blocks until every background publish has finished.
func (s *AppointmentService) Drain() {
	s.inflight.Wait()
}

func (s *AppointmentService) Delete(ctx context.Context, id uint64) error {
	return s.delete(ctx, id)
}

// resolve returns id when it exists and nil otherwise.
func (s *AppointmentService) resolve(ctx context.Context, c existenceChecker, id *uint64, ref string) (*uint64, error) {
	if id == nil {
		return nil, nil
	}
	ok, err := c.Exists(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", ref, err)
	}
	if !ok {
		s.log.Debug().Uint64(ref+"_id", *id).Msg("dangling reference cleared")
		metrics.DanglingReferencesCleared.WithLabelValues(ref).Inc()
		return nil, nil
	}
	return id, nil
}
