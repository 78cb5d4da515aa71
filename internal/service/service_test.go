package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/dbtest"
	"github.com/iliyamo/healthconnect-api/internal/model"
	"github.com/iliyamo/healthconnect-api/internal/queue"
	"github.com/iliyamo/healthconnect-api/internal/repository"
	"github.com/iliyamo/healthconnect-api/internal/session"
)

type services struct {
	doctors      *DoctorService
	patients     *PatientService
	records      *PatientRecordService
	appointments *AppointmentService
	auth         *AuthService
	sessions     *session.Store
}

func newServices(t *testing.T) services {
	t.Helper()
	db := dbtest.Open(t)
	log := zerolog.Nop()

	doctorRepo := repository.NewDoctorRepo(db)
	patientRepo := repository.NewPatientRepo(db)
	sessions := session.NewStore()
	return services{
		doctors:      NewDoctorService(doctorRepo, log),
		patients:     NewPatientService(patientRepo, log),
		records:      NewPatientRecordService(repository.NewPatientRecordRepo(db), patientRepo, doctorRepo, log),
		appointments: NewAppointmentService(repository.NewAppointmentRepo(db), doctorRepo, patientRepo, log),
		auth:         NewAuthService(repository.NewUserRepo(db), sessions, bcrypt.MinCost, log),
		sessions:     sessions,
	}
}

func ptr[T any](v T) *T { return &v }

func TestRecordRejectsUnknownPatient(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	_, err := s.records.Create(ctx, model.PatientRecord{Date: model.NewDate(2025, 1, 1), PatientID: 999})
	require.ErrorIs(t, err, apperr.ErrReference)
	assert.Equal(t, "invalid patient", err.Error())
}

func TestRecordRejectsUnknownDoctor(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	p, err := s.patients.Create(ctx, model.Patient{FirstName: "Bo", LastName: "Ng"})
	require.NoError(t, err)

	_, err = s.records.Create(ctx, model.PatientRecord{Date: model.NewDate(2025, 1, 1), PatientID: p.ID, DoctorID: ptr(uint64(77))})
	require.ErrorIs(t, err, apperr.ErrReference)
	assert.Equal(t, "invalid doctor", err.Error())
}

func TestRecordWithoutDoctorIsStored(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	p, err := s.patients.Create(ctx, model.Patient{FirstName: "Bo", LastName: "Ng"})
	require.NoError(t, err)

	rec, err := s.records.Create(ctx, model.PatientRecord{Date: model.NewDate(2025, 1, 1), PatientID: p.ID, Notes: "fine"})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Nil(t, rec.DoctorID)

	list, err := s.records.ListForPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec, list[0])
}

func TestAppointmentNullsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	p, err := s.patients.Create(ctx, model.Patient{FirstName: "Bo", LastName: "Ng"})
	require.NoError(t, err)

	fixed := time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC)
	s.appointments.now = func() time.Time { return fixed }

	a, err := s.appointments.Create(ctx, model.Appointment{
		Date:      model.NewDate(2025, 3, 1),
		DoctorID:  ptr(uint64(12345)),
		PatientID: ptr(p.ID),
	})
	require.NoError(t, err)
	assert.Nil(t, a.DoctorID)
	require.NotNil(t, a.PatientID)
	assert.Equal(t, p.ID, *a.PatientID)
	assert.Equal(t, fixed, a.CreatedAt)

	list, err := s.appointments.List(ctx, model.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].DoctorID)
	assert.True(t, fixed.Equal(list[0].CreatedAt))
}

func TestAppointmentsListChronologically(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	for _, d := range []model.Date{model.NewDate(2025, 3, 1), model.NewDate(2025, 1, 15), model.NewDate(2025, 2, 20)} {
		_, err := s.appointments.Create(ctx, model.Appointment{Date: d})
		require.NoError(t, err)
	}

	list, err := s.appointments.List(ctx, model.AppointmentFilter{})
	require.NoError(t, err)
	got := make([]string, 0, len(list))
	for _, a := range list {
		got = append(got, a.Date.String())
	}
	assert.Equal(t, []string{"2025-01-15", "2025-02-20", "2025-03-01"}, got)
}

type recordingPublisher struct {
	mu      sync.Mutex
	events  []queue.AppointmentBookedEvent
	ctxErrs []error
	err     error
	release chan struct{}
}

func (p *recordingPublisher) PublishAppointmentBooked(ctx context.Context, ev queue.AppointmentBookedEvent) error {
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return p.err
}

func (p *recordingPublisher) recorded() []queue.AppointmentBookedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.AppointmentBookedEvent(nil), p.events...)
}

func TestAppointmentPublishesBookedEvent(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	pub := &recordingPublisher{}
	s.appointments.WithPublisher(pub)

	a, err := s.appointments.Create(ctx, model.Appointment{Date: model.NewDate(2025, 3, 1), Purpose: "checkup"})
	require.NoError(t, err)
	s.appointments.Drain()

	events := pub.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, a.ID, events[0].AppointmentID)
	assert.Equal(t, "checkup", events[0].Purpose)
}

func TestAppointmentPublishFailureDoesNotFailBooking(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	s.appointments.WithPublisher(&recordingPublisher{err: errors.New("broker down")})

	a, err := s.appointments.Create(ctx, model.Appointment{Date: model.NewDate(2025, 3, 1)})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	s.appointments.Drain()
}

func TestAppointmentBookingDoesNotWaitForBroker(t *testing.T) {
	s := newServices(t)
	pub := &recordingPublisher{release: make(chan struct{})}
	s.appointments.WithPublisher(pub)

	ctx, cancel := context.WithCancel(context.Background())
	a, err := s.appointments.Create(ctx, model.Appointment{Date: model.NewDate(2025, 3, 1)})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Empty(t, pub.recorded())

	// The request finishing must not cancel the pending delivery.
	cancel()
	close(pub.release)
	s.appointments.Drain()

	events := pub.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, a.ID, events[0].AppointmentID)
	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.NoError(t, pub.ctxErrs[0])
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	cases := map[string]func() error{
		"doctor not found":      func() error { return s.doctors.Delete(ctx, 9) },
		"patient not found":     func() error { return s.patients.Delete(ctx, 9) },
		"record not found":      func() error { return s.records.Delete(ctx, 9) },
		"appointment not found": func() error { return s.appointments.Delete(ctx, 9) },
	}
	for msg, del := range cases {
		t.Run(msg, func(t *testing.T) {
			err := del()
			require.ErrorIs(t, err, apperr.ErrNotFound)
			assert.Equal(t, msg, err.Error())
		})
	}
}

func TestPatientDeleteCascadesRecords(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	p, err := s.patients.Create(ctx, model.Patient{FirstName: "Bo", LastName: "Ng"})
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		_, err := s.records.Create(ctx, model.PatientRecord{Date: model.NewDate(2025, time.January, i), PatientID: p.ID})
		require.NoError(t, err)
	}

	require.NoError(t, s.patients.Delete(ctx, p.ID))

	list, err := s.records.ListForPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	patients, err := s.patients.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestDoctorDeleteKeepsRecordsAndAppointments(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	d, err := s.doctors.Create(ctx, model.Doctor{FirstName: "Ann", LastName: "Lee"})
	require.NoError(t, err)
	p, err := s.patients.Create(ctx, model.Patient{FirstName: "Bo", LastName: "Ng"})
	require.NoError(t, err)
	_, err = s.records.Create(ctx, model.PatientRecord{Date: model.NewDate(2025, 1, 1), PatientID: p.ID, DoctorID: ptr(d.ID)})
	require.NoError(t, err)
	_, err = s.appointments.Create(ctx, model.Appointment{Date: model.NewDate(2025, 1, 2), DoctorID: ptr(d.ID)})
	require.NoError(t, err)

	require.NoError(t, s.doctors.Delete(ctx, d.ID))

	recs, err := s.records.ListForPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].DoctorID)

	appts, err := s.appointments.List(ctx, model.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Nil(t, appts[0].DoctorID)
}

func TestLoginUnknownUser(t *testing.T) {
	s := newServices(t)
	_, err := s.auth.Login(context.Background(), "ghost", "pw")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	_, err := s.auth.CreateUser(ctx, "alice", "right")
	require.NoError(t, err)

	_, err = s.auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestSignupThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	tok, err := s.auth.Signup(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Len(t, tok, 32)

	uid, err := s.auth.Authenticate("Bearer " + tok)
	require.NoError(t, err)

	loginTok, err := s.auth.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, tok, loginTok)

	uid2, err := s.auth.Authenticate("bearer " + loginTok)
	require.NoError(t, err)
	assert.Equal(t, uid, uid2)

	me, err := s.auth.Me(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestAuthenticateRejectsBadHeaders(t *testing.T) {
	s := newServices(t)
	tok, err := s.sessions.Issue(1)
	require.NoError(t, err)

	for _, h := range []string{"", "Bearer", tok, "Basic " + tok, "Bearer " + tok + " extra", "Bearer nope"} {
		_, err := s.auth.Authenticate(h)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized, "header %q", h)
	}

	uid, err := s.auth.Authenticate("BEARER " + tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), uid)
}

func TestDuplicateSignup(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	_, err := s.auth.Signup(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = s.auth.Signup(ctx, "alice", "other")
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "username already exists", err.Error())
}

func TestConcurrentSignupSameUsername(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	const n = 2
	errs := make([]error, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = s.auth.Signup(ctx, "race", "pw")
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperr.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
}

func TestCreateUserRequiresFields(t *testing.T) {
	s := newServices(t)
	_, err := s.auth.CreateUser(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateUserRejectsOverlongPassword(t *testing.T) {
	s := newServices(t)
	// 40 two-byte runes pass a character count but exceed bcrypt's 72 bytes.
	_, err := s.auth.CreateUser(context.Background(), "alice", strings.Repeat("é", 40))
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "password must be at most 72 bytes", err.Error())
}

func TestOutOfRangeIDsDoNotExist(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	huge := uint64(math.MaxInt64) + 1

	_, err := s.records.Create(ctx, model.PatientRecord{Date: model.NewDate(2025, 1, 1), PatientID: huge})
	require.ErrorIs(t, err, apperr.ErrReference)
	assert.Equal(t, "invalid patient", err.Error())

	p, err := s.patients.Create(ctx, model.Patient{FirstName: "Bo", LastName: "Ng"})
	require.NoError(t, err)
	_, err = s.records.Create(ctx, model.PatientRecord{Date: model.NewDate(2025, 1, 1), PatientID: p.ID, DoctorID: ptr(uint64(math.MaxUint64))})
	require.ErrorIs(t, err, apperr.ErrReference)
	assert.Equal(t, "invalid doctor", err.Error())

	a, err := s.appointments.Create(ctx, model.Appointment{Date: model.NewDate(2025, 1, 2), DoctorID: ptr(huge), PatientID: ptr(p.ID)})
	require.NoError(t, err)
	assert.Nil(t, a.DoctorID)
	require.NotNil(t, a.PatientID)

	err = s.doctors.Delete(ctx, huge)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "doctor not found", err.Error())
}
