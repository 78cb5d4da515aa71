package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/config"
	"github.com/iliyamo/healthconnect-api/internal/database"
	"github.com/iliyamo/healthconnect-api/internal/handler"
	"github.com/iliyamo/healthconnect-api/internal/queue"
	"github.com/iliyamo/healthconnect-api/internal/repository"
	"github.com/iliyamo/healthconnect-api/internal/router"
	"github.com/iliyamo/healthconnect-api/internal/service"
	"github.com/iliyamo/healthconnect-api/internal/session"
)

// buildAPI wires repositories, services and handlers into the router.
// rdb may be nil. Booking events are published only when an AMQP URL is
// configured; drain waits for the ones still in flight.
func buildAPI(cfg config.Config, db *database.DB, rdb *redis.Client, logger zerolog.Logger) (e *echo.Echo, drain func()) {
	doctorRepo := repository.NewDoctorRepo(db)
	patientRepo := repository.NewPatientRepo(db)

	auth := service.NewAuthService(repository.NewUserRepo(db), session.NewStore(), cfg.BcryptCost, logger)
	appointments := service.NewAppointmentService(repository.NewAppointmentRepo(db), doctorRepo, patientRepo, logger)
	if cfg.AMQPURL != "" {
		appointments = appointments.WithPublisher(queue.NewPublisher(cfg.AMQPURL, logger))
		logger.Info().Msg("appointment events enabled")
	}

	h := router.Handlers{
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(auth),
		Doctors:      handler.NewDoctorHandler(service.NewDoctorService(doctorRepo, logger)),
		Patients:     handler.NewPatientHandler(service.NewPatientService(patientRepo, logger)),
		Records:      handler.NewPatientRecordHandler(service.NewPatientRecordService(repository.NewPatientRecordRepo(db), patientRepo, doctorRepo, logger)),
		Appointments: handler.NewAppointmentHandler(appointments),
	}
	return router.New(cfg, h, auth, rdb, logger), appointments.Drain
}
