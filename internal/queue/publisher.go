package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/metrics"
)

// Publisher sends domain events to RabbitMQ. Each publish dials its own
// connection so a broker outage never wedges the API; errors are logged
// and returned so callers can choose to ignore them.
type Publisher struct {
	url string
	log zerolog.Logger
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log.With().Str("component", "publisher").Logger()}
}

// PublishAppointmentBooked publishes ev to the appointment.booked queue.
// Messages are marked as persistent.
func (p *Publisher) PublishAppointmentBooked(ctx context.Context, ev AppointmentBookedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal event failed")
		return err
	}
	err = p.publish(ctx, AppointmentBookedQueue, body)
	result := "success"
	if err != nil {
		result = "error"
		p.log.Warn().Err(err).Uint64("appointment_id", ev.AppointmentID).Msg("publish failed")
	}
	metrics.EventsPublished.WithLabelValues(AppointmentBookedQueue, result).Inc()
	return err
}

func (p *Publisher) publish(ctx context.Context, queueName string, body []byte) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, queueName); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // store on disk
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// declare ensures the queue exists (idempotent). Durable so messages
// survive broker restarts.
func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	return err
}
