package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/metrics"
)

// NotificationLogFile is the file, inside the notification directory,
// that receives one line per booked appointment.
const NotificationLogFile = "appointments.log"

// Consumer listens to the appointment.booked queue and appends a
// single-line notification per message to a log file.
type Consumer struct {
	url string
	dir string
	log zerolog.Logger
}

// NewConsumer returns a consumer writing into dir.
func NewConsumer(url, dir string, log zerolog.Logger) *Consumer {
	return &Consumer{url: url, dir: dir, log: log.With().Str("component", "notify-consumer").Logger()}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled,
// reconnecting with exponential backoff when the broker goes away.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("set QoS failed")
	}
	if err := declare(ch, AppointmentBookedQueue); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, AppointmentBookedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.Handle(d.Body); err != nil {
			c.log.Error().Err(err).Msg("handle message failed")
			metrics.EventsConsumed.WithLabelValues(AppointmentBookedQueue, "nack").Inc()
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		metrics.EventsConsumed.WithLabelValues(AppointmentBookedQueue, "ack").Inc()
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one message body and appends its notification line.
func (c *Consumer) Handle(body []byte) error {
	var ev AppointmentBookedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, NotificationLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatNotification(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatNotification renders ev as a single human friendly line.
func FormatNotification(ev AppointmentBookedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Appointment booked | appointment_id=%d | date=%s", ev.BookedAt, ev.AppointmentID, ev.Date)
	if ev.Time != nil {
		fmt.Fprintf(&b, " | time=%s", *ev.Time)
	}
	fmt.Fprintf(&b, " | doctor_id=%s | patient_id=%s | purpose=%q\n", optID(ev.DoctorID), optID(ev.PatientID), ev.Purpose)
	return b.String()
}

func optID(id *uint64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
