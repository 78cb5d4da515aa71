// Package service holds the business rules that sit between the HTTP
// handlers and the repositories: reference policies for records and
// appointments, credential handling and session issuing. Services return
// apperr errors that the transport maps to status codes.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/metrics"
	"github.com/iliyamo/healthconnect-api/internal/repository"
)

// crudStore is the part of a repository shared by every entity.
type crudStore[T any] interface {
	Create(ctx context.Context, v *T) error
	Delete(ctx context.Context, id uint64) error
}

// entityService implements create and delete once for all entities.
type entityService[T any] struct {
	label string // metric label, e.g. patient_record
	noun  string // used in client messages, e.g. record
	store crudStore[T]
	log   zerolog.Logger
}

func newEntityService[T any](label, noun string, store crudStore[T], log zerolog.Logger) entityService[T] {
	return entityService[T]{
		label: label,
		noun:  noun,
		store: store,
		log:   log.With().Str("component", label+"-service").Logger(),
	}
}

func (s entityService[T]) create(ctx context.Context, v *T) error {
	if err := s.store.Create(ctx, v); err != nil {
		return fmt.Errorf("create %s: %w", s.label, err)
	}
	metrics.EntitiesCreated.WithLabelValues(s.label).Inc()
	return nil
}

func (s entityService[T]) delete(ctx context.Context, id uint64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("%s not found", s.noun)
		}
		return fmt.Errorf("delete %s %d: %w", s.label, id, err)
	}
	metrics.EntitiesDeleted.WithLabelValues(s.label).Inc()
	s.log.Debug().Uint64("id", id).Msg("deleted")
	return nil
}
