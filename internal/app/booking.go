package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tour_backoffice/internal/adapters/observability"
	"tour_backoffice/internal/domain"
)

// BookingService reserves and releases spots. Every call is one atomic store
// operation; nothing here reads capacity before writing it.
type BookingService struct {
	store domain.CapacityStore
}

func NewBookingService(s domain.CapacityStore) *BookingService { return &BookingService{store: s} }

func (s *BookingService) ReserveDeparture(ctx context.Context, id uuid.UUID, spots int) (domain.Departure, error) {
	d, err := s.store.ReserveDeparture(ctx, id, spots)
	s.observe("departure", "reserve", id, spots, err)
	return d, err
}

func (s *BookingService) ReleaseDeparture(ctx context.Context, id uuid.UUID, spots int) (domain.Departure, error) {
	d, err := s.store.ReleaseDeparture(ctx, id, spots)
	s.observe("departure", "release", id, spots, err)
	return d, err
}

func (s *BookingService) ReserveShift(ctx context.Context, id uuid.UUID, spots int) (domain.Shift, error) {
	sh, err := s.store.ReserveShift(ctx, id, spots)
	s.observe("shift", "reserve", id, spots, err)
	if err == nil && sh.Status == domain.ShiftFull {
		log.Info().Str("shift_id", id.String()).Msg("shift is now full")
	}
	return sh, err
}

func (s *BookingService) ReleaseShift(ctx context.Context, id uuid.UUID, spots int) (domain.Shift, error) {
	sh, err := s.store.ReleaseShift(ctx, id, spots)
	s.observe("shift", "release", id, spots, err)
	return sh, err
}

func (s *BookingService) observe(kind, op string, id uuid.UUID, spots int, err error) {
	observability.ObserveCapacity(kind, op, outcome(err))
	ev := log.Info()
	switch {
	case err == nil:
		ev = log.Debug()
	case outcome(err) == "error":
		ev = log.Error()
	}
	ev.Err(err).Str("kind", kind).Str("op", op).Str("id", id.String()).Int("spots", spots).Msg("capacity change")
}
