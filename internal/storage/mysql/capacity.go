package mysql

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

func (r *Repo) ReserveDeparture(ctx context.Context, id uuid.UUID, n int) (domain.Departure, error) {
	if n <= 0 {
		return domain.Departure{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, n)
	}
	res, err := r.db.ExecContext(ctx, reserveDepartureSQL, n, id, n)
	if err != nil {
		return domain.Departure{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Departure{}, err
	}
	d, err := r.GetDeparture(ctx, id)
	if err != nil {
		return domain.Departure{}, err
	}
	if affected == 0 {
		return d, fmt.Errorf("%w: departure %s has %d, requested %d",
			domain.ErrInsufficientCapacity, id, d.AvailableSpots, n)
	}
	return d, nil
}

// ReleaseDeparture never fails on a full counter: the update clamps at
// total_spots, so zero affected rows only means nothing changed.
func (r *Repo) ReleaseDeparture(ctx context.Context, id uuid.UUID, n int) (domain.Departure, error) {
	if n <= 0 {
		return domain.Departure{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, n)
	}
	if _, err := r.db.ExecContext(ctx, releaseDepartureSQL, n, id); err != nil {
		return domain.Departure{}, err
	}
	return r.GetDeparture(ctx, id)
}

func (r *Repo) ReserveShift(ctx context.Context, id uuid.UUID, n int) (domain.Shift, error) {
	if n <= 0 {
		return domain.Shift{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, n)
	}
	res, err := r.db.ExecContext(ctx, reserveShiftSQL, n, n, id, n)
	if err != nil {
		return domain.Shift{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Shift{}, err
	}
	s, err := r.GetShift(ctx, id)
	if err != nil {
		return domain.Shift{}, err
	}
	if affected == 0 {
		if s.Status == domain.ShiftCancelled {
			return s, fmt.Errorf("%w: %s", domain.ErrShiftCancelled, id)
		}
		return s, fmt.Errorf("%w: shift %s has %d, requested %d",
			domain.ErrInsufficientCapacity, id, s.AvailableSpots, n)
	}
	return s, nil
}

func (r *Repo) ReleaseShift(ctx context.Context, id uuid.UUID, n int) (domain.Shift, error) {
	if n <= 0 {
		return domain.Shift{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, n)
	}
	if _, err := r.db.ExecContext(ctx, releaseShiftSQL, n, n, id); err != nil {
		return domain.Shift{}, err
	}
	return r.GetShift(ctx, id)
}
