package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour_backoffice/internal/domain"
)

func TestDeparture_ReserveRelease(t *testing.T) {
	d := domain.Departure{TotalSpots: 40, AvailableSpots: 3}

	require.NoError(t, d.Reserve(2))
	assert.Equal(t, 1, d.AvailableSpots)

	err := d.Reserve(2)
	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
	assert.Equal(t, 1, d.AvailableSpots, "failed reserve must not change availability")

	require.NoError(t, d.Release(100))
	assert.Equal(t, 40, d.AvailableSpots, "release clamps at total")

	assert.ErrorIs(t, d.Reserve(0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, d.Release(-1), domain.ErrInvalidQuantity)
}

func TestShift_ReserveFlipsStatus(t *testing.T) {
	s := domain.Shift{TotalSpots: 4, AvailableSpots: 2, Booked: 2, Status: domain.ShiftActive}

	require.NoError(t, s.Reserve(2))
	assert.Equal(t, 0, s.AvailableSpots)
	assert.Equal(t, 4, s.Booked)
	assert.Equal(t, domain.ShiftFull, s.Status)

	assert.ErrorIs(t, s.Reserve(1), domain.ErrInsufficientCapacity)

	require.NoError(t, s.Release(1))
	assert.Equal(t, 1, s.AvailableSpots)
	assert.Equal(t, 3, s.Booked)
	assert.Equal(t, domain.ShiftActive, s.Status)
}

func TestShift_CancelledRejectsReserve(t *testing.T) {
	s := domain.Shift{TotalSpots: 10, AvailableSpots: 10, Status: domain.ShiftCancelled}
	err := s.Reserve(1)
	assert.ErrorIs(t, err, domain.ErrShiftCancelled)
	assert.True(t, domain.IsCapacityError(err))
	assert.False(t, domain.IsConfigurationError(err))
}
