package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type ShiftStatus string

const (
	ShiftActive    ShiftStatus = "active"
	ShiftFull      ShiftStatus = "full"
	ShiftCancelled ShiftStatus = "cancelled"
)

// Departure is a single scheduled date pair with its own seat capacity.
type Departure struct {
	ID             uuid.UUID `json:"id"`
	PackageID      uuid.UUID `json:"package_id"`
	DepartureDate  Date      `json:"departure_date"`
	ReturnDate     Date      `json:"return_date"`
	TotalSpots     int       `json:"total_spots"`
	AvailableSpots int       `json:"available_spots"`
}

// Reserve takes n spots. It never leaves AvailableSpots negative.
func (d *Departure) Reserve(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, n)
	}
	if d.AvailableSpots < n {
		return fmt.Errorf("%w: departure %s has %d, requested %d", ErrInsufficientCapacity, d.ID, d.AvailableSpots, n)
	}
	d.AvailableSpots -= n
	return nil
}

// Release returns n spots, clamped at TotalSpots.
func (d *Departure) Release(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, n)
	}
	d.AvailableSpots = min(d.TotalSpots, d.AvailableSpots+n)
	return nil
}

// Shift is a group rotation window with capacity and its own transport price.
type Shift struct {
	ID                      uuid.UUID   `json:"id"`
	PackageID               uuid.UUID   `json:"package_id"`
	Name                    string      `json:"name,omitempty"`
	Start                   Date        `json:"start_date"`
	End                     Date        `json:"end_date"`
	TransportPricePerPerson *Money      `json:"transport_price_per_person,omitempty"`
	TotalSpots              int         `json:"total_spots"`
	AvailableSpots          int         `json:"available_spots"`
	Booked                  int         `json:"booked"`
	Status                  ShiftStatus `json:"status"`
}

func (s *Shift) Reserve(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, n)
	}
	if s.Status == ShiftCancelled {
		return fmt.Errorf("%w: %s", ErrShiftCancelled, s.ID)
	}
	if s.AvailableSpots < n {
		return fmt.Errorf("%w: shift %s has %d, requested %d", ErrInsufficientCapacity, s.ID, s.AvailableSpots, n)
	}
	s.AvailableSpots -= n
	s.Booked += n
	if s.AvailableSpots == 0 {
		s.Status = ShiftFull
	}
	return nil
}

func (s *Shift) Release(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, n)
	}
	s.AvailableSpots = min(s.TotalSpots, s.AvailableSpots+n)
	s.Booked = max(0, s.Booked-n)
	if s.Status == ShiftFull && s.AvailableSpots > 0 {
		s.Status = ShiftActive
	}
	return nil
}
