// Package schedule generates shift rotations and weekly departures for FIXED packages.
package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

type ShiftPlan struct {
	PackageID     uuid.UUID
	Start, End    domain.Date
	Nights        int
	Capacity      int
	TransportFare *domain.Money
}

func (p ShiftPlan) validate() error {
	if p.Nights < 1 || p.Capacity < 1 {
		return fmt.Errorf("%w: nights=%d capacity=%d", domain.ErrInvalidQuantity, p.Nights, p.Capacity)
	}
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s..%s", domain.ErrInvalidStay, p.Start, p.End)
	}
	return nil
}

// GenerateShifts lays back-to-back windows of Nights nights from Start,
// dropping a trailing window that would run past End.
func GenerateShifts(p ShiftPlan) ([]domain.Shift, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	var out []domain.Shift
	for cur, n := p.Start, 1; cur.Before(p.End); n++ {
		next := cur.AddDays(p.Nights)
		if next.After(p.End) {
			break
		}
		out = append(out, domain.Shift{
			ID:                      uuid.New(),
			PackageID:               p.PackageID,
			Name:                    fmt.Sprintf("Shift %d", n),
			Start:                   cur,
			End:                     next,
			TransportPricePerPerson: p.TransportFare,
			TotalSpots:              p.Capacity,
			AvailableSpots:          p.Capacity,
			Status:                  domain.ShiftActive,
		})
		cur = next
	}
	return out, nil
}

type DeparturePlan struct {
	PackageID  uuid.UUID
	Start, End domain.Date
	Weekdays   []time.Weekday // empty means every day
	Nights     int
	Capacity   int
}

// GenerateDepartures creates one departure per matching day in [Start, End].
func GenerateDepartures(p DeparturePlan) ([]domain.Departure, error) {
	if p.Nights < 1 || p.Capacity < 1 {
		return nil, fmt.Errorf("%w: nights=%d capacity=%d", domain.ErrInvalidQuantity, p.Nights, p.Capacity)
	}
	if p.End.Before(p.Start) {
		return nil, fmt.Errorf("%w: %s..%s", domain.ErrInvalidStay, p.Start, p.End)
	}
	var out []domain.Departure
	for d := p.Start; !d.After(p.End); d = d.AddDays(1) {
		if len(p.Weekdays) > 0 && !slices.Contains(p.Weekdays, d.Weekday()) {
			continue
		}
		out = append(out, domain.Departure{
			ID:             uuid.New(),
			PackageID:      p.PackageID,
			DepartureDate:  d,
			ReturnDate:     d.AddDays(p.Nights),
			TotalSpots:     p.Capacity,
			AvailableSpots: p.Capacity,
		})
	}
	return out, nil
}
