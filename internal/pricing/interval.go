// Package pricing resolves dated prices, evaluates children policy rules and
// assembles itemized quotes. Everything here is pure: no I/O and no clock.
package pricing

import (
	"fmt"

	"tour_backoffice/internal/domain"
)

// Resolve picks the interval whose rate prices the stay [checkIn, checkOut).
// An interval covering the whole stay wins; otherwise the interval holding
// checkIn is used for every night (no proration across boundaries).
func Resolve(intervals []domain.PriceInterval, checkIn, checkOut domain.Date) (domain.PriceInterval, error) {
	if !checkIn.Before(checkOut) {
		return domain.PriceInterval{}, fmt.Errorf("%w: %s..%s", domain.ErrInvalidStay, checkIn, checkOut)
	}
	lastNight := checkOut.AddDays(-1)
	for _, iv := range intervals {
		if iv.Contains(checkIn) && iv.Contains(lastNight) {
			return iv, nil
		}
	}
	for _, iv := range intervals {
		if iv.Contains(checkIn) {
			return iv, nil
		}
	}
	return domain.PriceInterval{}, fmt.Errorf("%w: %s", domain.ErrNoIntervalDefined, checkIn)
}

// Covering returns, in input order, every interval holding at least one night of the stay.
func Covering(intervals []domain.PriceInterval, checkIn, checkOut domain.Date) []domain.PriceInterval {
	if !checkIn.Before(checkOut) {
		return nil
	}
	lastNight := checkOut.AddDays(-1)
	var out []domain.PriceInterval
	for _, iv := range intervals {
		if !iv.Start.After(lastNight) && !checkIn.After(iv.End) {
			out = append(out, iv)
		}
	}
	return out
}

// Overlaps reports whether two closed ranges share a day.
func Overlaps(a, b domain.PriceInterval) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// ValidateIntervals is the authoring-time check: every range is well formed
// and no two ranges of a package overlap.
func ValidateIntervals(intervals []domain.PriceInterval) error {
	for _, iv := range intervals {
		if iv.End.Before(iv.Start) {
			return fmt.Errorf("%w: %q ends before it starts", domain.ErrIntervalOverlap, iv.Label())
		}
	}
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			if Overlaps(intervals[i], intervals[j]) {
				return fmt.Errorf("%w: %q and %q", domain.ErrIntervalOverlap, intervals[i].Label(), intervals[j].Label())
			}
		}
	}
	return nil
}
