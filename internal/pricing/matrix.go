package pricing

import (
	"fmt"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

// ApartmentNightly returns the whole-unit price per night for a FIXED package.
func ApartmentNightly(iv domain.PriceInterval, apartmentID uuid.UUID) (domain.Money, error) {
	p, ok := iv.ApartmentPrices[apartmentID]
	if !ok {
		return 0, fmt.Errorf("%w: apartment %s in %q", domain.ErrNotPriced, apartmentID, iv.Label())
	}
	return p, nil
}

// HotelPerPerson returns the per-person price for the entire stay of an
// ON_REQUEST package. The value already includes all nights.
func HotelPerPerson(iv domain.PriceInterval, roomTypeID uuid.UUID, mp domain.MealPlan) (domain.Money, error) {
	byMeal, ok := iv.HotelPrices[roomTypeID]
	if !ok {
		return 0, fmt.Errorf("%w: room type %s in %q", domain.ErrNotPriced, roomTypeID, iv.Label())
	}
	p, ok := byMeal[mp]
	if !ok {
		return 0, fmt.Errorf("%w: room type %s meal plan %s in %q", domain.ErrNotPriced, roomTypeID, mp, iv.Label())
	}
	return p, nil
}
