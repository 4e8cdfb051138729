package domain

import "github.com/google/uuid"

// ChildGuest is one child on a booking.
type ChildGuest struct {
	Age     float64 `json:"age" validate:"gte=0,lt=18"`
	BedType BedType `json:"bed_type,omitempty" validate:"omitempty,oneof=any separate shared extra"`
}

// QuoteRequest carries both request shapes; PackageType decides which fields apply.
//
//	FIXED:      apartment_id, check_in, check_out, shift_id?, include_transport, number_of_persons
//	ON_REQUEST: room_type_id, check_in, check_out, meal_plan, adults, children
type QuoteRequest struct {
	CheckIn  Date `json:"check_in"`
	CheckOut Date `json:"check_out"`

	ApartmentID      uuid.UUID  `json:"apartment_id,omitempty"`
	ShiftID          *uuid.UUID `json:"shift_id,omitempty"`
	IncludeTransport bool       `json:"include_transport,omitempty"`
	NumberOfPersons  int        `json:"number_of_persons,omitempty"`
	DepartureCity    string     `json:"departure_city,omitempty"`

	RoomTypeID uuid.UUID    `json:"room_type_id,omitempty"`
	MealPlan   MealPlan     `json:"meal_plan,omitempty"`
	Adults     int          `json:"adults,omitempty"`
	Children   []ChildGuest `json:"children,omitempty"`
}

type BreakdownItem struct {
	Description string `json:"description"`
	Subtotal    Money  `json:"subtotal"`
}

type PriceCalculationResult struct {
	Total              Money           `json:"total"`
	AccommodationTotal Money           `json:"accommodation_total"`
	Nights             int             `json:"nights"`
	PricePerNight      Money           `json:"price_per_night"`
	TransportTotal     Money           `json:"transport_total"`
	Breakdown          []BreakdownItem `json:"breakdown"`
}

// BatchQuoteRequest prices one party across many packages, letting each
// package pick its best-fitting unit.
type BatchQuoteRequest struct {
	PackageIDs []uuid.UUID  `json:"package_ids"`
	CheckIn    Date         `json:"check_in"`
	CheckOut   Date         `json:"check_out"`
	Adults     int          `json:"adults"`
	Children   []ChildGuest `json:"children"`
}

type PackageQuote struct {
	PackageID uuid.UUID `json:"package_id"`
	Total     *Money    `json:"total"`
	PerPerson *Money    `json:"per_person"`
	Error     string    `json:"error,omitempty"`
}
