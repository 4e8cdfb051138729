package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type PackageType string

const (
	PackageFixed     PackageType = "FIXED"
	PackageOnRequest PackageType = "ON_REQUEST"
)

func (t PackageType) Valid() bool { return t == PackageFixed || t == PackageOnRequest }

// MealPlan is a board basis code.
type MealPlan string

const (
	MealRoomOnly     MealPlan = "ND"
	MealBreakfast    MealPlan = "BB"
	MealHalfBoard    MealPlan = "HB"
	MealFullBoard    MealPlan = "FB"
	MealAllInclusive MealPlan = "AI"
)

var MealPlans = []MealPlan{MealRoomOnly, MealBreakfast, MealHalfBoard, MealFullBoard, MealAllInclusive}

func ParseMealPlan(s string) (MealPlan, error) {
	mp := MealPlan(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range MealPlans {
		if v == mp {
			return mp, nil
		}
	}
	return "", fmt.Errorf("unknown meal plan %q", s)
}

type Package struct {
	ID                      uuid.UUID            `json:"id"`
	Name                    string               `json:"name"`
	Type                    PackageType          `json:"package_type"`
	MealPlans               []MealPlan           `json:"meal_plans,omitempty"`
	TransportType           string               `json:"transport_type,omitempty"`
	TransportPriceFixed     bool                 `json:"transport_price_fixed"`
	TransportPricePerPerson *Money               `json:"transport_price_per_person,omitempty"`
	TransportPriceListID    *string              `json:"transport_price_list_id,omitempty"`
	Intervals               []PriceInterval      `json:"price_intervals"`
	Apartments              []Apartment          `json:"apartments,omitempty"`
	RoomTypes               []RoomType           `json:"room_types,omitempty"`
	ChildrenRules           []ChildrenPolicyRule `json:"children_policy_rules,omitempty"`
}

func (p Package) OffersMealPlan(mp MealPlan) bool {
	for _, v := range p.MealPlans {
		if v == mp {
			return true
		}
	}
	return false
}

func (p Package) Apartment(id uuid.UUID) (Apartment, bool) {
	for _, a := range p.Apartments {
		if a.ID == id {
			return a, true
		}
	}
	return Apartment{}, false
}

func (p Package) RoomType(id uuid.UUID) (RoomType, bool) {
	for _, rt := range p.RoomTypes {
		if rt.ID == id {
			return rt, true
		}
	}
	return RoomType{}, false
}

// PriceInterval is a closed date range with its price matrix.
// FIXED packages fill ApartmentPrices (per night, whole unit);
// ON_REQUEST packages fill HotelPrices (per person, whole stay).
type PriceInterval struct {
	ID              uuid.UUID                        `json:"id"`
	Name            string                           `json:"name,omitempty"`
	Start           Date                             `json:"start_date"`
	End             Date                             `json:"end_date"`
	ApartmentPrices map[uuid.UUID]Money              `json:"apartment_prices,omitempty"`
	HotelPrices     map[uuid.UUID]map[MealPlan]Money `json:"hotel_prices,omitempty"`
}

// Contains reports whether d falls inside the closed range.
func (i PriceInterval) Contains(d Date) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}

func (i PriceInterval) Label() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Start.String() + ".." + i.End.String()
}

type Apartment struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	MaxPersons int       `json:"max_persons"`
	TotalUnits int       `json:"total_units"`
}

type RoomType struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"` // 1/2, 1/3, 1/2+1 ...
	Name       string    `json:"name"`
	MaxPersons int       `json:"max_persons"`
}
