package pricing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

// QuoteInputs are collaborator values resolved by the caller before pricing.
type QuoteInputs struct {
	// Transport is the rate used when a FIXED request includes transport.
	// Nil means the package defines no transport price.
	Transport *domain.TransportRate
}

// Calculate prices req against pkg. It reads nothing but its arguments, so
// identical inputs always give identical results.
func Calculate(pkg domain.Package, req domain.QuoteRequest, in QuoteInputs) (domain.PriceCalculationResult, error) {
	switch pkg.Type {
	case domain.PackageFixed:
		return calculateFixed(pkg, req, in)
	case domain.PackageOnRequest:
		return calculateOnRequest(pkg, req)
	default:
		return domain.PriceCalculationResult{}, fmt.Errorf("%w: unknown package type %q", domain.ErrWrongPackageType, pkg.Type)
	}
}

func calculateFixed(pkg domain.Package, req domain.QuoteRequest, in QuoteInputs) (domain.PriceCalculationResult, error) {
	var res domain.PriceCalculationResult
	if req.ApartmentID == uuid.Nil {
		return res, fmt.Errorf("%w: apartment_id is required for %s packages", domain.ErrWrongPackageType, pkg.Type)
	}
	apt, ok := pkg.Apartment(req.ApartmentID)
	if !ok {
		return res, fmt.Errorf("apartment %s: %w", req.ApartmentID, domain.ErrNotFound)
	}
	persons := req.NumberOfPersons
	if persons < 1 || persons > apt.MaxPersons {
		return res, fmt.Errorf("%w: %d persons, apartment %q takes %d", domain.ErrInvalidOccupancy, persons, apt.Name, apt.MaxPersons)
	}
	if len(req.Children) > persons {
		return res, fmt.Errorf("%w: %d children among %d persons", domain.ErrInvalidOccupancy, len(req.Children), persons)
	}

	iv, err := Resolve(pkg.Intervals, req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}
	nightly, err := ApartmentNightly(iv, apt.ID)
	if err != nil {
		return res, err
	}
	nights := req.CheckIn.DaysUntil(req.CheckOut)

	res.Nights = nights
	res.PricePerNight = nightly
	res.AccommodationTotal = nightly.Mul(nights)
	res.Breakdown = append(res.Breakdown, domain.BreakdownItem{
		Description: fmt.Sprintf("%s (%s) - %d %s × €%s", apt.Name, iv.Label(), nights, plural(nights, "night", "nights"), nightly),
		Subtotal:    res.AccommodationTotal,
	})

	if req.IncludeTransport && in.Transport != nil {
		line := transportLine(*in.Transport, persons, req.Children)
		res.TransportTotal = line.Subtotal
		res.Breakdown = append(res.Breakdown, line)
	}
	res.Total = res.AccommodationTotal + res.TransportTotal
	return res, nil
}

// transportLine charges adults the per-person rate and each child the child
// rate when the child is under the rate's age limit.
func transportLine(rate domain.TransportRate, persons int, children []domain.ChildGuest) domain.BreakdownItem {
	adults := persons - len(children)
	total := rate.PerPerson.Mul(adults)
	full, reduced := adults, 0
	for _, c := range children {
		p := rate.PriceFor(c.Age)
		total += p
		if rate.ChildPrice != nil && p == *rate.ChildPrice && p != rate.PerPerson {
			reduced++
		} else {
			full++
		}
	}
	desc := fmt.Sprintf("Transport - %d %s × €%s", full, plural(full, "person", "persons"), rate.PerPerson)
	if reduced > 0 {
		desc += fmt.Sprintf(" + %d %s × €%s", reduced, plural(reduced, "child", "children"), *rate.ChildPrice)
	}
	return domain.BreakdownItem{Description: desc, Subtotal: total}
}

func calculateOnRequest(pkg domain.Package, req domain.QuoteRequest) (domain.PriceCalculationResult, error) {
	var res domain.PriceCalculationResult
	if req.RoomTypeID == uuid.Nil || req.MealPlan == "" {
		return res, fmt.Errorf("%w: room_type_id and meal_plan are required for %s packages", domain.ErrWrongPackageType, pkg.Type)
	}
	rt, ok := pkg.RoomType(req.RoomTypeID)
	if !ok {
		return res, fmt.Errorf("room type %s: %w", req.RoomTypeID, domain.ErrNotFound)
	}
	if len(pkg.MealPlans) > 0 && !pkg.OffersMealPlan(req.MealPlan) {
		return res, fmt.Errorf("%w: %s", domain.ErrMealPlanNotOffered, req.MealPlan)
	}
	if req.Adults < 1 || req.Adults+len(req.Children) > rt.MaxPersons {
		return res, fmt.Errorf("%w: %d adults + %d children, room %s takes %d",
			domain.ErrInvalidOccupancy, req.Adults, len(req.Children), rt.Code, rt.MaxPersons)
	}

	iv, err := Resolve(pkg.Intervals, req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}
	perPerson, err := HotelPerPerson(iv, rt.ID, req.MealPlan)
	if err != nil {
		return res, err
	}
	nights := req.CheckIn.DaysUntil(req.CheckOut)

	adultsSubtotal := perPerson.Mul(req.Adults)
	res.Breakdown = append(res.Breakdown, domain.BreakdownItem{
		Description: fmt.Sprintf("%s %s (%s, %s) - %d %s × €%s",
			rt.Name, rt.Code, req.MealPlan, iv.Label(), req.Adults, plural(req.Adults, "adult", "adults"), perPerson),
		Subtotal: adultsSubtotal,
	})
	total := adultsSubtotal

	for i, c := range OrderChildren(req.Children) {
		ctx := ChildContext{Age: c.Age, Position: i + 1, RoomCode: rt.Code, BedType: c.BedType, Adults: req.Adults}
		price, rule := PriceChild(pkg.ChildrenRules, ctx, perPerson)
		total += price
		res.Breakdown = append(res.Breakdown, domain.BreakdownItem{
			Description: fmt.Sprintf("Child %d (%g yrs) %s - €%s", i+1, c.Age, describeDiscount(rule), price),
			Subtotal:    price,
		})
	}

	res.Nights = nights
	res.AccommodationTotal = total
	res.PricePerNight = total.Div(nights)
	res.Total = total
	return res, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// PartySize is adults plus children, used by best-unit selection.
func PartySize(adults int, children []domain.ChildGuest) int { return adults + len(children) }

// BestRoomType returns the smallest room type that fits persons. Ties keep list order.
func BestRoomType(rts []domain.RoomType, persons int) (domain.RoomType, bool) {
	var best domain.RoomType
	found := false
	for _, rt := range rts {
		if rt.MaxPersons >= persons && (!found || rt.MaxPersons < best.MaxPersons) {
			best, found = rt, true
		}
	}
	return best, found
}

// BestApartment returns the smallest apartment that fits persons. Ties keep list order.
func BestApartment(apts []domain.Apartment, persons int) (domain.Apartment, bool) {
	var best domain.Apartment
	found := false
	for _, a := range apts {
		if a.MaxPersons >= persons && (!found || a.MaxPersons < best.MaxPersons) {
			best, found = a, true
		}
	}
	return best, found
}

// DefaultMealPlan is the first plan the package offers, all-inclusive when none is listed.
func DefaultMealPlan(pkg domain.Package) domain.MealPlan {
	if len(pkg.MealPlans) > 0 {
		return pkg.MealPlans[0]
	}
	return domain.MealAllInclusive
}

// SpanNote describes a stay crossing interval boundaries, empty when it does not.
func SpanNote(pkg domain.Package, checkIn, checkOut domain.Date) string {
	cov := Covering(pkg.Intervals, checkIn, checkOut)
	if len(cov) < 2 {
		return ""
	}
	names := make([]string, len(cov))
	for i, iv := range cov {
		names[i] = iv.Label()
	}
	return strings.Join(names, ", ")
}
