package pricing_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour_backoffice/internal/domain"
	"tour_backoffice/internal/pricing"
)

func TestCalculate_FixedIgnoresOccupancy(t *testing.T) {
	pkg := fixedPackage()
	for _, persons := range []int{2, 4} {
		res, err := pricing.Calculate(pkg, domain.QuoteRequest{
			ApartmentID: aptStudio.ID, CheckIn: day(time.June, 6), CheckOut: day(time.June, 13), NumberOfPersons: persons,
		}, pricing.QuoteInputs{})
		require.NoError(t, err)
		assert.Equal(t, 7, res.Nights)
		assert.Equal(t, domain.Euros(120), res.PricePerNight)
		assert.Equal(t, domain.Euros(840), res.AccommodationTotal)
		assert.Equal(t, domain.Euros(840), res.Total)
		assert.Equal(t, domain.Money(0), res.TransportTotal)
		require.Len(t, res.Breakdown, 1)
		assert.Equal(t, "Studio A1 (June) - 7 nights × €120.00", res.Breakdown[0].Description)
	}
}

func TestCalculate_FixedTransport(t *testing.T) {
	pkg := fixedPackage()
	rate := &domain.TransportRate{Source: "shift", PerPerson: domain.Euros(30), ChildPrice: ptr(domain.Euros(15)), ChildAgeLimit: 12}
	res, err := pricing.Calculate(pkg, domain.QuoteRequest{
		ApartmentID: aptStudio.ID, CheckIn: day(time.June, 6), CheckOut: day(time.June, 13),
		NumberOfPersons: 4, IncludeTransport: true,
		Children: []domain.ChildGuest{{Age: 5}, {Age: 14}},
	}, pricing.QuoteInputs{Transport: rate})
	require.NoError(t, err)

	// 2 adults + the 14 year old at 30, the 5 year old at 15
	assert.Equal(t, domain.Euros(105), res.TransportTotal)
	assert.Equal(t, domain.Euros(945), res.Total)
	require.Len(t, res.Breakdown, 2)
	assert.Equal(t, "Transport - 3 persons × €30.00 + 1 child × €15.00", res.Breakdown[1].Description)

	// transport requested but not configured: no line
	res, err = pricing.Calculate(pkg, domain.QuoteRequest{
		ApartmentID: aptStudio.ID, CheckIn: day(time.June, 6), CheckOut: day(time.June, 13), NumberOfPersons: 2, IncludeTransport: true,
	}, pricing.QuoteInputs{})
	require.NoError(t, err)
	assert.Len(t, res.Breakdown, 1)
	assert.Equal(t, domain.Euros(840), res.Total)
}

func TestCalculate_FixedZeroPriceIsValid(t *testing.T) {
	res, err := pricing.Calculate(fixedPackage(), domain.QuoteRequest{
		ApartmentID: aptVilla.ID, CheckIn: day(time.July, 1), CheckOut: day(time.July, 3), NumberOfPersons: 6,
	}, pricing.QuoteInputs{})
	require.NoError(t, err)
	assert.Equal(t, domain.Money(0), res.Total)
}

func TestCalculate_FixedErrors(t *testing.T) {
	pkg := fixedPackage()
	base := domain.QuoteRequest{ApartmentID: aptStudio.ID, CheckIn: day(time.June, 6), CheckOut: day(time.June, 13), NumberOfPersons: 2}

	req := base
	req.NumberOfPersons = 5
	_, err := pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrInvalidOccupancy)

	req = base
	req.CheckIn, req.CheckOut = day(time.May, 1), day(time.May, 8)
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrNoIntervalDefined)

	req = base
	req.ApartmentID = aptVilla.ID // no June price for the villa
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrNotPriced)
	assert.True(t, domain.IsConfigurationError(err))

	req = base
	req.ApartmentID = uuid.New()
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req = base
	req.ApartmentID = uuid.Nil
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrWrongPackageType)
}

func TestCalculate_OnRequest(t *testing.T) {
	res, err := pricing.Calculate(hotelPackage(), domain.QuoteRequest{
		RoomTypeID: roomDouble.ID, MealPlan: domain.MealBreakfast,
		CheckIn: day(time.June, 10), CheckOut: day(time.June, 17),
		Adults: 2, Children: []domain.ChildGuest{{Age: 5}},
	}, pricing.QuoteInputs{})
	require.NoError(t, err)

	assert.Equal(t, domain.Euros(112.5), res.Total)
	assert.Equal(t, domain.Euros(112.5), res.AccommodationTotal)
	assert.Equal(t, 7, res.Nights)
	assert.Equal(t, domain.Euros(16.07), res.PricePerNight)
	assert.Equal(t, domain.Money(0), res.TransportTotal)
	assert.Equal(t, []domain.BreakdownItem{
		{Description: "Double 1/2 (BB, Early summer) - 2 adults × €45.00", Subtotal: domain.Euros(90)},
		{Description: "Child 1 (5 yrs) -50% - €22.50", Subtotal: domain.Euros(22.5)},
	}, res.Breakdown)
}

func TestCalculate_OnRequestChildLinesOldestFirst(t *testing.T) {
	res, err := pricing.Calculate(hotelPackage(), domain.QuoteRequest{
		RoomTypeID: roomFamily.ID, MealPlan: domain.MealBreakfast,
		CheckIn: day(time.June, 10), CheckOut: day(time.June, 17),
		Adults: 2, Children: []domain.ChildGuest{{Age: 1}, {Age: 12}, {Age: 7}},
	}, pricing.QuoteInputs{})
	require.NoError(t, err)

	require.Len(t, res.Breakdown, 4)
	assert.Equal(t, "Child 1 (12 yrs) full price - €40.00", res.Breakdown[1].Description)
	assert.Equal(t, "Child 2 (7 yrs) -50% - €20.00", res.Breakdown[2].Description)
	assert.Equal(t, "Child 3 (1 yrs) free - €0.00", res.Breakdown[3].Description)
	assert.Equal(t, domain.Euros(80+40+20), res.Total)
}

func TestCalculate_OnRequestErrors(t *testing.T) {
	pkg := hotelPackage()
	base := domain.QuoteRequest{
		RoomTypeID: roomDouble.ID, MealPlan: domain.MealBreakfast,
		CheckIn: day(time.June, 10), CheckOut: day(time.June, 17), Adults: 2,
	}

	req := base
	req.Children = []domain.ChildGuest{{Age: 3}, {Age: 4}}
	_, err := pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrInvalidOccupancy)

	req = base
	req.Adults = 0
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrInvalidOccupancy)

	req = base
	req.MealPlan = domain.MealAllInclusive
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrMealPlanNotOffered)

	req = base
	req.RoomTypeID = roomFamily.ID
	req.MealPlan = domain.MealHalfBoard
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrNotPriced)

	req = base
	req.CheckIn, req.CheckOut = day(time.July, 1), day(time.July, 8)
	_, err = pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	assert.ErrorIs(t, err, domain.ErrNoIntervalDefined)
}

func TestCalculate_Idempotent(t *testing.T) {
	req := domain.QuoteRequest{
		RoomTypeID: roomFamily.ID, MealPlan: domain.MealBreakfast,
		CheckIn: day(time.June, 10), CheckOut: day(time.June, 17),
		Adults: 2, Children: []domain.ChildGuest{{Age: 1}, {Age: 7}},
	}
	a, err := pricing.Calculate(hotelPackage(), req, pricing.QuoteInputs{})
	require.NoError(t, err)
	b, err := pricing.Calculate(hotelPackage(), req, pricing.QuoteInputs{})
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, string(ja), string(jb))
}

func TestBestUnitSelection(t *testing.T) {
	pkg := hotelPackage()
	rt, ok := pricing.BestRoomType(pkg.RoomTypes, 2)
	require.True(t, ok)
	assert.Equal(t, roomDouble.ID, rt.ID)

	rt, ok = pricing.BestRoomType(pkg.RoomTypes, 4)
	require.True(t, ok)
	assert.Equal(t, roomFamily.ID, rt.ID)

	_, ok = pricing.BestRoomType(pkg.RoomTypes, 6)
	assert.False(t, ok)

	apt, ok := pricing.BestApartment(fixedPackage().Apartments, 5)
	require.True(t, ok)
	assert.Equal(t, aptVilla.ID, apt.ID)

	assert.Equal(t, domain.MealBreakfast, pricing.DefaultMealPlan(pkg))
	assert.Equal(t, domain.MealAllInclusive, pricing.DefaultMealPlan(fixedPackage()))
}

func TestValidateReport(t *testing.T) {
	rep := pricing.Validate(hotelPackage())
	assert.True(t, rep.OK())
	assert.Equal(t, []string{`"Early summer": no HB price for room 1/4`}, rep.Warnings)

	pkg := fixedPackage()
	pkg.Intervals = append(pkg.Intervals, domain.PriceInterval{Name: "Overlap", Start: day(time.June, 15), End: day(time.July, 10)})
	rep = pricing.Validate(pkg)
	assert.False(t, rep.OK())
	assert.Contains(t, rep.Errors[0], "overlap")
}
