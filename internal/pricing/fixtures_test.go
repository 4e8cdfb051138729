package pricing_test

import (
	"time"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

func day(m time.Month, d int) domain.Date { return domain.NewDate(2026, m, d) }

func ptr[T any](v T) *T { return &v }

var (
	aptStudio = domain.Apartment{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Studio A1", MaxPersons: 4, TotalUnits: 3}
	aptVilla  = domain.Apartment{ID: uuid.MustParse("11111111-1111-1111-1111-222222222222"), Name: "Villa", MaxPersons: 8, TotalUnits: 1}

	roomDouble = domain.RoomType{ID: uuid.MustParse("22222222-2222-2222-2222-111111111111"), Code: "1/2", Name: "Double", MaxPersons: 3}
	roomFamily = domain.RoomType{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Code: "1/4", Name: "Family", MaxPersons: 5}
)

func fixedPackage() domain.Package {
	return domain.Package{
		ID:   uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		Name: "Pefkohori apartments",
		Type: domain.PackageFixed,
		Intervals: []domain.PriceInterval{
			{
				ID: uuid.New(), Name: "June", Start: day(time.June, 1), End: day(time.June, 30),
				ApartmentPrices: map[uuid.UUID]domain.Money{aptStudio.ID: domain.Euros(120)},
			},
			{
				ID: uuid.New(), Name: "July", Start: day(time.July, 1), End: day(time.July, 31),
				ApartmentPrices: map[uuid.UUID]domain.Money{aptStudio.ID: domain.Euros(150), aptVilla.ID: domain.Euros(0)},
			},
		},
		Apartments: []domain.Apartment{aptStudio, aptVilla},
	}
}

func hotelPackage() domain.Package {
	return domain.Package{
		ID:        uuid.MustParse("44444444-4444-4444-4444-444444444444"),
		Name:      "Hotel Sithonia",
		Type:      domain.PackageOnRequest,
		MealPlans: []domain.MealPlan{domain.MealBreakfast, domain.MealHalfBoard},
		Intervals: []domain.PriceInterval{
			{
				ID: uuid.New(), Name: "Early summer", Start: day(time.June, 1), End: day(time.June, 30),
				HotelPrices: map[uuid.UUID]map[domain.MealPlan]domain.Money{
					roomDouble.ID: {domain.MealBreakfast: domain.Euros(45), domain.MealHalfBoard: domain.Euros(60)},
					roomFamily.ID: {domain.MealBreakfast: domain.Euros(40)},
				},
			},
		},
		RoomTypes: []domain.RoomType{roomDouble, roomFamily},
		ChildrenRules: []domain.ChildrenPolicyRule{
			{Name: "Infant", AgeFrom: 0, AgeTo: 1.99, DiscountType: domain.DiscountFree},
			{Name: "Child", AgeFrom: 2, AgeTo: 11.99, DiscountType: domain.DiscountPercent, DiscountValue: 50},
		},
	}
}
