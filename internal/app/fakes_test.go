package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

func day(m time.Month, d int) domain.Date { return domain.NewDate(2026, m, d) }

func ptr[T any](v T) *T { return &v }

// ---- fakes ----

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	hits  int
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels++
	delete(c.store, key)
	return nil
}

// countingRepo counts GetPackage calls on top of an embedded repository.
type countingRepo struct {
	domain.PackageRepository
	mu    sync.Mutex
	loads int
}

func (r *countingRepo) GetPackage(ctx context.Context, id uuid.UUID) (domain.Package, error) {
	r.mu.Lock()
	r.loads++
	r.mu.Unlock()
	return r.PackageRepository.GetPackage(ctx, id)
}

type fakeSupplier struct {
	lists  map[string]map[string]any
	prices map[string][]map[string]any
	err    error
}

func (f *fakeSupplier) GetPriceList(ctx context.Context, id string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	l, ok := f.lists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (f *fakeSupplier) GetPrices(ctx context.Context, id string) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prices[id], nil
}

// ---- fixtures ----

var (
	aptStudio  = domain.Apartment{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Name: "Studio A1", MaxPersons: 4, TotalUnits: 3}
	aptVilla   = domain.Apartment{ID: uuid.MustParse("11111111-1111-1111-1111-222222222222"), Name: "Villa", MaxPersons: 8, TotalUnits: 1}
	roomDouble = domain.RoomType{ID: uuid.MustParse("22222222-2222-2222-2222-111111111111"), Code: "1/2", Name: "Double", MaxPersons: 3}
	roomFamily = domain.RoomType{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Code: "1/4", Name: "Family", MaxPersons: 5}
)

func fixedPackage() domain.Package {
	return domain.Package{
		ID:                      uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		Name:                    "Pefkohori apartments",
		Type:                    domain.PackageFixed,
		TransportType:           "bus",
		TransportPriceFixed:     true,
		TransportPricePerPerson: ptr(domain.Euros(50)),
		Intervals: []domain.PriceInterval{
			{
				ID: uuid.New(), Name: "June", Start: day(time.June, 1), End: day(time.June, 30),
				ApartmentPrices: map[uuid.UUID]domain.Money{aptStudio.ID: domain.Euros(120), aptVilla.ID: domain.Euros(200)},
			},
			{
				ID: uuid.New(), Name: "July", Start: day(time.July, 1), End: day(time.July, 31),
				ApartmentPrices: map[uuid.UUID]domain.Money{aptStudio.ID: domain.Euros(150), aptVilla.ID: domain.Euros(250)},
			},
		},
		Apartments: []domain.Apartment{aptVilla, aptStudio},
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
		RoomTypes: []domain.RoomType{roomFamily, roomDouble},
		ChildrenRules: []domain.ChildrenPolicyRule{
			{Name: "Infant", AgeFrom: 0, AgeTo: 1.99, DiscountType: domain.DiscountFree},
			{Name: "Child", AgeFrom: 2, AgeTo: 11.99, DiscountType: domain.DiscountPercent, DiscountValue: 50},
		},
	}
}
