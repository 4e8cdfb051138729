// Package memory is an in-process store used by tests and the backoffice CLI
// dry runs. Capacity mutations hold the store lock for the whole
// check-and-update, matching the single conditional UPDATE of the MySQL store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

type Store struct {
	mu         sync.Mutex
	packages   map[uuid.UUID]domain.Package
	departures map[uuid.UUID]domain.Departure
	shifts     map[uuid.UUID]domain.Shift
	shiftOrder []uuid.UUID
	lists      map[string]domain.TransportPriceList
	misses     map[string]int
}

func New() *Store {
	return &Store{
		packages:   map[uuid.UUID]domain.Package{},
		departures: map[uuid.UUID]domain.Departure{},
		shifts:     map[uuid.UUID]domain.Shift{},
		lists:      map[string]domain.TransportPriceList{},
		misses:     map[string]int{},
	}
}

func (s *Store) PutPackage(p domain.Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[p.ID] = p
}

func (s *Store) GetPackage(_ context.Context, id uuid.UUID) (domain.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.packages[id]
	if !ok {
		return domain.Package{}, fmt.Errorf("package %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *Store) GetDeparture(_ context.Context, id uuid.UUID) (domain.Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departures[id]
	if !ok {
		return domain.Departure{}, fmt.Errorf("departure %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

func (s *Store) GetShift(_ context.Context, id uuid.UUID) (domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[id]
	if !ok {
		return domain.Shift{}, fmt.Errorf("shift %s: %w", id, domain.ErrNotFound)
	}
	return sh, nil
}

func (s *Store) ListShifts(_ context.Context, packageID uuid.UUID) ([]domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Shift
	for _, id := range s.shiftOrder {
		if sh := s.shifts[id]; sh.PackageID == packageID {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *Store) ListDepartures(_ context.Context, packageID uuid.UUID, q domain.DepartureQuery) ([]domain.Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Departure
	for _, d := range s.departures {
		if d.PackageID != packageID {
			continue
		}
		if q.From != nil && d.DepartureDate.Before(*q.From) {
			continue
		}
		if q.To != nil && d.DepartureDate.After(*q.To) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DepartureDate.Equal(out[j].DepartureDate.Time) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].DepartureDate.Before(out[j].DepartureDate)
	})
	return out, nil
}

func (s *Store) InsertDepartures(_ context.Context, packageID uuid.UUID, ds []domain.Departure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range ds {
		if _, dup := s.departures[d.ID]; dup {
			return fmt.Errorf("departure %s already exists", d.ID)
		}
	}
	for _, d := range ds {
		d.PackageID = packageID
		s.departures[d.ID] = d
	}
	return nil
}

func (s *Store) InsertShifts(_ context.Context, packageID uuid.UUID, ss []domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range ss {
		if _, dup := s.shifts[sh.ID]; dup {
			return fmt.Errorf("shift %s already exists", sh.ID)
		}
	}
	for _, sh := range ss {
		sh.PackageID = packageID
		if sh.Status == "" {
			sh.Status = domain.ShiftActive
		}
		s.shifts[sh.ID] = sh
		s.shiftOrder = append(s.shiftOrder, sh.ID)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Capacity
// -----------------------------------------------------------------------------

func (s *Store) ReserveDeparture(_ context.Context, id uuid.UUID, n int) (domain.Departure, error) {
	return s.mutateDeparture(id, func(d *domain.Departure) error { return d.Reserve(n) })
}

func (s *Store) ReleaseDeparture(_ context.Context, id uuid.UUID, n int) (domain.Departure, error) {
	return s.mutateDeparture(id, func(d *domain.Departure) error { return d.Release(n) })
}

func (s *Store) ReserveShift(_ context.Context, id uuid.UUID, n int) (domain.Shift, error) {
	return s.mutateShift(id, func(sh *domain.Shift) error { return sh.Reserve(n) })
}

func (s *Store) ReleaseShift(_ context.Context, id uuid.UUID, n int) (domain.Shift, error) {
	return s.mutateShift(id, func(sh *domain.Shift) error { return sh.Release(n) })
}

func (s *Store) mutateDeparture(id uuid.UUID, fn func(*domain.Departure) error) (domain.Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departures[id]
	if !ok {
		return domain.Departure{}, fmt.Errorf("departure %s: %w", id, domain.ErrNotFound)
	}
	if err := fn(&d); err != nil {
		return s.departures[id], err
	}
	s.departures[id] = d
	return d, nil
}

func (s *Store) mutateShift(id uuid.UUID, fn func(*domain.Shift) error) (domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[id]
	if !ok {
		return domain.Shift{}, fmt.Errorf("shift %s: %w", id, domain.ErrNotFound)
	}
	if err := fn(&sh); err != nil {
		return s.shifts[id], err
	}
	s.shifts[id] = sh
	return sh, nil
}

// -----------------------------------------------------------------------------
// Transport price lists
// -----------------------------------------------------------------------------

func (s *Store) UpsertTransportPriceList(_ context.Context, l domain.TransportPriceList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[l.ID] = l
	return nil
}

func (s *Store) GetTransportPrice(_ context.Context, listID, city string) (domain.TransportPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[listID]
	if ok {
		for _, p := range l.Prices {
			if strings.EqualFold(p.DepartureCity, strings.TrimSpace(city)) {
				return p, nil
			}
		}
	}
	return domain.TransportPrice{}, fmt.Errorf("transport price %s/%s: %w", listID, city, domain.ErrNotFound)
}

func (s *Store) LogMiss(_ context.Context, listID string, status int, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.misses[listID] = status
	return nil
}

// Misses returns the HTTP status last logged per price-list id.
func (s *Store) Misses() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.misses))
	for k, v := range s.misses {
		out[k] = v
	}
	return out
}

var (
	_ domain.PackageRepository   = (*Store)(nil)
	_ domain.CapacityStore       = (*Store)(nil)
	_ domain.TransportRepository = (*Store)(nil)
)
