package domain

import (
	"context"

	"github.com/google/uuid"
)

type PackageRepository interface {
	// Read paths
	GetPackage(ctx context.Context, id uuid.UUID) (Package, error)
	GetShift(ctx context.Context, id uuid.UUID) (Shift, error)
	GetDeparture(ctx context.Context, id uuid.UUID) (Departure, error)
	ListShifts(ctx context.Context, packageID uuid.UUID) ([]Shift, error)
	ListDepartures(ctx context.Context, packageID uuid.UUID, q DepartureQuery) ([]Departure, error)

	// Write paths
	InsertShifts(ctx context.Context, packageID uuid.UUID, ss []Shift) error
	InsertDepartures(ctx context.Context, packageID uuid.UUID, ds []Departure) error
}

// CapacityStore mutates capacity counters. Every method must be a single
// conditional update in the backing store; callers never read-then-write.
type CapacityStore interface {
	ReserveDeparture(ctx context.Context, id uuid.UUID, n int) (Departure, error)
	ReleaseDeparture(ctx context.Context, id uuid.UUID, n int) (Departure, error)
	ReserveShift(ctx context.Context, id uuid.UUID, n int) (Shift, error)
	ReleaseShift(ctx context.Context, id uuid.UUID, n int) (Shift, error)
}

type TransportRepository interface {
	UpsertTransportPriceList(ctx context.Context, l TransportPriceList) error
	GetTransportPrice(ctx context.Context, listID, city string) (TransportPrice, error)
	LogMiss(ctx context.Context, listID string, status int, reason string) error
}

// TransportSupplier is the outbound supplier price-list API.
type TransportSupplier interface {
	GetPriceList(ctx context.Context, id string) (map[string]any, error)
	GetPrices(ctx context.Context, id string) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type DepartureQuery struct {
	From *Date
	To   *Date
}
