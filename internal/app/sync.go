package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tour_backoffice/internal/adapters/observability"
	"tour_backoffice/internal/domain"
)

// TransportSyncService copies supplier price lists into the local store.
type TransportSyncService struct {
	supplier domain.TransportSupplier
	repo     domain.TransportRepository
}

func NewTransportSyncService(s domain.TransportSupplier, r domain.TransportRepository) *TransportSyncService {
	return &TransportSyncService{supplier: s, repo: r}
}

// SyncPriceList fetches one list and its city prices. A list the supplier no
// longer exposes (404) or refuses (401/403) is logged as a miss and skipped;
// any other failure is returned.
func (s *TransportSyncService) SyncPriceList(ctx context.Context, id string) error {
	head, err := s.supplier.GetPriceList(ctx, id)
	if err != nil {
		if s.miss(ctx, id, "price_list", err) {
			return nil
		}
		observability.ObserveSync("error")
		return err
	}

	rows, err := s.supplier.GetPrices(ctx, id)
	if err != nil {
		if s.miss(ctx, id, "prices", err) {
			return nil
		}
		observability.ObserveSync("error")
		return err
	}

	l := mapPriceList(id, head, rows)
	if l.Name == "" {
		l.Name = id
	}
	if err := s.repo.UpsertTransportPriceList(ctx, l); err != nil {
		observability.ObserveSync("error")
		return fmt.Errorf("upsert price list %s: %w", id, err)
	}
	observability.ObserveSync("ok")
	log.Info().Str("price_list", id).Int("cities", len(l.Prices)).Msg("price list synced")
	return nil
}

func (s *TransportSyncService) miss(ctx context.Context, id, what string, err error) bool {
	var status int
	var reason string
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, reason = 404, "not found"
	case errors.Is(err, domain.ErrAccessDenied):
		status, reason = 403, "access denied"
	default:
		return false
	}
	_ = s.repo.LogMiss(ctx, id, status, what+": "+reason)
	observability.ObserveSync("miss")
	log.Warn().Str("price_list", id).Int("status", status).Str("endpoint", what).Msg("price list skipped")
	return true
}
