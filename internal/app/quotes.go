package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tour_backoffice/internal/adapters/observability"
	"tour_backoffice/internal/domain"
	"tour_backoffice/internal/pricing"
)

// QuoteService loads package snapshots (through the cache when one is
// configured), resolves transport rates and hands everything to the pure
// pricing calculator.
type QuoteService struct {
	repo       domain.PackageRepository
	transport  domain.TransportRepository
	cache      domain.Cache
	cacheTTL   time.Duration
	batchLimit int
}

func NewQuoteService(r domain.PackageRepository, t domain.TransportRepository, c domain.Cache, ttl time.Duration, batchLimit int) *QuoteService {
	if batchLimit <= 0 {
		batchLimit = 8
	}
	return &QuoteService{repo: r, transport: t, cache: c, cacheTTL: ttl, batchLimit: batchLimit}
}

func packageKey(id uuid.UUID) string { return "package:" + id.String() }

// Package returns the pricing snapshot of a package.
func (s *QuoteService) Package(ctx context.Context, id uuid.UUID) (domain.Package, error) {
	key := packageKey(id)
	var p domain.Package
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return domain.Package{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	}
	return p, nil
}

// Invalidate drops the cached snapshot after the package was edited.
func (s *QuoteService) Invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, packageKey(id))
	}
}

func (s *QuoteService) Quote(ctx context.Context, packageID uuid.UUID, req domain.QuoteRequest) (domain.PriceCalculationResult, error) {
	pkg, err := s.Package(ctx, packageID)
	if err != nil {
		observability.ObserveQuote("unknown", outcome(err))
		return domain.PriceCalculationResult{}, err
	}
	res, err := s.quote(ctx, pkg, req)
	observability.ObserveQuote(string(pkg.Type), outcome(err))
	if err != nil {
		ev := log.Info()
		if domain.IsConfigurationError(err) {
			ev = log.Warn()
		}
		ev.Err(err).Str("package_id", packageID.String()).Str("package_type", string(pkg.Type)).Msg("quote rejected")
		return domain.PriceCalculationResult{}, err
	}
	return res, nil
}

func (s *QuoteService) quote(ctx context.Context, pkg domain.Package, req domain.QuoteRequest) (domain.PriceCalculationResult, error) {
	var in pricing.QuoteInputs
	if pkg.Type == domain.PackageFixed && req.IncludeTransport {
		rate, err := s.transportRate(ctx, pkg, req)
		if err != nil {
			return domain.PriceCalculationResult{}, err
		}
		in.Transport = rate
	}

	res, err := pricing.Calculate(pkg, req, in)
	if err != nil {
		return domain.PriceCalculationResult{}, err
	}
	if note := pricing.SpanNote(pkg, req.CheckIn, req.CheckOut); note != "" {
		log.Warn().
			Str("package_id", pkg.ID.String()).
			Str("check_in", req.CheckIn.String()).
			Str("check_out", req.CheckOut.String()).
			Str("intervals", note).
			Msg("stay spans price intervals; check-in interval rate applied")
	}
	return res, nil
}

// transportRate picks, in order: the shift's own price, the package's fixed
// per-person price, then the package's supplier price list by departure city.
// A nil rate means the package has no transport price for this request.
func (s *QuoteService) transportRate(ctx context.Context, pkg domain.Package, req domain.QuoteRequest) (*domain.TransportRate, error) {
	if req.ShiftID != nil {
		sh, err := s.repo.GetShift(ctx, *req.ShiftID)
		if err != nil {
			return nil, err
		}
		if sh.PackageID != pkg.ID {
			return nil, fmt.Errorf("shift %s of package %s: %w", sh.ID, pkg.ID, domain.ErrNotFound)
		}
		if sh.TransportPricePerPerson != nil {
			return &domain.TransportRate{Source: "shift", PerPerson: *sh.TransportPricePerPerson}, nil
		}
	}
	if pkg.TransportPriceFixed && pkg.TransportPricePerPerson != nil {
		return &domain.TransportRate{Source: "package", PerPerson: *pkg.TransportPricePerPerson}, nil
	}
	if pkg.TransportPriceListID != nil && req.DepartureCity != "" && s.transport != nil {
		p, err := s.transport.GetTransportPrice(ctx, *pkg.TransportPriceListID, req.DepartureCity)
		switch {
		case err == nil:
			r := p.Rate()
			return &r, nil
		case errors.Is(err, domain.ErrNotFound):
			log.Warn().Str("package_id", pkg.ID.String()).Str("price_list", *pkg.TransportPriceListID).
				Str("city", req.DepartureCity).Msg("no transport price for departure city")
		default:
			return nil, err
		}
	}
	return nil, nil
}

// QuoteMany prices one party against several packages concurrently. Each
// package picks its smallest fitting unit; failures are reported per package.
func (s *QuoteService) QuoteMany(ctx context.Context, req domain.BatchQuoteRequest) ([]domain.PackageQuote, error) {
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, fmt.Errorf("%w: %s..%s", domain.ErrInvalidStay, req.CheckIn, req.CheckOut)
	}
	party := pricing.PartySize(req.Adults, req.Children)
	if req.Adults < 1 {
		return nil, fmt.Errorf("%w: at least one adult is required", domain.ErrInvalidOccupancy)
	}

	out := make([]domain.PackageQuote, len(req.PackageIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, id := range req.PackageIDs {
		g.Go(func() error {
			q := domain.PackageQuote{PackageID: id}
			res, err := s.quoteBest(gctx, id, req, party)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				q.Error = err.Error()
			} else {
				total, per := res.Total, res.Total.Div(party)
				q.Total, q.PerPerson = &total, &per
			}
			out[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *QuoteService) quoteBest(ctx context.Context, id uuid.UUID, b domain.BatchQuoteRequest, party int) (domain.PriceCalculationResult, error) {
	pkg, err := s.Package(ctx, id)
	if err != nil {
		return domain.PriceCalculationResult{}, err
	}
	req := domain.QuoteRequest{CheckIn: b.CheckIn, CheckOut: b.CheckOut, Children: b.Children}
	switch pkg.Type {
	case domain.PackageFixed:
		apt, ok := pricing.BestApartment(pkg.Apartments, party)
		if !ok {
			return domain.PriceCalculationResult{}, fmt.Errorf("%w: no apartment takes %d persons", domain.ErrInvalidOccupancy, party)
		}
		req.ApartmentID, req.NumberOfPersons = apt.ID, party
	case domain.PackageOnRequest:
		rt, ok := pricing.BestRoomType(pkg.RoomTypes, party)
		if !ok {
			return domain.PriceCalculationResult{}, fmt.Errorf("%w: no room type takes %d persons", domain.ErrInvalidOccupancy, party)
		}
		req.RoomTypeID, req.MealPlan, req.Adults = rt.ID, pricing.DefaultMealPlan(pkg), b.Adults
	}
	res, err := pricing.Calculate(pkg, req, pricing.QuoteInputs{})
	observability.ObserveQuote(string(pkg.Type), outcome(err))
	return res, err
}

// Validate runs the authoring checks on a package.
func (s *QuoteService) Validate(ctx context.Context, id uuid.UUID) (pricing.Report, error) {
	pkg, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return pricing.Report{}, err
	}
	return pricing.Validate(pkg), nil
}

func (s *QuoteService) Departures(ctx context.Context, packageID uuid.UUID, q domain.DepartureQuery) ([]domain.Departure, error) {
	if _, err := s.Package(ctx, packageID); err != nil {
		return nil, err
	}
	return s.repo.ListDepartures(ctx, packageID, q)
}

func (s *QuoteService) Shifts(ctx context.Context, packageID uuid.UUID) ([]domain.Shift, error) {
	if _, err := s.Package(ctx, packageID); err != nil {
		return nil, err
	}
	return s.repo.ListShifts(ctx, packageID)
}

// outcome is the metrics label for an error class.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case domain.IsCapacityError(err):
		return "capacity"
	case domain.IsConfigurationError(err):
		return "configuration"
	case domain.IsRequestError(err):
		return "request"
	default:
		return "error"
	}
}
