//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"golang.org/x/sync/errgroup"

	"tour_backoffice/internal/domain"
	mysqlrepo "tour_backoffice/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }

func pmoney(v float64) *domain.Money {
	m := domain.Euros(v)
	return &m
}

func day(m time.Month, d int) domain.Date { return domain.NewDate(2026, m, d) }

func mustExec(t *testing.T, db *sql.DB, q string, args ...any) {
	t.Helper()
	if _, err := db.Exec(q, args...); err != nil {
		t.Fatalf("exec %q: %v", q, err)
	}
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// startMySQL runs an isolated MySQL; Docker picks a free host port.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tours",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "tours")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the tests ----------
func TestRepo_MySQL(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	t.Run("fixed package snapshot", func(t *testing.T) {
		pkgID, aptID, ivID := uuid.New(), uuid.New(), uuid.New()
		mustExec(t, db, `INSERT INTO packages (id, name, package_type, transport_type, transport_price_fixed, transport_price_per_person)
			VALUES (?, 'Island apartments', 'FIXED', 'bus', TRUE, 5000)`, pkgID)
		mustExec(t, db, `INSERT INTO apartments (id, package_id, name, max_persons, total_units) VALUES (?, ?, 'Studio A1', 4, 3)`, aptID, pkgID)
		mustExec(t, db, `INSERT INTO price_intervals (id, package_id, name, start_date, end_date) VALUES (?, ?, 'June', '2026-06-01', '2026-06-30')`, ivID, pkgID)
		mustExec(t, db, `INSERT INTO apartment_prices (interval_id, apartment_id, price_cents) VALUES (?, ?, 12000)`, ivID, aptID)

		p, err := repo.GetPackage(ctx, pkgID)
		if err != nil {
			t.Fatalf("GetPackage: %v", err)
		}
		if p.Type != domain.PackageFixed || len(p.Apartments) != 1 || len(p.Intervals) != 1 {
			t.Fatalf("unexpected package: %+v", p)
		}
		if got := p.Intervals[0].ApartmentPrices[aptID]; got != domain.Euros(120) {
			t.Fatalf("nightly price = %s, want 120.00", got)
		}
		if !p.Intervals[0].Start.Equal(day(time.June, 1).Time) {
			t.Fatalf("interval start = %s", p.Intervals[0].Start)
		}
		if p.TransportPricePerPerson == nil || *p.TransportPricePerPerson != domain.Euros(50) {
			t.Fatalf("transport price = %v", p.TransportPricePerPerson)
		}
	})

	t.Run("on request package snapshot", func(t *testing.T) {
		pkgID, rtID, ivID := uuid.New(), uuid.New(), uuid.New()
		mustExec(t, db, `INSERT INTO packages (id, name, package_type, meal_plans) VALUES (?, 'Hotel Adria', 'ON_REQUEST', '["BB","HB"]')`, pkgID)
		mustExec(t, db, `INSERT INTO room_types (id, package_id, code, name, max_persons) VALUES (?, ?, '1/2', 'Double', 3)`, rtID, pkgID)
		mustExec(t, db, `INSERT INTO price_intervals (id, package_id, name, start_date, end_date) VALUES (?, ?, 'Early summer', '2026-06-01', '2026-06-30')`, ivID, pkgID)
		mustExec(t, db, `INSERT INTO hotel_prices (interval_id, room_type_id, meal_plan, price_cents) VALUES (?, ?, 'BB', 4500), (?, ?, 'HB', 6000)`,
			ivID, rtID, ivID, rtID)
		mustExec(t, db, `INSERT INTO children_policy_rules (id, package_id, sort_order, rule_name, age_from, age_to, discount_type, discount_value, room_type_codes)
			VALUES (?, ?, 1, 'Child', 2, 11.99, 'PERCENT', 50, '["1/2"]'), (?, ?, 0, 'Infant', 0, 1.99, 'FREE', 0, NULL)`,
			uuid.New(), pkgID, uuid.New(), pkgID)

		p, err := repo.GetPackage(ctx, pkgID)
		if err != nil {
			t.Fatalf("GetPackage: %v", err)
		}
		if len(p.MealPlans) != 2 || !p.OffersMealPlan(domain.MealHalfBoard) {
			t.Fatalf("meal plans = %v", p.MealPlans)
		}
		if got := p.Intervals[0].HotelPrices[rtID][domain.MealHalfBoard]; got != domain.Euros(60) {
			t.Fatalf("HB price = %s", got)
		}
		if len(p.ChildrenRules) != 2 || p.ChildrenRules[0].Name != "Infant" {
			t.Fatalf("rules out of operator order: %+v", p.ChildrenRules)
		}
		if r := p.ChildrenRules[1]; r.AgeTo != 11.99 || len(r.RoomTypeCodes) != 1 {
			t.Fatalf("child rule = %+v", r)
		}
	})

	t.Run("missing package", func(t *testing.T) {
		_, err := repo.GetPackage(ctx, uuid.New())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("transport price list", func(t *testing.T) {
		l := domain.TransportPriceList{
			ID:       "PL-77",
			Name:     "Summer coaches",
			Supplier: pstr("Adria Bus"),
			Prices: []domain.TransportPrice{
				{DepartureCity: "Beograd", PricePerPerson: domain.Euros(55), ChildPrice: pmoney(30), ChildAgeLimit: 12},
				{DepartureCity: "Novi Sad", PricePerPerson: domain.Euros(60), ChildAgeLimit: 12},
			},
			RawJSON: []byte(`{}`),
		}
		if err := repo.UpsertTransportPriceList(ctx, l); err != nil {
			t.Fatalf("UpsertTransportPriceList: %v", err)
		}
		// second sync drops Novi Sad
		l.Prices = l.Prices[:1]
		if err := repo.UpsertTransportPriceList(ctx, l); err != nil {
			t.Fatalf("UpsertTransportPriceList again: %v", err)
		}

		p, err := repo.GetTransportPrice(ctx, "PL-77", "beograd")
		if err != nil {
			t.Fatalf("GetTransportPrice: %v", err)
		}
		if p.PricePerPerson != domain.Euros(55) || p.ChildPrice == nil || *p.ChildPrice != domain.Euros(30) {
			t.Fatalf("unexpected price: %+v", p)
		}
		if _, err := repo.GetTransportPrice(ctx, "PL-77", "Novi Sad"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("stale city survived resync: %v", err)
		}
		if err := repo.LogMiss(ctx, "PL-404", 404, "not found"); err != nil {
			t.Fatalf("LogMiss: %v", err)
		}
	})
}

func TestRepo_MySQL_Capacity(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	pkgID := uuid.New()
	mustExec(t, db, `INSERT INTO packages (id, name, package_type) VALUES (?, 'Group tour', 'FIXED')`, pkgID)

	depID := uuid.New()
	if err := repo.InsertDepartures(ctx, pkgID, []domain.Departure{{
		ID: depID, DepartureDate: day(time.June, 6), ReturnDate: day(time.June, 13), TotalSpots: 40, AvailableSpots: 3,
	}}); err != nil {
		t.Fatalf("InsertDepartures: %v", err)
	}

	shiftID := uuid.New()
	if err := repo.InsertShifts(ctx, pkgID, []domain.Shift{{
		ID: shiftID, Name: "Shift 1", Start: day(time.July, 1), End: day(time.July, 11),
		TransportPricePerPerson: pmoney(40), TotalSpots: 4, AvailableSpots: 4,
	}}); err != nil {
		t.Fatalf("InsertShifts: %v", err)
	}

	t.Run("concurrent reserves never oversell", func(t *testing.T) {
		var ok, short atomic.Int32
		var g errgroup.Group
		for i := 0; i < 2; i++ {
			g.Go(func() error {
				_, err := repo.ReserveDeparture(ctx, depID, 2)
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, domain.ErrInsufficientCapacity):
					short.Add(1)
				default:
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if ok.Load() != 1 || short.Load() != 1 {
			t.Fatalf("ok=%d short=%d, want exactly one success", ok.Load(), short.Load())
		}
		d, err := repo.GetDeparture(ctx, depID)
		if err != nil {
			t.Fatalf("GetDeparture: %v", err)
		}
		if d.AvailableSpots != 1 {
			t.Fatalf("available = %d, want 1", d.AvailableSpots)
		}
	})

	t.Run("release clamps at total", func(t *testing.T) {
		d, err := repo.ReleaseDeparture(ctx, depID, 100)
		if err != nil {
			t.Fatalf("ReleaseDeparture: %v", err)
		}
		if d.AvailableSpots != 40 {
			t.Fatalf("available = %d, want 40", d.AvailableSpots)
		}
	})

	t.Run("shift fills and reopens", func(t *testing.T) {
		s, err := repo.ReserveShift(ctx, shiftID, 4)
		if err != nil {
			t.Fatalf("ReserveShift: %v", err)
		}
		if s.Status != domain.ShiftFull || s.Booked != 4 || s.AvailableSpots != 0 {
			t.Fatalf("after reserve: %+v", s)
		}
		if _, err := repo.ReserveShift(ctx, shiftID, 1); !errors.Is(err, domain.ErrInsufficientCapacity) {
			t.Fatalf("want ErrInsufficientCapacity, got %v", err)
		}
		s, err = repo.ReleaseShift(ctx, shiftID, 1)
		if err != nil {
			t.Fatalf("ReleaseShift: %v", err)
		}
		if s.Status != domain.ShiftActive || s.Booked != 3 || s.AvailableSpots != 1 {
			t.Fatalf("after release: %+v", s)
		}
	})

	t.Run("cancelled shift rejects reserve", func(t *testing.T) {
		mustExec(t, db, `UPDATE shifts SET status = 'cancelled' WHERE id = ?`, shiftID)
		if _, err := repo.ReserveShift(ctx, shiftID, 1); !errors.Is(err, domain.ErrShiftCancelled) {
			t.Fatalf("want ErrShiftCancelled, got %v", err)
		}
	})

	t.Run("unknown ids", func(t *testing.T) {
		if _, err := repo.ReserveDeparture(ctx, uuid.New(), 1); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("departure: want ErrNotFound, got %v", err)
		}
		if _, err := repo.ReleaseShift(ctx, uuid.New(), 1); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("shift: want ErrNotFound, got %v", err)
		}
	})

	t.Run("listings", func(t *testing.T) {
		from := day(time.June, 1)
		ds, err := repo.ListDepartures(ctx, pkgID, domain.DepartureQuery{From: &from})
		if err != nil || len(ds) != 1 {
			t.Fatalf("ListDepartures = %v, %v", ds, err)
		}
		ss, err := repo.ListShifts(ctx, pkgID)
		if err != nil || len(ss) != 1 || ss[0].TransportPricePerPerson == nil {
			t.Fatalf("ListShifts = %+v, %v", ss, err)
		}
	})
}
