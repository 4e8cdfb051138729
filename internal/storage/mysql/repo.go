package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tour_backoffice/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valMoney(p *domain.Money) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}
func valDate(p *domain.Date) any {
	if p == nil {
		return nil
	}
	return p.String()
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func moneyPtr(v sql.NullInt64) *domain.Money {
	if !v.Valid {
		return nil
	}
	m := domain.Money(v.Int64)
	return &m
}
func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// GetPackage assembles the full pricing snapshot of a package: units, intervals
// with their matrices and the ordered children rules.
func (r *Repo) GetPackage(ctx context.Context, id uuid.UUID) (domain.Package, error) {
	var (
		p          domain.Package
		mealPlans  []byte
		tType      sql.NullString
		tPerPerson sql.NullInt64
		tListID    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getPackageSQL, id).Scan(
		&p.ID, &p.Name, &p.Type, &mealPlans, &tType,
		&p.TransportPriceFixed, &tPerPerson, &tListID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Package{}, fmt.Errorf("package %s: %w", id, domain.ErrNotFound)
		}
		return domain.Package{}, err
	}
	if len(mealPlans) > 0 {
		if err := json.Unmarshal(mealPlans, &p.MealPlans); err != nil {
			return domain.Package{}, fmt.Errorf("package %s meal_plans: %w", id, err)
		}
	}
	p.TransportType = tType.String
	p.TransportPricePerPerson = moneyPtr(tPerPerson)
	p.TransportPriceListID = strPtr(tListID)

	if p.Apartments, err = r.listApartments(ctx, id); err != nil {
		return domain.Package{}, err
	}
	if p.RoomTypes, err = r.listRoomTypes(ctx, id); err != nil {
		return domain.Package{}, err
	}
	if p.Intervals, err = r.listIntervals(ctx, id); err != nil {
		return domain.Package{}, err
	}
	if p.ChildrenRules, err = r.listRules(ctx, id); err != nil {
		return domain.Package{}, err
	}
	return p, nil
}

func (r *Repo) listApartments(ctx context.Context, pkgID uuid.UUID) ([]domain.Apartment, error) {
	rows, err := r.db.QueryContext(ctx, listApartmentsSQL, pkgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Apartment
	for rows.Next() {
		var a domain.Apartment
		if err := rows.Scan(&a.ID, &a.Name, &a.MaxPersons, &a.TotalUnits); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) listRoomTypes(ctx context.Context, pkgID uuid.UUID) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, listRoomTypesSQL, pkgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomType
	for rows.Next() {
		var rt domain.RoomType
		if err := rows.Scan(&rt.ID, &rt.Code, &rt.Name, &rt.MaxPersons); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *Repo) listIntervals(ctx context.Context, pkgID uuid.UUID) ([]domain.PriceInterval, error) {
	rows, err := r.db.QueryContext(ctx, listIntervalsSQL, pkgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PriceInterval
	idx := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			iv         domain.PriceInterval
			name       sql.NullString
			start, end time.Time
		)
		if err := rows.Scan(&iv.ID, &name, &start, &end); err != nil {
			return nil, err
		}
		iv.Name = name.String
		iv.Start, iv.End = domain.DateOf(start), domain.DateOf(end)
		idx[iv.ID] = len(out)
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	// apartment matrix
	aRows, err := r.db.QueryContext(ctx, listApartmentPricesSQL, pkgID)
	if err != nil {
		return nil, err
	}
	defer aRows.Close()
	for aRows.Next() {
		var ivID, aptID uuid.UUID
		var cents int64
		if err := aRows.Scan(&ivID, &aptID, &cents); err != nil {
			return nil, err
		}
		i, ok := idx[ivID]
		if !ok {
			continue
		}
		if out[i].ApartmentPrices == nil {
			out[i].ApartmentPrices = map[uuid.UUID]domain.Money{}
		}
		out[i].ApartmentPrices[aptID] = domain.Money(cents)
	}
	if err := aRows.Err(); err != nil {
		return nil, err
	}

	// hotel matrix
	hRows, err := r.db.QueryContext(ctx, listHotelPricesSQL, pkgID)
	if err != nil {
		return nil, err
	}
	defer hRows.Close()
	for hRows.Next() {
		var ivID, rtID uuid.UUID
		var mp domain.MealPlan
		var cents int64
		if err := hRows.Scan(&ivID, &rtID, &mp, &cents); err != nil {
			return nil, err
		}
		i, ok := idx[ivID]
		if !ok {
			continue
		}
		if out[i].HotelPrices == nil {
			out[i].HotelPrices = map[uuid.UUID]map[domain.MealPlan]domain.Money{}
		}
		if out[i].HotelPrices[rtID] == nil {
			out[i].HotelPrices[rtID] = map[domain.MealPlan]domain.Money{}
		}
		out[i].HotelPrices[rtID][mp] = domain.Money(cents)
	}
	return out, hRows.Err()
}

func (r *Repo) listRules(ctx context.Context, pkgID uuid.UUID) ([]domain.ChildrenPolicyRule, error) {
	rows, err := r.db.QueryContext(ctx, listRulesSQL, pkgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChildrenPolicyRule
	for rows.Next() {
		var (
			rule            domain.ChildrenPolicyRule
			name, bed       sql.NullString
			minA, maxA, pos sql.NullInt64
			codes           []byte
		)
		if err := rows.Scan(
			&rule.ID, &name, &rule.AgeFrom, &rule.AgeTo, &rule.DiscountType, &rule.DiscountValue,
			&minA, &maxA, &pos, &codes, &bed,
		); err != nil {
			return nil, err
		}
		rule.Name = name.String
		rule.BedType = domain.BedType(bed.String)
		rule.MinAdults, rule.MaxAdults, rule.ChildPosition = intPtr(minA), intPtr(maxA), intPtr(pos)
		if len(codes) > 0 {
			if err := json.Unmarshal(codes, &rule.RoomTypeCodes); err != nil {
				return nil, fmt.Errorf("rule %s room_type_codes: %w", rule.ID, err)
			}
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Departures & shifts
// -----------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeparture(s rowScanner) (domain.Departure, error) {
	var d domain.Departure
	var dep, ret time.Time
	if err := s.Scan(&d.ID, &d.PackageID, &dep, &ret, &d.TotalSpots, &d.AvailableSpots); err != nil {
		return domain.Departure{}, err
	}
	d.DepartureDate, d.ReturnDate = domain.DateOf(dep), domain.DateOf(ret)
	return d, nil
}

func scanShift(s rowScanner) (domain.Shift, error) {
	var (
		sh         domain.Shift
		name       sql.NullString
		start, end time.Time
		fare       sql.NullInt64
	)
	if err := s.Scan(&sh.ID, &sh.PackageID, &name, &start, &end, &fare,
		&sh.TotalSpots, &sh.AvailableSpots, &sh.Booked, &sh.Status); err != nil {
		return domain.Shift{}, err
	}
	sh.Name = name.String
	sh.Start, sh.End = domain.DateOf(start), domain.DateOf(end)
	sh.TransportPricePerPerson = moneyPtr(fare)
	return sh, nil
}

func (r *Repo) GetDeparture(ctx context.Context, id uuid.UUID) (domain.Departure, error) {
	d, err := scanDeparture(r.db.QueryRowContext(ctx, getDepartureSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Departure{}, fmt.Errorf("departure %s: %w", id, domain.ErrNotFound)
	}
	return d, err
}

func (r *Repo) GetShift(ctx context.Context, id uuid.UUID) (domain.Shift, error) {
	s, err := scanShift(r.db.QueryRowContext(ctx, getShiftSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shift{}, fmt.Errorf("shift %s: %w", id, domain.ErrNotFound)
	}
	return s, err
}

func (r *Repo) ListShifts(ctx context.Context, packageID uuid.UUID) ([]domain.Shift, error) {
	rows, err := r.db.QueryContext(ctx, listShiftsSQL, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) ListDepartures(ctx context.Context, packageID uuid.UUID, q domain.DepartureQuery) ([]domain.Departure, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + departureCols + ` FROM departures WHERE package_id = ?`)
	args := []any{packageID}
	if q.From != nil {
		sb.WriteString(` AND departure_date >= ?`)
		args = append(args, q.From.String())
	}
	if q.To != nil {
		sb.WriteString(` AND departure_date <= ?`)
		args = append(args, q.To.String())
	}
	sb.WriteString(` ORDER BY departure_date, id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Departure
	for rows.Next() {
		d, err := scanDeparture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) InsertDepartures(ctx context.Context, packageID uuid.UUID, ds []domain.Departure) error {
	if len(ds) == 0 {
		return nil
	}
	values := make([]string, 0, len(ds))
	args := make([]any, 0, len(ds)*6)
	for _, d := range ds {
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args,
			d.ID,
			packageID,
			d.DepartureDate.String(),
			d.ReturnDate.String(),
			d.TotalSpots,
			d.AvailableSpots,
		)
	}
	_, err := r.db.ExecContext(ctx, insertDeparturesPrefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) InsertShifts(ctx context.Context, packageID uuid.UUID, ss []domain.Shift) error {
	if len(ss) == 0 {
		return nil
	}
	values := make([]string, 0, len(ss))
	args := make([]any, 0, len(ss)*11)
	for i, s := range ss {
		status := s.Status
		if status == "" {
			status = domain.ShiftActive
		}
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			s.ID,
			packageID,
			s.Name,
			s.Start.String(),
			s.End.String(),
			valMoney(s.TransportPricePerPerson),
			s.TotalSpots,
			s.AvailableSpots,
			s.Booked,
			string(status),
			i, // sort_order follows slice order
		)
	}
	_, err := r.db.ExecContext(ctx, insertShiftsPrefix+strings.Join(values, ","), args...)
	return err
}
