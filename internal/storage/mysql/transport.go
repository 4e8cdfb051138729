package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tour_backoffice/internal/domain"
)

// UpsertTransportPriceList replaces a synced list and its city prices in one
// transaction so readers never see a half-written list.
func (r *Repo) UpsertTransportPriceList(ctx context.Context, l domain.TransportPriceList) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsertPriceListSQL,
		l.ID,
		l.Name,
		valStr(l.Supplier),
		valStr(l.TransportType),
		valDate(l.ValidFrom),
		valDate(l.ValidTo),
		valJSON(l.RawJSON),
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, deleteTransportPricesSQL, l.ID); err != nil {
		return err
	}
	if len(l.Prices) > 0 {
		values := make([]string, 0, len(l.Prices))
		args := make([]any, 0, len(l.Prices)*8)
		for i, p := range l.Prices {
			currency := p.Currency
			if currency == "" {
				currency = "EUR"
			}
			values = append(values, "(?,?,?,?,?,?,?,?)")
			args = append(args,
				l.ID,
				p.DepartureCity,
				valStr(p.DepartureLocation),
				int64(p.PricePerPerson),
				valMoney(p.ChildPrice),
				p.ChildAgeLimit,
				currency,
				i,
			)
		}
		if _, err = tx.ExecContext(ctx, insertTransportPricesPrefix+strings.Join(values, ","), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetTransportPrice matches the departure city case-insensitively.
func (r *Repo) GetTransportPrice(ctx context.Context, listID, city string) (domain.TransportPrice, error) {
	var (
		p     domain.TransportPrice
		loc   sql.NullString
		cents int64
		child sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, getTransportPriceSQL, listID, strings.TrimSpace(city)).Scan(
		&p.DepartureCity, &loc, &cents, &child, &p.ChildAgeLimit, &p.Currency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TransportPrice{}, fmt.Errorf("transport price %s/%s: %w", listID, city, domain.ErrNotFound)
		}
		return domain.TransportPrice{}, err
	}
	p.DepartureLocation = strPtr(loc)
	p.PricePerPerson = domain.Money(cents)
	p.ChildPrice = moneyPtr(child)
	return p, nil
}

func (r *Repo) LogMiss(ctx context.Context, listID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, listID, status, reason)
	return err
}
