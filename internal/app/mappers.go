package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tour_backoffice/internal/domain"
)

/********** alias registries (single source of truth) **********/

var priceListAliases = map[string][]string{
	"name":           {"name", "title", "price_list_name", "priceListName"},
	"supplier":       {"supplier_name", "supplier.name", "supplier", "carrier", "operator"},
	"transport_type": {"transport_type", "transportType", "mode", "type"},
	"valid_from":     {"valid_from", "validFrom", "validity.from", "period.start"},
	"valid_to":       {"valid_to", "validTo", "validity.to", "period.end"},
}

var priceAliases = map[string][]string{
	"city":            {"departure_city", "departureCity", "city", "from.city", "departure.city"},
	"location":        {"departure_location", "departureLocation", "location", "pickup_point", "from.location"},
	"price":           {"price_per_person", "pricePerPerson", "adult_price", "price", "amount"},
	"child_price":     {"child_price", "childPrice", "price_child", "prices.child"},
	"child_age_limit": {"child_age_limit", "childAgeLimit", "child_age", "child_max_age"},
	"currency":        {"currency", "currency_code", "currencyCode"},
}

const defaultChildAgeLimit = 12

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// getFloatFlexible: number from several paths (float64/int/string like "55,00").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// dateAlias accepts "2026-06-01" and RFC 3339 timestamps.
func dateAlias(m map[string]any, aliases map[string][]string, key string) *domain.Date {
	s := deref(firstNonEmptyAlias(m, aliases, key))
	if len(s) > len(domain.DateLayout) {
		s = s[:len(domain.DateLayout)]
	}
	if s == "" {
		return nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		log.Warn().Err(err).Str("field", key).Msg("ignoring unparsable date")
		return nil
	}
	return &d
}

/********** price list mapper **********/

func mapPriceList(id string, head map[string]any, rows []map[string]any) domain.TransportPriceList {
	raw, err := json.Marshal(head)
	if err != nil {
		log.Error().Err(err).Str("context", "mapPriceList").Msg("marshal price list failed")
	}
	return domain.TransportPriceList{
		ID:            id,
		Name:          deref(firstNonEmptyAlias(head, priceListAliases, "name")),
		Supplier:      firstNonEmptyAlias(head, priceListAliases, "supplier"),
		TransportType: firstNonEmptyAlias(head, priceListAliases, "transport_type"),
		ValidFrom:     dateAlias(head, priceListAliases, "valid_from"),
		ValidTo:       dateAlias(head, priceListAliases, "valid_to"),
		Prices:        mapPrices(id, rows),
		RawJSON:       raw,
	}
}

// mapPrices keeps the first row per city (case-insensitive); rows without a
// city or an adult price are dropped.
func mapPrices(listID string, rows []map[string]any) []domain.TransportPrice {
	out := make([]domain.TransportPrice, 0, len(rows))
	seen := map[string]bool{}
	for _, r := range rows {
		city := deref(firstNonEmptyAlias(r, priceAliases, "city"))
		price := getFloatFlexible(r, priceAliases["price"]...)
		if city == "" || price == nil {
			log.Warn().Str("price_list", listID).Str("city", city).Msg("skipping incomplete price row")
			continue
		}
		if seen[strings.ToLower(city)] {
			continue
		}
		seen[strings.ToLower(city)] = true

		p := domain.TransportPrice{
			DepartureCity:     city,
			DepartureLocation: firstNonEmptyAlias(r, priceAliases, "location"),
			PricePerPerson:    domain.Euros(*price),
			ChildAgeLimit:     defaultChildAgeLimit,
			Currency:          strings.ToUpper(deref(firstNonEmptyAlias(r, priceAliases, "currency"))),
		}
		if cp := getFloatFlexible(r, priceAliases["child_price"]...); cp != nil {
			m := domain.Euros(*cp)
			p.ChildPrice = &m
		}
		if lim := getFloatFlexible(r, priceAliases["child_age_limit"]...); lim != nil && *lim > 0 {
			p.ChildAgeLimit = *lim
		}
		if p.Currency == "" {
			p.Currency = "EUR"
		}
		out = append(out, p)
	}
	return out
}
