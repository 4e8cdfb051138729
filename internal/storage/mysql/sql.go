package mysql

// -----------------------------------------------------------------------------
// PACKAGE SNAPSHOT (read-only to the pricing core)
// -----------------------------------------------------------------------------

const getPackageSQL = `
SELECT id, name, package_type, meal_plans, transport_type,
       transport_price_fixed, transport_price_per_person, transport_price_list_id
FROM packages
WHERE id = ?
`

const listApartmentsSQL = `
SELECT id, name, max_persons, total_units
FROM apartments
WHERE package_id = ?
ORDER BY sort_order, id
`

const listRoomTypesSQL = `
SELECT id, code, name, max_persons
FROM room_types
WHERE package_id = ?
ORDER BY sort_order, id
`

const listIntervalsSQL = `
SELECT id, name, start_date, end_date
FROM price_intervals
WHERE package_id = ?
ORDER BY start_date, id
`

const listApartmentPricesSQL = `
SELECT ap.interval_id, ap.apartment_id, ap.price_cents
FROM apartment_prices ap
JOIN price_intervals pi ON pi.id = ap.interval_id
WHERE pi.package_id = ?
`

const listHotelPricesSQL = `
SELECT hp.interval_id, hp.room_type_id, hp.meal_plan, hp.price_cents
FROM hotel_prices hp
JOIN price_intervals pi ON pi.id = hp.interval_id
WHERE pi.package_id = ?
`

// Rule order is operator-controlled; sort_order is the only ordering key.
const listRulesSQL = `
SELECT id, rule_name, age_from, age_to, discount_type, discount_value,
       min_adults, max_adults, child_position, room_type_codes, bed_type
FROM children_policy_rules
WHERE package_id = ?
ORDER BY sort_order, id
`

// -----------------------------------------------------------------------------
// DEPARTURES & SHIFTS
// -----------------------------------------------------------------------------

const departureCols = `id, package_id, departure_date, return_date, total_spots, available_spots`

const shiftCols = `id, package_id, name, start_date, end_date, transport_price_per_person,
       total_spots, available_spots, booked, status`

const getDepartureSQL = `SELECT ` + departureCols + ` FROM departures WHERE id = ?`

const getShiftSQL = `SELECT ` + shiftCols + ` FROM shifts WHERE id = ?`

const listShiftsSQL = `SELECT ` + shiftCols + ` FROM shifts WHERE package_id = ? ORDER BY sort_order, start_date`

const insertDeparturesPrefix = "INSERT INTO departures\n  (" + departureCols + ")\nVALUES "

const insertShiftsPrefix = "INSERT INTO shifts\n  (id, package_id, name, start_date, end_date, transport_price_per_person,\n   total_spots, available_spots, booked, status, sort_order)\nVALUES "

// -----------------------------------------------------------------------------
// CAPACITY: each mutation is one conditional statement; the row lock taken by
// UPDATE is the only synchronization. RowsAffected = 0 means the guard failed.
// -----------------------------------------------------------------------------

const reserveDepartureSQL = `
UPDATE departures
SET available_spots = available_spots - ?
WHERE id = ? AND available_spots >= ?
`

const releaseDepartureSQL = `
UPDATE departures
SET available_spots = LEAST(total_spots, available_spots + ?)
WHERE id = ?
`

// MySQL evaluates single-table SET assignments left to right, so the status
// CASE sees the already decremented available_spots.
const reserveShiftSQL = `
UPDATE shifts
SET available_spots = available_spots - ?,
    booked          = booked + ?,
    status          = CASE WHEN available_spots = 0 THEN 'full' ELSE status END
WHERE id = ? AND status <> 'cancelled' AND available_spots >= ?
`

const releaseShiftSQL = `
UPDATE shifts
SET available_spots = LEAST(total_spots, available_spots + ?),
    booked          = GREATEST(0, booked - ?),
    status          = CASE WHEN status = 'full' AND available_spots > 0 THEN 'active' ELSE status END
WHERE id = ?
`

// -----------------------------------------------------------------------------
// TRANSPORT PRICE LISTS
// -----------------------------------------------------------------------------

const upsertPriceListSQL = `
INSERT INTO transport_price_lists
  (id, name, supplier_name, transport_type, valid_from, valid_to, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name           = VALUES(name),
  supplier_name  = VALUES(supplier_name),
  transport_type = VALUES(transport_type),
  valid_from     = VALUES(valid_from),
  valid_to       = VALUES(valid_to),
  raw            = VALUES(raw),
  updated_at     = CURRENT_TIMESTAMP
`

const deleteTransportPricesSQL = `DELETE FROM transport_prices WHERE price_list_id = ?`

const insertTransportPricesPrefix = "INSERT INTO transport_prices\n  (price_list_id, departure_city, departure_location, price_cents, child_price_cents, child_age_limit, currency, sort_order)\nVALUES "

const getTransportPriceSQL = `
SELECT departure_city, departure_location, price_cents, child_price_cents, child_age_limit, currency
FROM transport_prices
WHERE price_list_id = ? AND LOWER(departure_city) = LOWER(?)
`

const insertMissSQL = `
INSERT INTO sync_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), reason = VALUES(reason), seen_at = CURRENT_TIMESTAMP
`
