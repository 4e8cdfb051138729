package domain

// TransportRate is the per-person transport price resolved for a quote.
// Children younger than ChildAgeLimit pay ChildPrice when it is set.
type TransportRate struct {
	Source        string  `json:"source"` // shift|package|price_list
	PerPerson     Money   `json:"price_per_person"`
	ChildPrice    *Money  `json:"child_price,omitempty"`
	ChildAgeLimit float64 `json:"child_age_limit,omitempty"`
}

// PriceFor returns what one traveller of the given age pays; age < 0 means adult.
func (r TransportRate) PriceFor(age float64) Money {
	if age >= 0 && r.ChildPrice != nil && age < r.ChildAgeLimit {
		return *r.ChildPrice
	}
	return r.PerPerson
}

// TransportPriceList is a supplier price list synced from the transport API.
type TransportPriceList struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Supplier      *string          `json:"supplier_name,omitempty"`
	TransportType *string          `json:"transport_type,omitempty"`
	ValidFrom     *Date            `json:"valid_from,omitempty"`
	ValidTo       *Date            `json:"valid_to,omitempty"`
	Prices        []TransportPrice `json:"prices"`
	RawJSON       []byte           `json:"-"`
}

type TransportPrice struct {
	DepartureCity     string  `json:"departure_city"`
	DepartureLocation *string `json:"departure_location,omitempty"`
	PricePerPerson    Money   `json:"price_per_person"`
	ChildPrice        *Money  `json:"child_price,omitempty"`
	ChildAgeLimit     float64 `json:"child_age_limit"`
	Currency          string  `json:"currency"`
}

func (p TransportPrice) Rate() TransportRate {
	return TransportRate{
		Source:        "price_list",
		PerPerson:     p.PricePerPerson,
		ChildPrice:    p.ChildPrice,
		ChildAgeLimit: p.ChildAgeLimit,
	}
}
