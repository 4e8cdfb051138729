package pricing

import (
	"fmt"

	"tour_backoffice/internal/domain"
)

// Report is the authoring-time health check of one package.
// Errors block publishing; warnings are shown to the operator.
type Report struct {
	PackageID    string        `json:"package_id"`
	Errors       []string      `json:"errors"`
	Warnings     []string      `json:"warnings"`
	RuleOverlaps []RuleOverlap `json:"rule_overlaps"`
}

func (r Report) OK() bool { return len(r.Errors) == 0 }

func Validate(pkg domain.Package) Report {
	rep := Report{PackageID: pkg.ID.String(), Errors: []string{}, Warnings: []string{}, RuleOverlaps: []RuleOverlap{}}

	if err := ValidateIntervals(pkg.Intervals); err != nil {
		rep.Errors = append(rep.Errors, err.Error())
	}
	for i, r := range pkg.ChildrenRules {
		if err := ValidateRule(r); err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("rule %d: %v", i+1, err))
		}
	}
	if ov := OverlappingRules(pkg.ChildrenRules); len(ov) > 0 {
		rep.RuleOverlaps = ov
		for _, o := range ov {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("children rules %d and %d overlap by age; rule %d wins", o.First+1, o.Second+1, o.First+1))
		}
	}

	// unset matrix cells make quotes fail with ErrNotPriced
	for _, iv := range pkg.Intervals {
		switch pkg.Type {
		case domain.PackageFixed:
			for _, a := range pkg.Apartments {
				if _, ok := iv.ApartmentPrices[a.ID]; !ok {
					rep.Warnings = append(rep.Warnings, fmt.Sprintf("%q: no price for apartment %q", iv.Label(), a.Name))
				}
			}
		case domain.PackageOnRequest:
			for _, rt := range pkg.RoomTypes {
				for _, mp := range pkg.MealPlans {
					if _, err := HotelPerPerson(iv, rt.ID, mp); err != nil {
						rep.Warnings = append(rep.Warnings, fmt.Sprintf("%q: no %s price for room %s", iv.Label(), mp, rt.Code))
					}
				}
			}
		}
	}
	return rep
}
