package pricing

import (
	"fmt"
	"slices"
	"sort"

	"tour_backoffice/internal/domain"
)

// ChildContext is what a rule can match on for one child.
type ChildContext struct {
	Age      float64
	Position int // 1-based, oldest first
	RoomCode string
	BedType  domain.BedType
	Adults   int
}

// Matches reports whether every condition the rule defines holds for c.
func Matches(r domain.ChildrenPolicyRule, c ChildContext) bool {
	if c.Age < r.AgeFrom || c.Age > r.AgeTo {
		return false
	}
	if r.MinAdults != nil && c.Adults < *r.MinAdults {
		return false
	}
	if r.MaxAdults != nil && c.Adults > *r.MaxAdults {
		return false
	}
	if r.ChildPosition != nil && c.Position != *r.ChildPosition {
		return false
	}
	if len(r.RoomTypeCodes) > 0 && !slices.Contains(r.RoomTypeCodes, c.RoomCode) {
		return false
	}
	if r.BedType != "" && r.BedType != domain.BedAny && r.BedType != c.BedType {
		return false
	}
	return true
}

// PriceChild scans rules in stored order and prices the child by the first
// match. With no match the child pays base. The matched rule is returned for
// the breakdown, nil otherwise.
func PriceChild(rules []domain.ChildrenPolicyRule, c ChildContext, base domain.Money) (domain.Money, *domain.ChildrenPolicyRule) {
	for i := range rules {
		if !Matches(rules[i], c) {
			continue
		}
		r := &rules[i]
		switch r.DiscountType {
		case domain.DiscountFree:
			return 0, r
		case domain.DiscountPercent:
			return base - base.Percent(r.DiscountValue), r
		case domain.DiscountFixed:
			return domain.Euros(r.DiscountValue), r
		default:
			return base, r
		}
	}
	return base, nil
}

// OrderChildren returns children oldest first with their 1-based positions.
// Equal ages keep request order.
func OrderChildren(children []domain.ChildGuest) []domain.ChildGuest {
	out := slices.Clone(children)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Age > out[j].Age })
	return out
}

// RuleOverlap flags two rules whose age ranges intersect. Overlap is legal
// (list order decides) but authoring tools surface it.
type RuleOverlap struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

func OverlappingRules(rules []domain.ChildrenPolicyRule) []RuleOverlap {
	var out []RuleOverlap
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rules[i].AgeFrom <= rules[j].AgeTo && rules[j].AgeFrom <= rules[i].AgeTo {
				out = append(out, RuleOverlap{First: i, Second: j})
			}
		}
	}
	return out
}

func ValidateRule(r domain.ChildrenPolicyRule) error {
	switch {
	case r.AgeFrom < 0 || r.AgeTo < r.AgeFrom:
		return fmt.Errorf("%w: age range %g-%g", domain.ErrInvalidRule, r.AgeFrom, r.AgeTo)
	case r.DiscountValue < 0:
		return fmt.Errorf("%w: negative discount value", domain.ErrInvalidRule)
	case r.MinAdults != nil && r.MaxAdults != nil && *r.MinAdults > *r.MaxAdults:
		return fmt.Errorf("%w: min_adults above max_adults", domain.ErrInvalidRule)
	case r.ChildPosition != nil && *r.ChildPosition < 1:
		return fmt.Errorf("%w: child_position is 1-based", domain.ErrInvalidRule)
	case !r.BedType.Valid():
		return fmt.Errorf("%w: bed type %q", domain.ErrInvalidRule, r.BedType)
	}
	switch r.DiscountType {
	case domain.DiscountFree, domain.DiscountFixed:
	case domain.DiscountPercent:
		if r.DiscountValue > 100 {
			return fmt.Errorf("%w: percent %g above 100", domain.ErrInvalidRule, r.DiscountValue)
		}
	default:
		return fmt.Errorf("%w: discount type %q", domain.ErrInvalidRule, r.DiscountType)
	}
	return nil
}

func describeDiscount(r *domain.ChildrenPolicyRule) string {
	if r == nil {
		return "full price"
	}
	switch r.DiscountType {
	case domain.DiscountFree:
		return "free"
	case domain.DiscountPercent:
		return fmt.Sprintf("-%g%%", r.DiscountValue)
	case domain.DiscountFixed:
		return "fixed €" + domain.Euros(r.DiscountValue).String()
	}
	return "full price"
}
