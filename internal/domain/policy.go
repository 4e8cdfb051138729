package domain

import "github.com/google/uuid"

type DiscountType string

const (
	DiscountFree    DiscountType = "FREE"
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

type BedType string

const (
	BedAny      BedType = "any"
	BedSeparate BedType = "separate"
	BedShared   BedType = "shared"
	BedExtra    BedType = "extra"
)

func (b BedType) Valid() bool {
	switch b {
	case "", BedAny, BedSeparate, BedShared, BedExtra:
		return true
	}
	return false
}

// ChildrenPolicyRule is one entry of an operator-ordered rule list.
// Ages are inclusive on both ends; 11.99 means "up to but not including 12".
// Nil or empty conditions are not checked.
type ChildrenPolicyRule struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"rule_name,omitempty"`
	AgeFrom       float64      `json:"age_from"`
	AgeTo         float64      `json:"age_to"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	MinAdults     *int         `json:"min_adults,omitempty"`
	MaxAdults     *int         `json:"max_adults,omitempty"`
	ChildPosition *int         `json:"child_position,omitempty"`
	RoomTypeCodes []string     `json:"room_type_codes,omitempty"`
	BedType       BedType      `json:"bed_type,omitempty"`
}
