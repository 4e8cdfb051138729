package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// outbound supplier refused the credentials (401/403)
	ErrAccessDenied = errors.New("access denied")

	// configuration problems: terminal, fixed by editing the package
	ErrNoIntervalDefined = errors.New("no price interval covers the check-in date")
	ErrNotPriced         = errors.New("no price recorded for selection")
	ErrIntervalOverlap   = errors.New("price intervals overlap")
	ErrInvalidRule       = errors.New("invalid children policy rule")

	// request problems: rejected before pricing
	ErrInvalidOccupancy   = errors.New("occupancy outside unit limits")
	ErrInvalidStay        = errors.New("check-out must be after check-in")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrMealPlanNotOffered = errors.New("meal plan not offered by package")
	ErrWrongPackageType   = errors.New("request does not match package type")

	// capacity problems: recoverable by choosing another departure or shift
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrShiftCancelled       = errors.New("shift is cancelled")
)

func IsCapacityError(err error) bool {
	return errors.Is(err, ErrInsufficientCapacity) || errors.Is(err, ErrShiftCancelled)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoIntervalDefined) || errors.Is(err, ErrNotPriced) ||
		errors.Is(err, ErrIntervalOverlap) || errors.Is(err, ErrInvalidRule)
}

func IsRequestError(err error) bool {
	return errors.Is(err, ErrInvalidOccupancy) || errors.Is(err, ErrInvalidStay) ||
		errors.Is(err, ErrInvalidQuantity) || errors.Is(err, ErrMealPlanNotOffered) ||
		errors.Is(err, ErrWrongPackageType)
}
