package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Booking validation failures. All are detected locally, before any
	// storage or network interaction.
	ErrInvalidDateRange     = errors.New("check-out must be strictly after check-in")
	ErrInvalidPricingInput  = errors.New("invalid pricing input")
	ErrInvalidCapacityInput = errors.New("invalid capacity input")
	ErrMissingPetSelection  = errors.New("at least one pet must be selected")
	ErrMissingSelection     = errors.New("hotel and room must be selected")

	ErrInvalidStatusTransition = errors.New("invalid reservation status transition")
	ErrRoomUnavailable         = errors.New("room has no capacity for the requested dates")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotOwner           = errors.New("caller does not own this resource")
)
