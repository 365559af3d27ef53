package domain

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// CanTransitionTo encodes the reservation lifecycle:
// pending -> confirmed | cancelled, confirmed -> cancelled | completed.
// cancelled and completed are terminal.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	default:
		return false
	}
}

func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Reservation struct {
	ID              int64
	UserID          int64
	HotelID         int64
	RoomID          int64
	PetIDs          []int64
	CheckIn         time.Time
	CheckOut        time.Time
	ServiceIDs      []int64
	SpecialRequests *string
	TotalPrice      int64
	Status          ReservationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
