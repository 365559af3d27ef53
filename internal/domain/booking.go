package domain

import "time"

// DateRange is a validated check-in/check-out pair. Both endpoints are
// normalized to midnight UTC so that Nights counts whole calendar days,
// not elapsed hours. Immutable: changing either endpoint means building
// a new range.
type DateRange struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewDateRange builds a DateRange. It fails with ErrInvalidDateRange when
// either date is missing (zero) or check-out is not strictly after check-in.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return DateRange{}, ErrInvalidDateRange
	}
	ci := toDate(checkIn)
	co := toDate(checkOut)
	if !co.After(ci) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{checkIn: ci, checkOut: co}, nil
}

func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (d DateRange) CheckIn() time.Time  { return d.checkIn }
func (d DateRange) CheckOut() time.Time { return d.checkOut }

// Nights returns the whole-day span of the range. Always >= 1 for a range
// that passed the constructor.
func (d DateRange) Nights() int {
	return int(d.checkOut.Sub(d.checkIn) / (24 * time.Hour))
}

// IsZero reports whether the range was never constructed.
func (d DateRange) IsZero() bool { return d.checkIn.IsZero() }

// ComputeTotal prices a stay in minor currency units:
// nightlyRate * nights * petCount plus the price of every selected add-on
// service. Pure and order-independent over services.
func ComputeTotal(nightlyRate int64, petCount, nights int, services []Service) (int64, error) {
	if nightlyRate < 0 || petCount < 1 || nights < 1 {
		return 0, ErrInvalidPricingInput
	}
	total := nightlyRate * int64(nights) * int64(petCount)
	for _, s := range services {
		if s.Price < 0 {
			return 0, ErrInvalidPricingInput
		}
		total += s.Price
	}
	return total, nil
}

// RoomHasCapacity decides whether requestedPets more pets fit into the room
// given the occupancy already booked for overlapping date ranges. Capacity is
// an aggregate pet count per room per window, not per reservation slot.
func RoomHasCapacity(room Room, occupancy, requestedPets int) (bool, error) {
	if room.MaxPets < 0 || occupancy < 0 || requestedPets < 0 {
		return false, ErrInvalidCapacityInput
	}
	return occupancy+requestedPets <= room.MaxPets, nil
}

// ReservationRequest is a validated, ready-to-submit booking. Construct it
// through BuildReservationRequest only.
type ReservationRequest struct {
	HotelID         int64
	RoomID          int64
	PetIDs          []int64
	Dates           DateRange
	ServiceIDs      []int64
	SpecialRequests string
}

// BuildReservationRequest validates the booking form in a fixed order:
// pet selection first, then the date range, then hotel/room selection.
// Pet and service IDs are de-duplicated; service order is irrelevant.
func BuildReservationRequest(hotelID, roomID int64, petIDs []int64, dates DateRange, serviceIDs []int64, specialRequests string) (ReservationRequest, error) {
	pets := dedupe(petIDs)
	if len(pets) == 0 {
		return ReservationRequest{}, ErrMissingPetSelection
	}
	if dates.IsZero() {
		return ReservationRequest{}, ErrInvalidDateRange
	}
	if hotelID == 0 || roomID == 0 {
		return ReservationRequest{}, ErrMissingSelection
	}
	return ReservationRequest{
		HotelID:         hotelID,
		RoomID:          roomID,
		PetIDs:          pets,
		Dates:           dates,
		ServiceIDs:      dedupe(serviceIDs),
		SpecialRequests: specialRequests,
	}, nil
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
