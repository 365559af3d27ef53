package app

import (
	"context"
	"fmt"
	"time"

	"pethotel/internal/adapters/observability"
	"pethotel/internal/domain"
)

type BookingService struct {
	resv    domain.ReservationRepository
	catalog domain.CatalogRepository
	users   domain.UserRepository
}

func NewBookingService(resv domain.ReservationRepository, catalog domain.CatalogRepository, users domain.UserRepository) *BookingService {
	return &BookingService{resv: resv, catalog: catalog, users: users}
}

type CreateReservationInput struct {
	HotelID         int64
	RoomID          int64
	PetIDs          []int64
	CheckIn         time.Time
	CheckOut        time.Time
	ServiceIDs      []int64
	SpecialRequests string
}

type AvailabilityResult struct {
	Available bool `json:"available"`
	Occupancy int  `json:"occupancy"`
	MaxPets   int  `json:"max_pets"`
	Nights    int  `json:"nights"`
}

// CreateReservation validates the booking form, checks room capacity for the
// requested window, prices the stay, and persists a pending reservation.
// The returned value reflects what the store accepted; nothing is assumed
// before the write succeeds.
func (s *BookingService) CreateReservation(ctx context.Context, sess domain.Session, in CreateReservationInput) (domain.Reservation, error) {
	dr, err := domain.NewDateRange(in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.Reservation{}, err
	}
	req, err := domain.BuildReservationRequest(in.HotelID, in.RoomID, in.PetIDs, dr, in.ServiceIDs, in.SpecialRequests)
	if err != nil {
		return domain.Reservation{}, err
	}

	room, err := s.catalog.GetRoom(ctx, req.RoomID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("load room %d: %w", req.RoomID, err)
	}
	if room.HotelID != req.HotelID {
		return domain.Reservation{}, domain.ErrNotFound
	}

	for _, petID := range req.PetIDs {
		pet, err := s.users.GetPet(ctx, petID)
		if err != nil {
			return domain.Reservation{}, fmt.Errorf("load pet %d: %w", petID, err)
		}
		if pet.OwnerID != sess.UserID {
			return domain.Reservation{}, domain.ErrNotOwner
		}
	}

	services, err := s.catalog.GetServices(ctx, req.HotelID, req.ServiceIDs)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("load services: %w", err)
	}
	if len(services) != len(req.ServiceIDs) {
		// a selected add-on does not exist or belongs to another hotel
		return domain.Reservation{}, domain.ErrNotFound
	}

	occ, err := s.resv.OccupancyForRange(ctx, req.RoomID, req.Dates)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("occupancy for room %d: %w", req.RoomID, err)
	}
	ok, err := domain.RoomHasCapacity(room, occ, len(req.PetIDs))
	if err != nil {
		return domain.Reservation{}, err
	}
	if !ok {
		return domain.Reservation{}, domain.ErrRoomUnavailable
	}

	total, err := domain.ComputeTotal(room.PricePerNight, len(req.PetIDs), req.Dates.Nights(), services)
	if err != nil {
		return domain.Reservation{}, err
	}

	r := domain.Reservation{
		UserID:     sess.UserID,
		HotelID:    req.HotelID,
		RoomID:     req.RoomID,
		PetIDs:     req.PetIDs,
		CheckIn:    req.Dates.CheckIn(),
		CheckOut:   req.Dates.CheckOut(),
		ServiceIDs: req.ServiceIDs,
		TotalPrice: total,
		Status:     domain.StatusPending,
	}
	if in.SpecialRequests != "" {
		r.SpecialRequests = &in.SpecialRequests
	}
	id, err := s.resv.CreateReservation(ctx, r)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	observability.ObserveReservation(req.HotelID)
	return s.resv.GetReservation(ctx, id)
}

// CheckAvailability answers the room-availability query clients poll while
// filling the booking form.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time, petCount int) (AvailabilityResult, error) {
	dr, err := domain.NewDateRange(checkIn, checkOut)
	if err != nil {
		return AvailabilityResult{}, err
	}
	room, err := s.catalog.GetRoom(ctx, roomID)
	if err != nil {
		return AvailabilityResult{}, err
	}
	occ, err := s.resv.OccupancyForRange(ctx, roomID, dr)
	if err != nil {
		return AvailabilityResult{}, err
	}
	ok, err := domain.RoomHasCapacity(room, occ, petCount)
	if err != nil {
		return AvailabilityResult{}, err
	}
	return AvailabilityResult{Available: ok, Occupancy: occ, MaxPets: room.MaxPets, Nights: dr.Nights()}, nil
}

func (s *BookingService) GetReservation(ctx context.Context, sess domain.Session, id int64) (domain.Reservation, error) {
	r, err := s.resv.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if err := s.canView(ctx, sess, r); err != nil {
		return domain.Reservation{}, err
	}
	return r, nil
}

func (s *BookingService) ListUserReservations(ctx context.Context, sess domain.Session) ([]domain.Reservation, error) {
	return s.resv.ListUserReservations(ctx, sess.UserID)
}

func (s *BookingService) ListHotelReservations(ctx context.Context, sess domain.Session, hotelID int64) ([]domain.Reservation, error) {
	if err := s.requireHotelOwner(ctx, sess, hotelID); err != nil {
		return nil, err
	}
	return s.resv.ListHotelReservations(ctx, hotelID)
}

// Confirm moves a pending reservation to confirmed. Hotel owner only.
func (s *BookingService) Confirm(ctx context.Context, sess domain.Session, id int64) (domain.Reservation, error) {
	return s.transition(ctx, sess, id, domain.StatusConfirmed, true)
}

// Complete marks a confirmed stay as finished. Hotel owner only.
func (s *BookingService) Complete(ctx context.Context, sess domain.Session, id int64) (domain.Reservation, error) {
	return s.transition(ctx, sess, id, domain.StatusCompleted, true)
}

// Cancel is allowed to the booking customer and to the hotel owner.
func (s *BookingService) Cancel(ctx context.Context, sess domain.Session, id int64) (domain.Reservation, error) {
	return s.transition(ctx, sess, id, domain.StatusCancelled, false)
}

func (s *BookingService) transition(ctx context.Context, sess domain.Session, id int64, to domain.ReservationStatus, ownerOnly bool) (domain.Reservation, error) {
	r, err := s.resv.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	if ownerOnly {
		if err := s.requireHotelOwner(ctx, sess, r.HotelID); err != nil {
			return domain.Reservation{}, err
		}
	} else if r.UserID != sess.UserID {
		if err := s.requireHotelOwner(ctx, sess, r.HotelID); err != nil {
			return domain.Reservation{}, err
		}
	}

	if !r.Status.CanTransitionTo(to) {
		return domain.Reservation{}, domain.ErrInvalidStatusTransition
	}
	// The store is authoritative: only a successful compare-and-set makes
	// the transition real, and the row is re-read afterwards.
	if err := s.resv.UpdateReservationStatus(ctx, id, r.Status, to); err != nil {
		return domain.Reservation{}, err
	}
	observability.ObserveTransition(string(r.Status), string(to))
	return s.resv.GetReservation(ctx, id)
}

func (s *BookingService) canView(ctx context.Context, sess domain.Session, r domain.Reservation) error {
	if r.UserID == sess.UserID {
		return nil
	}
	return s.requireHotelOwner(ctx, sess, r.HotelID)
}

func (s *BookingService) requireHotelOwner(ctx context.Context, sess domain.Session, hotelID int64) error {
	if !sess.IsOwner() {
		return domain.ErrNotOwner
	}
	hd, err := s.catalog.GetHotel(ctx, hotelID)
	if err != nil {
		return err
	}
	if hd.Hotel.OwnerID != sess.UserID {
		return domain.ErrNotOwner
	}
	return nil
}
