package domain

import "context"

type CatalogRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h Hotel) (int64, error)
	UpdateHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id int64) error
	CreateRoom(ctx context.Context, r Room) (int64, error)
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id int64) error
	CreateService(ctx context.Context, s Service) (int64, error)
	UpdateService(ctx context.Context, s Service) error
	DeleteService(ctx context.Context, id int64) error

	// Import paths (partner feed)
	UpsertImportedHotel(ctx context.Context, h Hotel, rooms []Room, services []Service) (int64, error)
	LogImportMiss(ctx context.Context, ref string, status int, reason string) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (HotelDetail, error)
	ListHotels(ctx context.Context, q HotelsQuery) (HotelsPage, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	GetServices(ctx context.Context, hotelID int64, ids []int64) ([]Service, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, u User) error

	CreatePet(ctx context.Context, p Pet) (int64, error)
	UpdatePet(ctx context.Context, p Pet) error
	DeletePet(ctx context.Context, id, ownerID int64) error
	GetPet(ctx context.Context, id int64) (Pet, error)
	ListPets(ctx context.Context, ownerID int64) ([]Pet, error)
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, r Reservation) (int64, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	ListUserReservations(ctx context.Context, userID int64) ([]Reservation, error)
	ListHotelReservations(ctx context.Context, hotelID int64) ([]Reservation, error)

	// UpdateReservationStatus applies from -> to atomically and fails with
	// ErrInvalidStatusTransition when the stored status is no longer from.
	UpdateReservationStatus(ctx context.Context, id int64, from, to ReservationStatus) error

	// OccupancyForRange counts pets already booked (pending or confirmed)
	// into the room for date ranges overlapping dr.
	OccupancyForRange(ctx context.Context, roomID int64, dr DateRange) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CatalogFeed is the outbound partner content API the importer pulls
// hotel/room/service records from.
type CatalogFeed interface {
	ListProperties(ctx context.Context) ([]string, error)
	GetProperty(ctx context.Context, ref string) (map[string]any, error)
}
