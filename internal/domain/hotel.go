package domain

// All money fields are minor currency units (cents).

type Hotel struct {
	ID          int64
	OwnerID     int64
	Name        string
	City        *string
	Address     *string
	Description *string
	Phone       *string
	Images      []string
	SourceRef   *string // partner feed reference, set only for imported records
}

type Room struct {
	ID            int64
	HotelID       int64
	Name          string
	PricePerNight int64
	MaxPets       int
	Description   *string
	Images        []string
}

// Service is an optional, separately priced add-on selectable alongside a
// room booking (grooming, walks, ...).
type Service struct {
	ID      int64
	HotelID int64
	Name    string
	Price   int64
}

// HotelDetail is the read model served to browsing clients.
type HotelDetail struct {
	Hotel    Hotel
	Rooms    []Room
	Services []Service
}

type HotelsQuery struct {
	City  *string
	Q     *string
	Limit int
}

type HotelsPage struct {
	Items []Hotel
}
