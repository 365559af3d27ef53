package httpserver

import (
	"time"

	"pethotel/internal/domain"
)

// Read models returned over the wire. Domain structs stay tag-free; these
// fix the JSON shape independently of storage.

type userView struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Role  string  `json:"role"`
}

func viewUser(u domain.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role}
}

type petView struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Species  string  `json:"species"`
	Breed    *string `json:"breed,omitempty"`
	AgeYears *int    `json:"age_years,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

func viewPet(p domain.Pet) petView {
	return petView{
		ID: p.ID, Name: p.Name, Species: p.Species, Breed: p.Breed,
		AgeYears: p.AgeYears, Notes: p.Notes, PhotoURL: p.PhotoURL,
	}
}

type hotelView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	City        *string  `json:"city,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Description *string  `json:"description,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Images      []string `json:"images"`
}

func viewHotel(h domain.Hotel) hotelView {
	images := h.Images
	if images == nil {
		images = []string{}
	}
	return hotelView{
		ID: h.ID, Name: h.Name, City: h.City, Address: h.Address,
		Description: h.Description, Phone: h.Phone, Images: images,
	}
}

type roomView struct {
	ID            int64    `json:"id"`
	HotelID       int64    `json:"hotel_id"`
	Name          string   `json:"name"`
	PricePerNight int64    `json:"price_per_night"`
	MaxPets       int      `json:"max_pets"`
	Description   *string  `json:"description,omitempty"`
	Images        []string `json:"images"`
}

func viewRoom(r domain.Room) roomView {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return roomView{
		ID: r.ID, HotelID: r.HotelID, Name: r.Name, PricePerNight: r.PricePerNight,
		MaxPets: r.MaxPets, Description: r.Description, Images: images,
	}
}

type serviceView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func viewService(s domain.Service) serviceView {
	return serviceView{ID: s.ID, Name: s.Name, Price: s.Price}
}

type hotelDetailView struct {
	hotelView
	Rooms    []roomView    `json:"rooms"`
	Services []serviceView `json:"services"`
}

func viewHotelDetail(d domain.HotelDetail) hotelDetailView {
	out := hotelDetailView{
		hotelView: viewHotel(d.Hotel),
		Rooms:     make([]roomView, 0, len(d.Rooms)),
		Services:  make([]serviceView, 0, len(d.Services)),
	}
	for _, r := range d.Rooms {
		out.Rooms = append(out.Rooms, viewRoom(r))
	}
	for _, s := range d.Services {
		out.Services = append(out.Services, viewService(s))
	}
	return out
}

type reservationView struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	HotelID         int64     `json:"hotel_id"`
	RoomID          int64     `json:"room_id"`
	PetIDs          []int64   `json:"pet_ids"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	ServiceIDs      []int64   `json:"service_ids"`
	SpecialRequests *string   `json:"special_requests,omitempty"`
	TotalPrice      int64     `json:"total_price"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func viewReservation(r domain.Reservation) reservationView {
	pets := r.PetIDs
	if pets == nil {
		pets = []int64{}
	}
	services := r.ServiceIDs
	if services == nil {
		services = []int64{}
	}
	return reservationView{
		ID:              r.ID,
		UserID:          r.UserID,
		HotelID:         r.HotelID,
		RoomID:          r.RoomID,
		PetIDs:          pets,
		CheckIn:         r.CheckIn.Format("2006-01-02"),
		CheckOut:        r.CheckOut.Format("2006-01-02"),
		ServiceIDs:      services,
		SpecialRequests: r.SpecialRequests,
		TotalPrice:      r.TotalPrice,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
