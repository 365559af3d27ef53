package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pethotel/internal/app"
	"pethotel/internal/shared"
)

// Owner-side catalog management. Ownership of the targeted hotel is enforced
// by the application layer; these handlers only shape requests and responses.
func (h *Handlers) mountOwner(m chi.Router) {
	m.Post("/v1/owner/hotels", h.createHotel)
	m.Put("/v1/owner/hotels/{id}", h.updateHotel)
	m.Delete("/v1/owner/hotels/{id}", h.deleteHotel)
	m.Get("/v1/owner/hotels/{id}/reservations", h.listHotelReservations)

	m.Post("/v1/owner/hotels/{id}/rooms", h.createRoom)
	m.Put("/v1/owner/rooms/{id}", h.updateRoom)
	m.Delete("/v1/owner/rooms/{id}", h.deleteRoom)

	m.Post("/v1/owner/hotels/{id}/services", h.createService)
	m.Put("/v1/owner/hotels/{id}/services/{serviceID}", h.updateService)
	m.Delete("/v1/owner/hotels/{id}/services/{serviceID}", h.deleteService)
}

type hotelReq struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	City        string   `json:"city" validate:"omitempty,max=255"`
	Address     string   `json:"address" validate:"omitempty,max=512"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Phone       string   `json:"phone" validate:"omitempty,max=64"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req hotelReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	detail, err := h.Catalog.CreateHotel(r.Context(), sessionFrom(r), hotelInput(req))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewHotelDetail(detail))
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req hotelReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	detail, err := h.Catalog.UpdateHotel(r.Context(), sessionFrom(r), id, hotelInput(req))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewHotelDetail(detail))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteHotel(r.Context(), sessionFrom(r), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listHotelReservations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.Bookings.ListHotelReservations(r.Context(), sessionFrom(r), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]reservationView, 0, len(items))
	for _, it := range items {
		out = append(out, viewReservation(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

type roomReq struct {
	Name          string   `json:"name" validate:"required,min=1,max=255"`
	PricePerNight int64    `json:"price_per_night" validate:"required,gt=0"`
	MaxPets       int      `json:"max_pets" validate:"required,gt=0"`
	Description   string   `json:"description" validate:"omitempty,max=5000"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req roomReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	room, err := h.Catalog.CreateRoom(r.Context(), sessionFrom(r), hotelID, roomInput(req))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewRoom(room))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req roomReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	room, err := h.Catalog.UpdateRoom(r.Context(), sessionFrom(r), roomID, roomInput(req))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewRoom(room))
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteRoom(r.Context(), sessionFrom(r), roomID); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type serviceReq struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Price int64  `json:"price" validate:"required,gt=0"`
}

func (h *Handlers) createService(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req serviceReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	svc, err := h.Catalog.CreateService(r.Context(), sessionFrom(r), hotelID, app.ServiceInput{Name: req.Name, Price: req.Price})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewService(svc))
}

func (h *Handlers) updateService(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	serviceID, ok := pathID(w, r, "serviceID")
	if !ok {
		return
	}
	var req serviceReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	svc, err := h.Catalog.UpdateService(r.Context(), sessionFrom(r), hotelID, serviceID, app.ServiceInput{Name: req.Name, Price: req.Price})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewService(svc))
}

func (h *Handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	serviceID, ok := pathID(w, r, "serviceID")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteService(r.Context(), sessionFrom(r), hotelID, serviceID); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func hotelInput(req hotelReq) app.HotelInput {
	return app.HotelInput{
		Name: req.Name, City: req.City, Address: req.Address,
		Description: req.Description, Phone: req.Phone, Images: req.Images,
	}
}

func roomInput(req roomReq) app.RoomInput {
	return app.RoomInput{
		Name: req.Name, PricePerNight: req.PricePerNight, MaxPets: req.MaxPets,
		Description: req.Description, Images: req.Images,
	}
}
