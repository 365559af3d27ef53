package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pethotel/internal/adapters/token"
	"pethotel/internal/app"
	"pethotel/internal/domain"
	"pethotel/internal/shared"
)

type Handlers struct {
	Accounts *app.AccountService
	Bookings *app.BookingService
	Catalog  *app.CatalogService
	Queries  *app.QueryService
	Tokens   *token.Service
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/auth/register", h.register)
	s.mux.Post("/v1/auth/login", h.login)
	s.mux.Post("/v1/auth/refresh", h.refresh)

	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/{id}/availability", h.checkAvailability)

	s.mux.Group(func(m chi.Router) {
		m.Use(Auth(h.Tokens))

		m.Get("/v1/profile", h.getProfile)
		m.Put("/v1/profile", h.updateProfile)

		m.Get("/v1/pets", h.listPets)
		m.Post("/v1/pets", h.addPet)
		m.Put("/v1/pets/{id}", h.updatePet)
		m.Delete("/v1/pets/{id}", h.deletePet)

		m.Post("/v1/reservations", h.createReservation)
		m.Get("/v1/reservations", h.listReservations)
		m.Get("/v1/reservations/{id}", h.getReservation)
		m.Post("/v1/reservations/{id}/cancel", h.cancelReservation)
		m.Post("/v1/reservations/{id}/confirm", h.confirmReservation)
		m.Post("/v1/reservations/{id}/complete", h.completeReservation)

		h.mountOwner(m)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeValidation(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	p := problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write validation response failed")
	}
}

// writeDomainErr maps domain sentinels onto problem+json statuses.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, token.ErrExpiredToken):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrRoomUnavailable),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidPricingInput),
		errors.Is(err, domain.ErrInvalidCapacityInput),
		errors.Is(err, domain.ErrMissingPetSelection),
		errors.Is(err, domain.ErrMissingSelection):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled request error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON body failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", name+" must be a positive number")
		return 0, false
	}
	return id, true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- auth ----

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=64"`
	Role     string `json:"role" validate:"omitempty,oneof=customer owner"`
}

type authResp struct {
	User   userView   `json:"user"`
	Tokens token.Pair `json:"tokens"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	u, pair, err := h.Accounts.Register(r.Context(), app.RegisterInput{
		Email: req.Email, Password: req.Password, Name: req.Name, Phone: req.Phone, Role: req.Role,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResp{User: viewUser(u), Tokens: pair})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	u, pair, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResp{User: viewUser(u), Tokens: pair})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	pair, err := h.Accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// ---- profile & pets ----

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Accounts.GetProfile(r.Context(), sessionFrom(r))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewUser(u))
}

type updateProfileReq struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Phone string `json:"phone" validate:"omitempty,max=64"`
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	u, err := h.Accounts.UpdateProfile(r.Context(), sessionFrom(r), app.UpdateProfileInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewUser(u))
}

type petReq struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Species  string `json:"species" validate:"required,species"`
	Breed    string `json:"breed" validate:"omitempty,max=255"`
	AgeYears *int   `json:"age_years" validate:"omitempty,gte=0"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url,max=512"`
}

func (h *Handlers) listPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.Accounts.ListPets(r.Context(), sessionFrom(r))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]petView, 0, len(pets))
	for _, p := range pets {
		out = append(out, viewPet(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) addPet(w http.ResponseWriter, r *http.Request) {
	var req petReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	p, err := h.Accounts.AddPet(r.Context(), sessionFrom(r), petInput(req))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewPet(p))
}

func (h *Handlers) updatePet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req petReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	p, err := h.Accounts.UpdatePet(r.Context(), sessionFrom(r), id, petInput(req))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewPet(p))
}

func (h *Handlers) deletePet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Accounts.DeletePet(r.Context(), sessionFrom(r), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func petInput(req petReq) app.PetInput {
	return app.PetInput{
		Name: req.Name, Species: req.Species, Breed: req.Breed,
		AgeYears: req.AgeYears, Notes: req.Notes, PhotoURL: req.PhotoURL,
	}
}

// ---- browsing ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	var q domain.HotelsQuery
	if city := r.URL.Query().Get("city"); city != "" {
		q.City = &city
	}
	if term := r.URL.Query().Get("q"); term != "" {
		q.Q = &term
	}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		q.Limit = l
	}
	page, err := h.Queries.ListHotels(r.Context(), q)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]hotelView, 0, len(page.Items))
	for _, it := range page.Items {
		out = append(out, viewHotel(it))
	}
	writeCachedJSON(w, r, map[string]any{"items": out})
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.Queries.GetHotel(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCachedJSON(w, r, viewHotelDetail(detail))
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.Queries.GetHotel(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]roomView, 0, len(detail.Rooms))
	for _, rm := range detail.Rooms {
		out = append(out, viewRoom(rm))
	}
	writeCachedJSON(w, r, map[string]any{"items": out})
}

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	qs := r.URL.Query()
	checkIn, err := parseDate(qs.Get("check_in"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(qs.Get("check_out"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_out must be YYYY-MM-DD")
		return
	}
	pets, err := strconv.Atoi(qs.Get("pets"))
	if err != nil || pets <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid pets", "pets must be a positive integer")
		return
	}
	res, err := h.Bookings.CheckAvailability(r.Context(), id, checkIn, checkOut, pets)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ---- reservations ----

type createReservationReq struct {
	HotelID         int64   `json:"hotel_id" validate:"required,gt=0"`
	RoomID          int64   `json:"room_id" validate:"required,gt=0"`
	PetIDs          []int64 `json:"pet_ids" validate:"required,min=1"`
	CheckIn         string  `json:"check_in" validate:"required"`
	CheckOut        string  `json:"check_out" validate:"required"`
	ServiceIDs      []int64 `json:"service_ids"`
	SpecialRequests string  `json:"special_requests" validate:"omitempty,max=2000"`
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationReq
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := shared.Validate(req); fields != nil {
		writeValidation(w, fields)
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_out must be YYYY-MM-DD")
		return
	}
	resv, err := h.Bookings.CreateReservation(r.Context(), sessionFrom(r), app.CreateReservationInput{
		HotelID:         req.HotelID,
		RoomID:          req.RoomID,
		PetIDs:          req.PetIDs,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		ServiceIDs:      req.ServiceIDs,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewReservation(resv))
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	items, err := h.Bookings.ListUserReservations(r.Context(), sessionFrom(r))
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

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resv, err := h.Bookings.GetReservation(r.Context(), sessionFrom(r), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewReservation(resv))
}

func (h *Handlers) cancelReservation(w http.ResponseWriter, r *http.Request) {
	h.transitionReservation(w, r, h.Bookings.Cancel)
}

func (h *Handlers) confirmReservation(w http.ResponseWriter, r *http.Request) {
	h.transitionReservation(w, r, h.Bookings.Confirm)
}

func (h *Handlers) completeReservation(w http.ResponseWriter, r *http.Request) {
	h.transitionReservation(w, r, h.Bookings.Complete)
}

func (h *Handlers) transitionReservation(
	w http.ResponseWriter, r *http.Request,
	fn func(context.Context, domain.Session, int64) (domain.Reservation, error),
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resv, err := fn(r.Context(), sessionFrom(r), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewReservation(resv))
}
