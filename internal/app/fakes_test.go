package app_test

import (
	"context"
	"errors"
	"sync"

	"pethotel/internal/domain"
)

// ---- fakes ----

type fakeCatalogRepo struct {
	hotels   map[int64]domain.HotelDetail
	rooms    map[int64]domain.Room
	services map[int64]domain.Service

	imported     []string
	misses       []string
	getHotelHits int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		hotels:   map[int64]domain.HotelDetail{},
		rooms:    map[int64]domain.Room{},
		services: map[int64]domain.Service{},
	}
}

func (f *fakeCatalogRepo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	h.ID = int64(len(f.hotels) + 1)
	f.hotels[h.ID] = domain.HotelDetail{Hotel: h}
	return h.ID, nil
}
func (f *fakeCatalogRepo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	hd, ok := f.hotels[h.ID]
	if !ok {
		return domain.ErrNotFound
	}
	h.OwnerID = hd.Hotel.OwnerID
	hd.Hotel = h
	f.hotels[h.ID] = hd
	return nil
}
func (f *fakeCatalogRepo) DeleteHotel(ctx context.Context, id int64) error {
	delete(f.hotels, id)
	return nil
}
func (f *fakeCatalogRepo) CreateRoom(ctx context.Context, r domain.Room) (int64, error) {
	r.ID = int64(len(f.rooms) + 1)
	f.rooms[r.ID] = r
	return r.ID, nil
}
func (f *fakeCatalogRepo) UpdateRoom(ctx context.Context, r domain.Room) error {
	if _, ok := f.rooms[r.ID]; !ok {
		return domain.ErrNotFound
	}
	f.rooms[r.ID] = r
	return nil
}
func (f *fakeCatalogRepo) DeleteRoom(ctx context.Context, id int64) error {
	delete(f.rooms, id)
	return nil
}
func (f *fakeCatalogRepo) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	s.ID = int64(len(f.services) + 1)
	f.services[s.ID] = s
	return s.ID, nil
}
func (f *fakeCatalogRepo) UpdateService(ctx context.Context, s domain.Service) error {
	f.services[s.ID] = s
	return nil
}
func (f *fakeCatalogRepo) DeleteService(ctx context.Context, id int64) error {
	delete(f.services, id)
	return nil
}
func (f *fakeCatalogRepo) UpsertImportedHotel(ctx context.Context, h domain.Hotel, rooms []domain.Room, services []domain.Service) (int64, error) {
	id, err := f.CreateHotel(ctx, h)
	if err != nil {
		return 0, err
	}
	if h.SourceRef != nil {
		f.imported = append(f.imported, *h.SourceRef)
	}
	return id, nil
}
func (f *fakeCatalogRepo) LogImportMiss(ctx context.Context, ref string, status int, reason string) error {
	f.misses = append(f.misses, ref)
	return nil
}
func (f *fakeCatalogRepo) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	f.getHotelHits++
	hd, ok := f.hotels[id]
	if !ok {
		return domain.HotelDetail{}, domain.ErrNotFound
	}
	return hd, nil
}
func (f *fakeCatalogRepo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	var out domain.HotelsPage
	for _, hd := range f.hotels {
		out.Items = append(out.Items, hd.Hotel)
	}
	return out, nil
}
func (f *fakeCatalogRepo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}
func (f *fakeCatalogRepo) GetServices(ctx context.Context, hotelID int64, ids []int64) ([]domain.Service, error) {
	var out []domain.Service
	for _, id := range ids {
		if s, ok := f.services[id]; ok && s.HotelID == hotelID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[int64]domain.User
	pets  map[int64]domain.Pet
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]domain.User{}, pets: map[int64]domain.Pet{}}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	u.ID = int64(len(f.users) + 1)
	f.users[u.ID] = u
	return u.ID, nil
}
func (f *fakeUserRepo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}
func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}
func (f *fakeUserRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	f.users[u.ID] = u
	return nil
}
func (f *fakeUserRepo) CreatePet(ctx context.Context, p domain.Pet) (int64, error) {
	p.ID = int64(len(f.pets) + 1)
	f.pets[p.ID] = p
	return p.ID, nil
}
func (f *fakeUserRepo) UpdatePet(ctx context.Context, p domain.Pet) error {
	f.pets[p.ID] = p
	return nil
}
func (f *fakeUserRepo) DeletePet(ctx context.Context, id, ownerID int64) error {
	delete(f.pets, id)
	return nil
}
func (f *fakeUserRepo) GetPet(ctx context.Context, id int64) (domain.Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return domain.Pet{}, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakeUserRepo) ListPets(ctx context.Context, ownerID int64) ([]domain.Pet, error) {
	var out []domain.Pet
	for _, p := range f.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeResvRepo struct {
	mu           sync.Mutex
	reservations map[int64]domain.Reservation
	occupancy    int
	failUpdate   error
}

func newFakeResvRepo() *fakeResvRepo {
	return &fakeResvRepo{reservations: map[int64]domain.Reservation{}}
}

func (f *fakeResvRepo) CreateReservation(ctx context.Context, r domain.Reservation) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = int64(len(f.reservations) + 1)
	f.reservations[r.ID] = r
	return r.ID, nil
}
func (f *fakeResvRepo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}
func (f *fakeResvRepo) ListUserReservations(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeResvRepo) ListHotelReservations(ctx context.Context, hotelID int64) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeResvRepo) UpdateReservationStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	r, ok := f.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.Status != from {
		return domain.ErrInvalidStatusTransition
	}
	r.Status = to
	f.reservations[id] = r
	return nil
}
func (f *fakeResvRepo) OccupancyForRange(ctx context.Context, roomID int64, dr domain.DateRange) (int, error) {
	return f.occupancy, nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.HotelDetail:
		*d = v.(domain.HotelDetail)
	case *domain.HotelsPage:
		*d = v.(domain.HotelsPage)
	case *domain.Room:
		*d = v.(domain.Room)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeFeed struct {
	refs       []string
	properties map[string]map[string]any
	errs       map[string]error
}

func (f *fakeFeed) ListProperties(ctx context.Context) ([]string, error) { return f.refs, nil }
func (f *fakeFeed) GetProperty(ctx context.Context, ref string) (map[string]any, error) {
	if err, ok := f.errs[ref]; ok {
		return nil, err
	}
	p, ok := f.properties[ref]
	if !ok {
		return nil, errors.New("unexpected ref " + ref)
	}
	return p, nil
}

// ---- tiny helpers ----

func ptr[T any](v T) *T { return &v }
