package app

import (
	"context"
	"fmt"

	"pethotel/internal/domain"
)

// CatalogService is the owner-facing write side of the hotel catalog.
type CatalogService struct {
	catalog domain.CatalogRepository
	cache   domain.Cache
}

func NewCatalogService(catalog domain.CatalogRepository, cache domain.Cache) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache}
}

type HotelInput struct {
	Name        string
	City        string
	Address     string
	Description string
	Phone       string
	Images      []string
}

type RoomInput struct {
	Name          string
	PricePerNight int64
	MaxPets       int
	Description   string
	Images        []string
}

type ServiceInput struct {
	Name  string
	Price int64
}

func (s *CatalogService) CreateHotel(ctx context.Context, sess domain.Session, in HotelInput) (domain.HotelDetail, error) {
	if !sess.IsOwner() {
		return domain.HotelDetail{}, domain.ErrNotOwner
	}
	h := hotelFromInput(sess.UserID, in)
	id, err := s.catalog.CreateHotel(ctx, h)
	if err != nil {
		return domain.HotelDetail{}, fmt.Errorf("create hotel: %w", err)
	}
	s.invalidateLists(ctx)
	return s.catalog.GetHotel(ctx, id)
}

func (s *CatalogService) UpdateHotel(ctx context.Context, sess domain.Session, id int64, in HotelInput) (domain.HotelDetail, error) {
	if err := s.requireOwner(ctx, sess, id); err != nil {
		return domain.HotelDetail{}, err
	}
	h := hotelFromInput(sess.UserID, in)
	h.ID = id
	if err := s.catalog.UpdateHotel(ctx, h); err != nil {
		return domain.HotelDetail{}, err
	}
	s.invalidateHotel(ctx, id)
	return s.catalog.GetHotel(ctx, id)
}

func (s *CatalogService) DeleteHotel(ctx context.Context, sess domain.Session, id int64) error {
	if err := s.requireOwner(ctx, sess, id); err != nil {
		return err
	}
	if err := s.catalog.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidateHotel(ctx, id)
	return nil
}

func (s *CatalogService) CreateRoom(ctx context.Context, sess domain.Session, hotelID int64, in RoomInput) (domain.Room, error) {
	if err := s.requireOwner(ctx, sess, hotelID); err != nil {
		return domain.Room{}, err
	}
	r := roomFromInput(hotelID, in)
	id, err := s.catalog.CreateRoom(ctx, r)
	if err != nil {
		return domain.Room{}, fmt.Errorf("create room: %w", err)
	}
	s.invalidateHotel(ctx, hotelID)
	return s.catalog.GetRoom(ctx, id)
}

func (s *CatalogService) UpdateRoom(ctx context.Context, sess domain.Session, roomID int64, in RoomInput) (domain.Room, error) {
	room, err := s.catalog.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if err := s.requireOwner(ctx, sess, room.HotelID); err != nil {
		return domain.Room{}, err
	}
	r := roomFromInput(room.HotelID, in)
	r.ID = roomID
	if err := s.catalog.UpdateRoom(ctx, r); err != nil {
		return domain.Room{}, err
	}
	s.invalidateHotel(ctx, room.HotelID)
	_ = s.cache.Del(ctx, fmt.Sprintf("room:%d", roomID))
	return s.catalog.GetRoom(ctx, roomID)
}

func (s *CatalogService) DeleteRoom(ctx context.Context, sess domain.Session, roomID int64) error {
	room, err := s.catalog.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, sess, room.HotelID); err != nil {
		return err
	}
	if err := s.catalog.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	s.invalidateHotel(ctx, room.HotelID)
	_ = s.cache.Del(ctx, fmt.Sprintf("room:%d", roomID))
	return nil
}

func (s *CatalogService) CreateService(ctx context.Context, sess domain.Session, hotelID int64, in ServiceInput) (domain.Service, error) {
	if err := s.requireOwner(ctx, sess, hotelID); err != nil {
		return domain.Service{}, err
	}
	id, err := s.catalog.CreateService(ctx, domain.Service{HotelID: hotelID, Name: in.Name, Price: in.Price})
	if err != nil {
		return domain.Service{}, fmt.Errorf("create service: %w", err)
	}
	s.invalidateHotel(ctx, hotelID)
	svcs, err := s.catalog.GetServices(ctx, hotelID, []int64{id})
	if err != nil || len(svcs) == 0 {
		return domain.Service{ID: id, HotelID: hotelID, Name: in.Name, Price: in.Price}, nil
	}
	return svcs[0], nil
}

func (s *CatalogService) UpdateService(ctx context.Context, sess domain.Session, hotelID, serviceID int64, in ServiceInput) (domain.Service, error) {
	if err := s.requireOwner(ctx, sess, hotelID); err != nil {
		return domain.Service{}, err
	}
	svc := domain.Service{ID: serviceID, HotelID: hotelID, Name: in.Name, Price: in.Price}
	if err := s.catalog.UpdateService(ctx, svc); err != nil {
		return domain.Service{}, err
	}
	s.invalidateHotel(ctx, hotelID)
	return svc, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, sess domain.Session, hotelID, serviceID int64) error {
	if err := s.requireOwner(ctx, sess, hotelID); err != nil {
		return err
	}
	if err := s.catalog.DeleteService(ctx, serviceID); err != nil {
		return err
	}
	s.invalidateHotel(ctx, hotelID)
	return nil
}

func (s *CatalogService) requireOwner(ctx context.Context, sess domain.Session, hotelID int64) error {
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

func (s *CatalogService) invalidateHotel(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, fmt.Sprintf("hotel:%d", id))
	s.invalidateLists(ctx)
}

// invalidate the most common hotel list cache variants
func (s *CatalogService) invalidateLists(ctx context.Context) {
	// The API default is no filters, limit=50. Clear that first, then a
	// couple of other common limits.
	for _, lim := range []int{50, 100, 200} {
		_ = s.cache.Del(ctx, fmt.Sprintf("hotels:%s:%s:%d", "", "", lim))
	}
}

func hotelFromInput(ownerID int64, in HotelInput) domain.Hotel {
	h := domain.Hotel{OwnerID: ownerID, Name: in.Name, Images: in.Images}
	if in.City != "" {
		h.City = &in.City
	}
	if in.Address != "" {
		h.Address = &in.Address
	}
	if in.Description != "" {
		h.Description = &in.Description
	}
	if in.Phone != "" {
		h.Phone = &in.Phone
	}
	return h
}

func roomFromInput(hotelID int64, in RoomInput) domain.Room {
	r := domain.Room{HotelID: hotelID, Name: in.Name, PricePerNight: in.PricePerNight, MaxPets: in.MaxPets, Images: in.Images}
	if in.Description != "" {
		r.Description = &in.Description
	}
	return r
}
