package app

import (
	"context"
	"fmt"
	"time"

	"pethotel/internal/domain"
)

type QueryService struct {
	catalog  domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(c domain.CatalogRepository, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{catalog: c, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := fmt.Sprintf("hotel:%d", id)
	var hd domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, key, &hd); ok {
		return hd, nil
	}
	hd, err := s.catalog.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	// copy slices to avoid aliasing the repo's backing arrays through the cache
	cp := deepCopyHotelDetail(hd)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return hd, nil
}

func (s *QueryService) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	key := hotelsListKey(q)
	var out domain.HotelsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.catalog.ListHotels(ctx, q)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	key := fmt.Sprintf("room:%d", id)
	var rm domain.Room
	if ok, _ := s.cache.Get(ctx, key, &rm); ok {
		return rm, nil
	}
	rm, err := s.catalog.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	_ = s.cache.Set(ctx, key, rm, int(s.cacheTTL.Seconds()))
	return rm, nil
}

func hotelsListKey(q domain.HotelsQuery) string {
	city, text := "", ""
	if q.City != nil {
		city = *q.City
	}
	if q.Q != nil {
		text = *q.Q
	}
	return fmt.Sprintf("hotels:%s:%s:%d", city, text, q.Limit)
}

func deepCopyHotelDetail(in domain.HotelDetail) domain.HotelDetail {
	out := in
	if n := len(in.Rooms); n > 0 {
		out.Rooms = make([]domain.Room, n)
		copy(out.Rooms, in.Rooms)
	}
	if n := len(in.Services); n > 0 {
		out.Services = make([]domain.Service, n)
		copy(out.Services, in.Services)
	}
	if n := len(in.Hotel.Images); n > 0 {
		out.Hotel.Images = append([]string(nil), in.Hotel.Images...)
	}
	return out
}
