package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pethotel/internal/adapters/catalog"
	"pethotel/internal/domain"
)

// ImportService pulls partner-feed properties into the local catalog.
type ImportService struct {
	feed  domain.CatalogFeed
	repo  domain.CatalogRepository
	cache domain.Cache
}

func NewImportService(feed domain.CatalogFeed, repo domain.CatalogRepository, cache domain.Cache) *ImportService {
	return &ImportService{feed: feed, repo: repo, cache: cache}
}

// ImportProperty fetches one partner property and upserts it with its rooms
// and add-on services. Known 404/401/403 responses are recorded as misses and
// do not fail the run; anything else bubbles up.
func (s *ImportService) ImportProperty(ctx context.Context, ref string) error {
	p, err := s.feed.GetProperty(ctx, ref)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			_ = s.repo.LogImportMiss(ctx, ref, 404, "not found")
			return nil
		case errors.Is(err, catalog.ErrUnauthorized), errors.Is(err, catalog.ErrForbidden):
			_ = s.repo.LogImportMiss(ctx, ref, 403, "inactive")
			return nil
		default:
			// network/5xx/JSON errors are unexpected -> bubble up
			return err
		}
	}

	hotel, rooms, services := mapImportedProperty(ref, p)
	if hotel.Name == "" {
		_ = s.repo.LogImportMiss(ctx, ref, 422, "unmappable payload")
		return nil
	}

	id, err := s.repo.UpsertImportedHotel(ctx, hotel, rooms, services)
	if err != nil {
		return fmt.Errorf("upsert imported hotel %q: %w", ref, err)
	}

	// Evict any stale snapshot of this hotel and the browse lists.
	if s.cache != nil {
		_ = s.cache.Del(ctx, fmt.Sprintf("hotel:%d", id))
		for _, lim := range []int{50, 100, 200} {
			_ = s.cache.Del(ctx, fmt.Sprintf("hotels:%s:%s:%d", "", "", lim))
		}
	}
	return nil
}

// ImportAll walks the full partner listing.
func (s *ImportService) ImportAll(ctx context.Context) (refs []string, failed []string, err error) {
	refs, err = s.feed.ListProperties(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list partner properties: %w", err)
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		if ierr := s.ImportProperty(ctx, ref); ierr != nil {
			failed = append(failed, ref)
		}
	}
	return refs, failed, nil
}
