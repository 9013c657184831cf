// Package similar finds events that share at least one tag with a given
// event and caches the answer per slug.
package similar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"devEvents/internal/models"
	"devEvents/internal/storage"
)

const defaultLookupTimeout = 10 * time.Second

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventFinder
type EventFinder interface {
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	GetSimilarEvents(ctx context.Context, source *models.Event) ([]models.Event, error)
}

type Service struct {
	events        EventFinder
	cache         *ttlcache.Cache[string, []models.Event]
	group         singleflight.Group
	lookupTimeout time.Duration
}

func New(events EventFinder, ttl time.Duration) *Service {
	return &Service{
		events: events,
		cache: ttlcache.New[string, []models.Event](
			ttlcache.WithTTL[string, []models.Event](ttl),
			ttlcache.WithDisableTouchOnHit[string, []models.Event](),
		),
		lookupTimeout: defaultLookupTimeout,
	}
}

// GetSimilarEventsBySlug returns the events sharing a tag with the event
// identified by slug, excluding that event. An unknown slug yields an empty
// list. Lookup failures are returned and never cached. Each caller gets its
// own copy of the list.
func (s *Service) GetSimilarEventsBySlug(ctx context.Context, slug string) ([]models.Event, error) {
	const op = "services.similar.GetSimilarEventsBySlug"

	if item := s.cache.Get(slug); item != nil {
		return slices.Clone(item.Value()), nil
	}

	v, err, _ := s.group.Do(slug, func() (interface{}, error) {
		if item := s.cache.Get(slug); item != nil {
			return item.Value(), nil
		}

		// shared by every caller waiting on this slug, so it must outlive
		// the one that started it
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
		defer cancel()

		events, err := s.lookup(lookupCtx, slug)
		if err != nil {
			return nil, err
		}

		s.cache.Set(slug, events, ttlcache.DefaultTTL)

		return events, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slices.Clone(v.([]models.Event)), nil
}

func (s *Service) lookup(ctx context.Context, slug string) ([]models.Event, error) {
	source, err := s.events.GetEventBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			return []models.Event{}, nil
		}

		return nil, err
	}

	events, err := s.events.GetSimilarEvents(ctx, source)
	if err != nil {
		return nil, err
	}

	if events == nil {
		events = []models.Event{}
	}

	return events, nil
}

// PurgeExpired drops expired cache entries. main calls it from a ticker.
func (s *Service) PurgeExpired() {
	s.cache.DeleteExpired()
}
