package similar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devEvents/internal/models"
	"devEvents/internal/services/similar/mocks"
	"devEvents/internal/storage"
)

func event(slug string, tags ...string) models.Event {
	return models.Event{
		ID:    primitive.NewObjectID(),
		Title: slug,
		Slug:  slug,
		Tags:  tags,
	}
}

func TestService_GetSimilarEventsBySlug(t *testing.T) {
	t.Parallel()

	source := event("go-meetup", "go", "rust")
	matches := []models.Event{
		event("rust-night", "rust"),
		event("gophercon", "go", "cloud"),
	}

	testCases := []struct {
		name      string
		slug      string
		mockSetup func(finder *mocks.EventFinder)
		expected  []models.Event
		wantErr   bool
	}{
		{
			name: "Events sharing a tag",
			slug: "go-meetup",
			mockSetup: func(finder *mocks.EventFinder) {
				finder.On("GetEventBySlug", mock.Anything, "go-meetup").Return(&source, nil).Once()
				finder.On("GetSimilarEvents", mock.Anything, &source).Return(matches, nil).Once()
			},
			expected: matches,
		},
		{
			name: "Unknown slug",
			slug: "no-such-event",
			mockSetup: func(finder *mocks.EventFinder) {
				finder.On("GetEventBySlug", mock.Anything, "no-such-event").
					Return(nil, storage.ErrEventNotFound).Once()
			},
			expected: []models.Event{},
		},
		{
			name: "Nil result becomes empty list",
			slug: "go-meetup",
			mockSetup: func(finder *mocks.EventFinder) {
				finder.On("GetEventBySlug", mock.Anything, "go-meetup").Return(&source, nil).Once()
				finder.On("GetSimilarEvents", mock.Anything, &source).Return(nil, nil).Once()
			},
			expected: []models.Event{},
		},
		{
			name: "Source lookup failure",
			slug: "go-meetup",
			mockSetup: func(finder *mocks.EventFinder) {
				finder.On("GetEventBySlug", mock.Anything, "go-meetup").
					Return(nil, errors.New("connection refused")).Once()
			},
			wantErr: true,
		},
		{
			name: "Similar lookup failure",
			slug: "go-meetup",
			mockSetup: func(finder *mocks.EventFinder) {
				finder.On("GetEventBySlug", mock.Anything, "go-meetup").Return(&source, nil).Once()
				finder.On("GetSimilarEvents", mock.Anything, &source).
					Return(nil, errors.New("cursor killed")).Once()
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			finder := mocks.NewEventFinder(t)
			tc.mockSetup(finder)

			svc := New(finder, time.Hour)

			events, err := svc.GetSimilarEventsBySlug(context.Background(), tc.slug)
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, events)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, events)
			assert.Equal(t, tc.expected, events)
		})
	}
}

func TestService_CachesResults(t *testing.T) {
	t.Parallel()

	source := event("go-meetup", "go")
	matches := []models.Event{event("gophercon", "go")}

	finder := mocks.NewEventFinder(t)
	finder.On("GetEventBySlug", mock.Anything, "go-meetup").Return(&source, nil).Once()
	finder.On("GetSimilarEvents", mock.Anything, &source).Return(matches, nil).Once()
	finder.On("GetEventBySlug", mock.Anything, "no-such-event").Return(nil, storage.ErrEventNotFound).Once()

	svc := New(finder, time.Hour)

	for i := 0; i < 3; i++ {
		events, err := svc.GetSimilarEventsBySlug(context.Background(), "go-meetup")
		require.NoError(t, err)
		assert.Equal(t, matches, events)

		events, err = svc.GetSimilarEventsBySlug(context.Background(), "no-such-event")
		require.NoError(t, err)
		assert.Empty(t, events)
	}
}

func TestService_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	source := event("go-meetup", "go")
	matches := []models.Event{event("gophercon", "go")}

	finder := mocks.NewEventFinder(t)
	finder.On("GetEventBySlug", mock.Anything, "go-meetup").
		Return(nil, errors.New("server selection timeout")).Once()
	finder.On("GetEventBySlug", mock.Anything, "go-meetup").Return(&source, nil).Once()
	finder.On("GetSimilarEvents", mock.Anything, &source).Return(matches, nil).Once()

	svc := New(finder, time.Hour)

	_, err := svc.GetSimilarEventsBySlug(context.Background(), "go-meetup")
	require.Error(t, err)

	events, err := svc.GetSimilarEventsBySlug(context.Background(), "go-meetup")
	require.NoError(t, err)
	assert.Equal(t, matches, events)
}

func TestService_ConcurrentMissesShareOneLookup(t *testing.T) {
	t.Parallel()

	source := event("go-meetup", "go")
	matches := []models.Event{event("gophercon", "go")}
	release := make(chan time.Time)

	finder := mocks.NewEventFinder(t)
	finder.On("GetEventBySlug", mock.Anything, "go-meetup").
		WaitUntil(release).
		Return(&source, nil).Once()
	finder.On("GetSimilarEvents", mock.Anything, &source).Return(matches, nil).Once()

	svc := New(finder, time.Hour)

	const callers = 8

	var wg sync.WaitGroup
	results := make([][]models.Event, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetSimilarEventsBySlug(context.Background(), "go-meetup")
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, matches, results[i])
	}
}

func TestService_LeaderCancellationDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	source := event("go-meetup", "go")
	matches := []models.Event{event("gophercon", "go")}
	started := make(chan struct{})
	release := make(chan struct{})

	finder := mocks.NewEventFinder(t)
	finder.On("GetEventBySlug", mock.Anything, "go-meetup").
		Return(func(ctx context.Context, _ string) (*models.Event, error) {
			close(started)
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return &source, nil
		}).Once()
	finder.On("GetSimilarEvents", mock.Anything, &source).Return(matches, nil).Once()

	svc := New(finder, time.Hour)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())

	var (
		wg                         sync.WaitGroup
		leaderEvents, waiterEvents []models.Event
		leaderErr, waiterErr       error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		leaderEvents, leaderErr = svc.GetSimilarEventsBySlug(leaderCtx, "go-meetup")
	}()

	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		waiterEvents, waiterErr = svc.GetSimilarEventsBySlug(context.Background(), "go-meetup")
	}()

	time.Sleep(20 * time.Millisecond)
	cancelLeader()
	close(release)
	wg.Wait()

	require.NoError(t, waiterErr)
	assert.Equal(t, matches, waiterEvents)
	require.NoError(t, leaderErr)
	assert.Equal(t, matches, leaderEvents)
}

func TestService_ReturnsCopies(t *testing.T) {
	t.Parallel()

	source := event("go-meetup", "go")
	matches := []models.Event{event("gophercon", "go")}

	finder := mocks.NewEventFinder(t)
	finder.On("GetEventBySlug", mock.Anything, "go-meetup").Return(&source, nil).Once()
	finder.On("GetSimilarEvents", mock.Anything, &source).Return(matches, nil).Once()

	svc := New(finder, time.Hour)

	first, err := svc.GetSimilarEventsBySlug(context.Background(), "go-meetup")
	require.NoError(t, err)
	first[0].Title = "changed"

	second, err := svc.GetSimilarEventsBySlug(context.Background(), "go-meetup")
	require.NoError(t, err)
	assert.Equal(t, "gophercon", second[0].Title)
}

func TestService_EntriesExpire(t *testing.T) {
	t.Parallel()

	finder := mocks.NewEventFinder(t)
	finder.On("GetEventBySlug", mock.Anything, "first").Return(nil, storage.ErrEventNotFound).Twice()

	svc := New(finder, time.Millisecond)

	_, err := svc.GetSimilarEventsBySlug(context.Background(), "first")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	svc.PurgeExpired()

	assert.Equal(t, 0, svc.cache.Len())

	events, err := svc.GetSimilarEventsBySlug(context.Background(), "first")
	require.NoError(t, err)
	assert.Empty(t, events)
}
