package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devEvents/internal/models"
	"devEvents/internal/storage"
)

const (
	eventsCollection   = "events"
	bookingsCollection = "bookings"
)

// ClientProvider hands out a live client. *Connector is the production one.
type ClientProvider interface {
	Connect(ctx context.Context) (*mongo.Client, error)
}

type Storage struct {
	clients  ClientProvider
	database string
	now      func() time.Time

	indexesMu    sync.Mutex
	indexesReady bool
}

func New(clients ClientProvider, database string) *Storage {
	return &Storage{
		clients:  clients,
		database: database,
		now: func() time.Time {
			// mongo keeps millisecond precision
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

func (s *Storage) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := s.clients.Connect(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(s.database).Collection(name), nil
}

// EnsureIndexes creates the unique slug index and the booking lookup index.
// Once it has succeeded further calls are no-ops; after a failure the next
// call tries again. CreateEvent calls it before every insert, so events are
// never written without the unique slug index.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	const op = "storage.mongodb.EnsureIndexes"

	s.indexesMu.Lock()
	defer s.indexesMu.Unlock()

	if s.indexesReady {
		return nil
	}

	if err := s.createIndexes(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.indexesReady = true

	return nil
}

func (s *Storage) createIndexes(ctx context.Context) error {
	events, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return err
	}

	_, err = events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}

	bookings, err := s.collection(ctx, bookingsCollection)
	if err != nil {
		return err
	}

	_, err = bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("bookings: %w", err)
	}

	return nil
}

func (s *Storage) CreateEvent(ctx context.Context, event *models.Event) error {
	const op = "storage.mongodb.CreateEvent"

	event.Prepare()

	if err := event.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, &storage.ValidationError{Err: err})
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	events, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	event.ID = primitive.NewObjectID()
	event.CreatedAt = now
	event.UpdatedAt = now

	if _, err = events.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrEventExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	const op = "storage.mongodb.GetEventBySlug"

	events, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var event models.Event
	err = events.FindOne(ctx, bson.D{{Key: "slug", Value: slug}}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &event, nil
}

// GetAllEvents returns every event, newest first.
func (s *Storage) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	const op = "storage.mongodb.GetAllEvents"

	events, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	return s.findEvents(ctx, op, events, bson.D{}, opts)
}

// GetSimilarEvents returns the other events sharing at least one tag with source.
func (s *Storage) GetSimilarEvents(ctx context.Context, source *models.Event) ([]models.Event, error) {
	const op = "storage.mongodb.GetSimilarEvents"

	if len(source.Tags) == 0 {
		return []models.Event{}, nil
	}

	events, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: source.ID}}},
		{Key: "tags", Value: bson.D{{Key: "$in", Value: source.Tags}}},
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	return s.findEvents(ctx, op, events, filter, opts)
}

func (s *Storage) findEvents(ctx context.Context, op string, coll *mongo.Collection, filter bson.D, opts *options.FindOptions) ([]models.Event, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get events: %w", op, err)
	}

	events := []models.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("%s: failed to decode events: %w", op, err)
	}

	return events, nil
}

// CreateBooking checks that the referenced event exists and then inserts the
// booking. The check and the insert are separate round trips.
func (s *Storage) CreateBooking(ctx context.Context, booking *models.Booking) error {
	const op = "storage.mongodb.CreateBooking"

	booking.Prepare()

	if err := booking.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, &storage.ValidationError{Err: err})
	}

	if err := s.eventExists(ctx, booking.EventID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	bookings, err := s.collection(ctx, bookingsCollection)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err = bookings.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("%s: failed to create booking: %w", op, err)
	}

	return nil
}

func (s *Storage) eventExists(ctx context.Context, id primitive.ObjectID) error {
	events, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrEventReferenceCheck, err)
	}

	opts := options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})

	err = events.FindOne(ctx, bson.D{{Key: "_id", Value: id}}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return storage.ErrReferencedEventMissing
		}

		return fmt.Errorf("%w: %w", storage.ErrEventReferenceCheck, err)
	}

	return nil
}
