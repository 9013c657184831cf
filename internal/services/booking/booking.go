// Package booking holds the booking action used by the HTTP layer.
package booking

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devEvents/internal/lib/logger/sl"
	"devEvents/internal/models"
	"devEvents/internal/storage"
)

// Result reports the outcome of CreateBooking. Exactly one of Booking and
// Error is set.
type Result struct {
	Success bool            `json:"success"`
	Booking *models.Booking `json:"booking,omitempty"`
	Error   string          `json:"error,omitempty"`
	Err     error           `json:"-"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingSaver
type BookingSaver interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Mailer
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

type Service struct {
	log      *slog.Logger
	bookings BookingSaver
	mailer   Mailer
}

// New builds the service. mailer may be nil, in which case no confirmation
// is sent.
func New(log *slog.Logger, bookings BookingSaver, mailer Mailer) *Service {
	return &Service{
		log:      log,
		bookings: bookings,
		mailer:   mailer,
	}
}

// CreateBooking stores a booking for eventID and never returns a Go error:
// failures are reported through Result.
func (s *Service) CreateBooking(ctx context.Context, eventID, slug, email string) Result {
	const op = "services.booking.CreateBooking"

	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID),
		slog.String("slug", slug),
	)

	id, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		castErr := &storage.CastError{Value: eventID, Err: err}
		log.Info("invalid event id", sl.Err(castErr))

		return failure(castErr)
	}

	b := &models.Booking{
		EventID: id,
		Email:   email,
	}

	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		log.Error("failed to create booking", sl.Err(err))

		return failure(err)
	}

	log.Info("booking created", slog.String("booking_id", b.ID.Hex()))

	s.sendConfirmation(ctx, log, b, slug)

	plain := *b

	return Result{
		Success: true,
		Booking: &plain,
	}
}

func (s *Service) sendConfirmation(ctx context.Context, log *slog.Logger, b *models.Booking, slug string) {
	if s.mailer == nil {
		return
	}

	subject := "Your booking is confirmed"
	text := fmt.Sprintf("You are booked for %s.\nBooking reference: %s\n", eventLabel(slug, b.EventID), b.ID.Hex())

	if err := s.mailer.Send(ctx, b.Email, subject, text); err != nil {
		log.Warn("failed to send booking confirmation", sl.Err(err))
	}
}

func eventLabel(slug string, id primitive.ObjectID) string {
	if slug != "" {
		return slug
	}

	return "event " + id.Hex()
}

func failure(err error) Result {
	return Result{
		Success: false,
		Error:   err.Error(),
		Err:     err,
	}
}
