package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is one email address signing up for one event.
type Booking struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	EventID   primitive.ObjectID `json:"eventId" bson:"eventId" validate:"required"`
	Email     string             `json:"email" bson:"email" validate:"required,simple_email"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Booking) Prepare() {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
}

func (b *Booking) Validate() error {
	return validate.Struct(b)
}
