package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devEvents/internal/lib/slug"
)

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type AgendaItem struct {
	Time        string `json:"time,omitempty" bson:"time,omitempty"`
	Title       string `json:"title" bson:"title" validate:"required"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Event struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title" validate:"required,max=100"`
	Slug        string             `json:"slug" bson:"slug" validate:"required,slug"`
	Description string             `json:"description" bson:"description" validate:"required,max=1000"`
	Overview    string             `json:"overview" bson:"overview" validate:"required,max=500"`
	Image       string             `json:"image" bson:"image" validate:"required"`
	Venue       string             `json:"venue" bson:"venue" validate:"required"`
	Location    string             `json:"location" bson:"location" validate:"required"`
	Date        string             `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Time        string             `json:"time" bson:"time" validate:"required,datetime=15:04"`
	Mode        string             `json:"mode" bson:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string             `json:"audience" bson:"audience" validate:"required"`
	Agenda      []AgendaItem       `json:"agenda" bson:"agenda" validate:"required,min=1,dive"`
	Organizer   string             `json:"organizer" bson:"organizer" validate:"required"`
	Tags        []string           `json:"tags" bson:"tags" validate:"required,min=1,dive,required"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Prepare normalises the event before it is persisted. A missing slug is
// derived from the title; dates and times that cannot be parsed are left
// untouched so Validate reports them.
func (e *Event) Prepare() {
	e.Title = strings.TrimSpace(e.Title)
	e.Slug = strings.TrimSpace(e.Slug)
	e.Description = strings.TrimSpace(e.Description)
	e.Overview = strings.TrimSpace(e.Overview)
	e.Venue = strings.TrimSpace(e.Venue)
	e.Location = strings.TrimSpace(e.Location)
	e.Audience = strings.TrimSpace(e.Audience)
	e.Organizer = strings.TrimSpace(e.Organizer)
	e.Mode = strings.ToLower(strings.TrimSpace(e.Mode))

	if e.Slug == "" {
		e.Slug = slug.Make(e.Title)
	}

	if d, ok := normalizeDate(e.Date); ok {
		e.Date = d
	}

	if t, ok := normalizeTime(e.Time); ok {
		e.Time = t
	}

	for i := range e.Agenda {
		e.Agenda[i].Time = strings.TrimSpace(e.Agenda[i].Time)
		e.Agenda[i].Title = strings.TrimSpace(e.Agenda[i].Title)
		e.Agenda[i].Description = strings.TrimSpace(e.Agenda[i].Description)
	}

	e.Tags = normalizeTags(e.Tags)
}

func (e *Event) Validate() error {
	return validate.Struct(e)
}

func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)

	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), true
		}
	}

	return s, false
}

func normalizeTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)

	for _, layout := range []string{timeLayout, "3:04 PM", "3:04PM", "15:04:05"} {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format(timeLayout), true
		}
	}

	return s, false
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}

		if _, ok := seen[tag]; ok {
			continue
		}

		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}
