package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

// timeLayouts are tried in order when parsing client timestamps.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// flexTime decodes a JSON string in any of timeLayouts. An empty string
// decodes to the zero time.
type flexTime struct{ time.Time }

func (f *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f *flexTime) ptr() *time.Time {
	if f == nil || f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}

// flexDate is either a timestamp string or the legacy {start, end} object.
type flexDate struct {
	Start *flexTime
	End   *flexTime
}

func (d *flexDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var nested struct {
			Start *flexTime `json:"start"`
			End   *flexTime `json:"end"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		d.Start, d.End = nested.Start, nested.End
		return nil
	}
	var t flexTime
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	d.Start = &t
	return nil
}

// flexName is either a plain string or the legacy {name} object.
type flexName struct{ Value *string }

func (n *flexName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var nested struct {
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		n.Value = nested.Name
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

type legacyLocation struct {
	Venue *string `json:"venue"`
	City  *string `json:"city"`
	State *string `json:"state"`
}

type legacyRegistration struct {
	Link            *string  `json:"link"`
	Fee             *float64 `json:"fee"`
	MaxParticipants *int     `json:"maxParticipants"`
}

// eventPayload accepts the flat event body as well as the older nested one
// (date.start, location.city, college.name, registration.fee). Flat fields
// win when both are present.
type eventPayload struct {
	Title                *string             `json:"title"`
	Description          *string             `json:"description"`
	Category             *model.Category     `json:"category"`
	EventType            *model.EventType    `json:"eventType"`
	Image                *string             `json:"image"`
	Date                 flexDate            `json:"date"`
	EndDate              *flexTime           `json:"endDate"`
	RegistrationDeadline *flexTime           `json:"registrationDeadline"`
	Venue                *string             `json:"venue"`
	City                 *string             `json:"city"`
	State                *string             `json:"state"`
	College              flexName            `json:"college"`
	Location             *legacyLocation     `json:"location"`
	Registration         *legacyRegistration `json:"registration"`
	RegistrationLink     *string             `json:"registrationLink"`
	RegistrationFee      *float64            `json:"registrationFee"`
	MaxParticipants      *int                `json:"maxParticipants"`
	Featured             *bool               `json:"featured"`
	Tags                 []string            `json:"tags"`
	Requirements         []string            `json:"requirements"`
}

func (p *eventPayload) normalize() {
	if p.Location != nil {
		p.Venue = firstSet(p.Venue, p.Location.Venue)
		p.City = firstSet(p.City, p.Location.City)
		p.State = firstSet(p.State, p.Location.State)
	}
	if p.Registration != nil {
		p.RegistrationLink = firstSet(p.RegistrationLink, p.Registration.Link)
		if p.RegistrationFee == nil {
			p.RegistrationFee = p.Registration.Fee
		}
		if p.MaxParticipants == nil {
			p.MaxParticipants = p.Registration.MaxParticipants
		}
	}
	if p.EndDate == nil {
		p.EndDate = p.Date.End
	}
}

func (p *eventPayload) toCreate() model.CreateEventRequest {
	p.normalize()
	req := model.CreateEventRequest{
		Title:                deref(p.Title),
		Description:          deref(p.Description),
		Image:                deref(p.Image),
		EndDate:              p.EndDate.ptr(),
		RegistrationDeadline: p.RegistrationDeadline.ptr(),
		Venue:                deref(p.Venue),
		City:                 deref(p.City),
		State:                deref(p.State),
		College:              deref(p.College.Value),
		RegistrationLink:     deref(p.RegistrationLink),
		Tags:                 p.Tags,
		Requirements:         p.Requirements,
	}
	if p.Category != nil {
		req.Category = *p.Category
	}
	if p.EventType != nil {
		req.EventType = *p.EventType
	}
	if start := p.Date.Start.ptr(); start != nil {
		req.Date = *start
	}
	if p.RegistrationFee != nil {
		req.RegistrationFee = *p.RegistrationFee
	}
	if p.MaxParticipants != nil {
		req.MaxParticipants = *p.MaxParticipants
	}
	return req
}

func (p *eventPayload) toUpdate() model.UpdateEventRequest {
	p.normalize()
	return model.UpdateEventRequest{
		Title:                p.Title,
		Description:          p.Description,
		Category:             p.Category,
		EventType:            p.EventType,
		Image:                p.Image,
		Date:                 p.Date.Start.ptr(),
		EndDate:              p.EndDate.ptr(),
		RegistrationDeadline: p.RegistrationDeadline.ptr(),
		Venue:                p.Venue,
		City:                 p.City,
		State:                p.State,
		College:              p.College.Value,
		RegistrationLink:     p.RegistrationLink,
		RegistrationFee:      p.RegistrationFee,
		MaxParticipants:      p.MaxParticipants,
		Featured:             p.Featured,
		Tags:                 p.Tags,
		Requirements:         p.Requirements,
	}
}

func firstSet(a, b *string) *string {
	if a != nil && *a != "" {
		return a
	}
	if b != nil {
		return b
	}
	return a
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
