package calendar

import (
	"errors"
	"fmt"
	"time"

	calendar3 "google.golang.org/api/calendar/v3"
)

var (
	ErrMissingStart = errors.New("event has no start date")
	ErrMissingEnd   = errors.New("event has no end date")
)

// Event is the provider-neutral shape the rest of the app works with.
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// Same event as far as change detection cares; provider ids are not
// compared because the provider may reissue them across syncs.
func (e Event) Equal(other Event) bool {
	return e.Start.Equal(other.Start) &&
		e.End.Equal(other.End) &&
		e.Summary == other.Summary
}

func FromGoogleEvent(item *calendar3.Event) (Event, error) {
	start, err := parseEventDateTime(item.Start)
	if err != nil {
		return Event{}, fmt.Errorf("FromGoogleEvent: %w", ErrMissingStart)
	}
	end, err := parseEventDateTime(item.End)
	if err != nil {
		return Event{}, fmt.Errorf("FromGoogleEvent: %w", ErrMissingEnd)
	}
	return Event{
		ID:      item.Id,
		Summary: item.Summary,
		Start:   start,
		End:     end,
	}, nil
}

// FromGoogleEvents rejects the whole batch on the first malformed
// event; a half-converted batch would render a half-true notification.
func FromGoogleEvents(items []*calendar3.Event) ([]Event, error) {
	events := make([]Event, 0, len(items))
	for _, item := range items {
		event, err := FromGoogleEvent(item)
		if err != nil {
			return nil, fmt.Errorf("FromGoogleEvents: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func parseEventDateTime(edt *calendar3.EventDateTime) (time.Time, error) {
	switch {
	case edt == nil:
		return time.Time{}, errors.New("nil date")
	case edt.DateTime != "":
		return time.Parse(time.RFC3339, edt.DateTime)
	case edt.Date != "":
		// whole-day events only carry a date
		return time.Parse("2006-01-02", edt.Date)
	default:
		return time.Time{}, errors.New("blank date")
	}
}
