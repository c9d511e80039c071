package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/yoyozbi/calendarbot/src-server/calendar"

	calendar3 "google.golang.org/api/calendar/v3"
)

func TestFromGoogleEvent(t *testing.T) {
	event, err := calendar.FromGoogleEvent(&calendar3.Event{
		Id:      "evt-1",
		Summary: "Standup",
		Start:   &calendar3.EventDateTime{DateTime: "2024-05-03T09:00:00Z"},
		End:     &calendar3.EventDateTime{DateTime: "2024-05-03T10:00:00Z"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if event.ID != "evt-1" || event.Summary != "Standup" {
		t.Error("wrong identity fields", event)
	}
	if !event.Start.Equal(time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)) {
		t.Error("wrong start", event.Start)
	}
	if !event.End.Equal(time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)) {
		t.Error("wrong end", event.End)
	}
}

func TestFromGoogleEventWholeDay(t *testing.T) {
	event, err := calendar.FromGoogleEvent(&calendar3.Event{
		Summary: "Holiday",
		Start:   &calendar3.EventDateTime{Date: "2024-05-03"},
		End:     &calendar3.EventDateTime{Date: "2024-05-04"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !event.Start.Equal(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)) {
		t.Error("wrong start", event.Start)
	}
}

func TestFromGoogleEventMissingDates(t *testing.T) {
	if _, err := calendar.FromGoogleEvent(&calendar3.Event{
		Summary: "Broken",
		End:     &calendar3.EventDateTime{DateTime: "2024-05-03T10:00:00Z"},
	}); !errors.Is(err, calendar.ErrMissingStart) {
		t.Error("expected missing start error, got", err)
	}

	if _, err := calendar.FromGoogleEvent(&calendar3.Event{
		Summary: "Broken",
		Start:   &calendar3.EventDateTime{DateTime: "2024-05-03T09:00:00Z"},
		End:     &calendar3.EventDateTime{},
	}); !errors.Is(err, calendar.ErrMissingEnd) {
		t.Error("expected missing end error, got", err)
	}
}

func TestFromGoogleEventsRejectsWholeBatch(t *testing.T) {
	items := []*calendar3.Event{
		{
			Summary: "Standup",
			Start:   &calendar3.EventDateTime{DateTime: "2024-05-03T09:00:00Z"},
			End:     &calendar3.EventDateTime{DateTime: "2024-05-03T10:00:00Z"},
		},
		{Summary: "Broken"},
	}

	events, err := calendar.FromGoogleEvents(items)
	if err == nil {
		t.Fatal("batch with a malformed event should fail as a whole")
	}
	if events != nil {
		t.Error("no partial batch should come back")
	}
}

func TestEventEqual(t *testing.T) {
	base := calendar.Event{
		Summary: "Standup",
		Start:   time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC),
	}

	inParis := base
	inParis.Start = base.Start.In(time.FixedZone("CEST", 2*3600))
	if !base.Equal(inParis) {
		t.Error("same instant in another zone should be equal")
	}

	renamed := base
	renamed.Summary = "Retro"
	if base.Equal(renamed) {
		t.Error("different summary should not be equal")
	}
}
