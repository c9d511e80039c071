package scheduler_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/yoyozbi/calendarbot/src-server/calendar"
	"github.com/yoyozbi/calendarbot/src-server/model"
	"github.com/yoyozbi/calendarbot/src-server/notify"
	"github.com/yoyozbi/calendarbot/src-server/scheduler"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type fakeFetcher struct {
	eventsByID map[string][]calendar.Event
	failingIDs map[string]bool
	fetched    []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, calendarID string, notBefore time.Time) ([]calendar.Event, error) {
	f.fetched = append(f.fetched, calendarID)
	if f.failingIDs[calendarID] {
		return nil, errors.New("backend says no")
	}
	return f.eventsByID[calendarID], nil
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	bundb := bun.NewDB(db, sqlitedialect.New())
	if _, err := bundb.NewCreateTable().
		Model((*model.Calendar)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func TestSweepIsolatesFailingCalendar(t *testing.T) {
	bundb := newTestDB(t)
	for _, calendarModel := range []model.Calendar{
		{ID: uuid.NewString(), GoogleID: "cal-a", ChannelID: "chan-1"},
		{ID: uuid.NewString(), GoogleID: "cal-b", ChannelID: "chan-2"},
	} {
		if err := calendarModel.Upsert(context.Background(), bundb); err != nil {
			t.Fatal(err)
		}
	}

	fetcher := &fakeFetcher{
		eventsByID: map[string][]calendar.Event{
			"cal-b": {{
				Summary: "Review",
				Start:   time.Date(2024, 5, 3, 14, 0, 0, 0, time.UTC),
				End:     time.Date(2024, 5, 3, 15, 0, 0, 0, time.UTC),
			}},
		},
		failingIDs: map[string]bool{"cal-a": true},
	}
	queue := make(chan notify.Update, 4)

	scheduler.Sweep(bundb, fetcher, queue, 5*time.Second, nil)
	close(queue)

	if len(fetcher.fetched) != 2 {
		t.Fatal("both calendars should be fetched, got", fetcher.fetched)
	}

	updates := make([]notify.Update, 0)
	for update := range queue {
		updates = append(updates, update)
	}
	if len(updates) != 1 {
		t.Fatal("only the healthy calendar should be queued, got", len(updates))
	}
	if updates[0].CalendarID != "cal-b" || updates[0].ChannelID != "chan-2" {
		t.Error("wrong update", updates[0])
	}
	if len(updates[0].Events) != 1 || updates[0].Events[0].Summary != "Review" {
		t.Error("wrong events", updates[0].Events)
	}
}

func TestSweepResolvesCalendarTimezone(t *testing.T) {
	bundb := newTestDB(t)
	for _, calendarModel := range []model.Calendar{
		{ID: uuid.NewString(), GoogleID: "cal-a", ChannelID: "chan-1", Timezone: "UTC"},
		{ID: uuid.NewString(), GoogleID: "cal-b", ChannelID: "chan-2"},
	} {
		if err := calendarModel.Upsert(context.Background(), bundb); err != nil {
			t.Fatal(err)
		}
	}

	fetcher := &fakeFetcher{eventsByID: map[string][]calendar.Event{
		"cal-a": {},
		"cal-b": {},
	}}
	queue := make(chan notify.Update, 4)

	scheduler.Sweep(bundb, fetcher, queue, 5*time.Second, nil)
	close(queue)

	locations := make(map[string]*time.Location)
	for update := range queue {
		locations[update.CalendarID] = update.Location
	}
	if locations["cal-a"] != time.UTC {
		t.Error("registered timezone should be resolved, got", locations["cal-a"])
	}
	if locations["cal-b"] != nil {
		t.Error("blank timezone should stay nil for the global fallback")
	}
}

func TestSweepQueuesEmptyCalendars(t *testing.T) {
	bundb := newTestDB(t)
	calendarModel := model.Calendar{ID: uuid.NewString(), GoogleID: "cal-a", ChannelID: "chan-1"}
	if err := calendarModel.Upsert(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{eventsByID: map[string][]calendar.Event{"cal-a": {}}}
	queue := make(chan notify.Update, 4)

	scheduler.Sweep(bundb, fetcher, queue, 5*time.Second, nil)
	close(queue)

	update, ok := <-queue
	if !ok {
		t.Fatal("an empty calendar is still a poll result")
	}
	if update.CalendarID != "cal-a" || len(update.Events) != 0 {
		t.Error("wrong update", update)
	}
}
