package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/yoyozbi/calendarbot/src-server/calendar"
	"github.com/yoyozbi/calendarbot/src-server/model"
	"github.com/yoyozbi/calendarbot/src-server/notify"
	"github.com/yoyozbi/calendarbot/src-server/utils"

	"github.com/uptrace/bun"
)

// CalendarPoll runs one sweep over every registered calendar, sleeps
// for the configured interval, and goes again until shutdown. The
// queue is closed on the way out so the consumer can drain and stop.
func CalendarPoll(as *utils.AppState, fetcher calendar.Fetcher, queue chan<- notify.Update) {
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	interval := as.Config.GetCalendarPollInterval()
	for {
		Sweep(as.BunDB, fetcher, queue, opTimeout(interval), as.MetricChans.CalendarFetch)

		select {
		case <-*gracefulShutdownCh:
			close(queue)
			return
		case <-time.After(interval):
		}
	}
}

// Sweep fetches every registered calendar sequentially and hands each
// result to the consumer queue. A calendar that fails to fetch is
// skipped; the rest of the sweep goes on.
func Sweep(db bun.IDB, fetcher calendar.Fetcher, queue chan<- notify.Update, timeout time.Duration, fetchLatency chan<- float64) {
	calendarModels := []model.Calendar{}
	if err := db.
		NewSelect().
		Model(&calendarModels).
		Scan(context.Background()); err != nil {
		slog.Error("Sweep: can't get calendars", "error", err)
		return
	}

	for _, calendarModel := range calendarModels {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		startTimer := time.Now()
		events, err := fetcher.Fetch(ctx, calendarModel.GoogleID, time.Now())
		cancel()
		if err != nil {
			slog.Warn("Sweep: can't fetch calendar",
				"google_id", calendarModel.GoogleID,
				"error", err)
			continue
		}
		select {
		case fetchLatency <- float64(time.Since(startTimer).Microseconds()):
		default:
		}

		var location *time.Location
		if calendarModel.Timezone != "" {
			location, err = time.LoadLocation(calendarModel.Timezone)
			if err != nil {
				slog.Warn("Sweep: invalid calendar timezone, using the global one",
					"google_id", calendarModel.GoogleID,
					"timezone", calendarModel.Timezone,
					"error", err)
				location = nil
			}
		}

		queue <- notify.Update{
			CalendarID: calendarModel.GoogleID,
			ChannelID:  calendarModel.ChannelID,
			Events:     events,
			Location:   location,
		}
	}
}

// A hung provider must not block the next cycle, so a single fetch
// never gets the whole interval to itself.
func opTimeout(interval time.Duration) time.Duration {
	timeout := interval / 2
	if timeout < 5*time.Second {
		timeout = 5 * time.Second
	}
	return timeout
}
