package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yoyozbi/calendarbot/src-server/calendar"
)

// QueueSize bounds the producer→consumer handoff. A full queue blocks
// the poller instead of dropping, so the cache never drifts from what
// was actually delivered.
const QueueSize = 200

var ErrQueueClosed = errors.New("update queue closed")

// Update is one poll result handed from the poller to the consumer.
// Location is the calendar's registered timezone; nil means the global
// one.
type Update struct {
	CalendarID string
	ChannelID  string
	Events     []calendar.Event
	Location   *time.Location
}

// Consumer is the only goroutine touching the per-calendar event cache
// and message-id record; everything reaches it through the queue, so
// neither map needs a lock.
type Consumer struct {
	sink Sink
	loc  *time.Location

	// last event list delivered per calendar id
	events map[string][]calendar.Event
	// last message id delivered per calendar id
	messageIDs map[string]string

	// defaults to time.Now
	Now func() time.Time
	// a delivery taking longer than this is abandoned for the cycle
	// and retried on the next poll; defaults to half the poll interval
	DispatchTimeout time.Duration
}

func NewConsumer(sink Sink, loc *time.Location, pollInterval time.Duration) *Consumer {
	return &Consumer{
		sink:            sink,
		loc:             loc,
		events:          make(map[string][]calendar.Event),
		messageIDs:      make(map[string]string),
		Now:             time.Now,
		DispatchTimeout: dispatchTimeout(pollInterval),
	}
}

// Run drains the queue in FIFO order until it closes or ctx is
// cancelled.
func (c *Consumer) Run(ctx context.Context, queue <-chan Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-queue:
			if !ok {
				return ErrQueueClosed
			}
			c.apply(update)
		}
	}
}

func (c *Consumer) apply(update Update) {
	cached := c.events[update.CalendarID]
	if !Detect(cached, update.Events) {
		slog.Debug("no new events", "calendar_id", update.CalendarID)
		return
	}

	loc := c.loc
	if update.Location != nil {
		loc = update.Location
	}
	embed, err := Render(update.Events, c.Now(), loc)
	if err != nil {
		slog.Warn("can't render notification, skipping this cycle",
			"calendar_id", update.CalendarID,
			"error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.DispatchTimeout)
	messageID, err := Dispatch(ctx, c.sink, update.ChannelID, embed, c.messageIDs[update.CalendarID])
	cancel()
	if err != nil {
		// cache stays put so the next poll retries the delivery; a
		// hung delivery counts the same as a rejected one
		slog.Error("can't deliver notification, will retry next sweep",
			"calendar_id", update.CalendarID,
			"channel_id", update.ChannelID,
			"error", err)
		return
	}

	// cache and record advance together, and only after a delivery
	c.events[update.CalendarID] = update.Events
	c.messageIDs[update.CalendarID] = messageID
}

// One delivery must never outlive the cycle that queued it.
func dispatchTimeout(interval time.Duration) time.Duration {
	timeout := interval / 2
	if timeout < 5*time.Second {
		timeout = 5 * time.Second
	}
	return timeout
}
