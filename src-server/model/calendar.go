package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Calendar is one registration: an external Google calendar mirrored
// into one Discord channel.
type Calendar struct {
	bun.BaseModel `bun:"table:calendars"`

	ID           string `bun:"id,pk"`              // required
	GoogleID     string `bun:"google_id,notnull"`  // required
	ChannelID    string `bun:"channel_id,notnull"` // required
	Timezone     string `bun:"timezone"`           // IANA name; blank falls back to TIMEZONE
	PollInterval int64  `bun:"poll_interval"`      // seconds; sweeps currently run at the global CALENDAR_POLL_INTERVAL
}

func (c *Calendar) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*Calendar).Upsert: db is nil")
	}

	// validate
	switch {
	case c.ID == "":
		return fmt.Errorf("(*Calendar).Upsert: calendar id is blank")
	case c.GoogleID == "":
		return fmt.Errorf("(*Calendar).Upsert: google id is blank")
	case c.ChannelID == "":
		return fmt.Errorf("(*Calendar).Upsert: channel id is blank")
	case c.PollInterval < 0:
		return fmt.Errorf("(*Calendar).Upsert: poll interval is negative")
	case c.Timezone != "":
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("(*Calendar).Upsert: timezone is invalid: %w", err)
		}
	}

	// upsert
	if _, err := db.NewInsert().
		Model(c).
		On("CONFLICT (id) DO UPDATE").
		Set("google_id = EXCLUDED.google_id").
		Set("channel_id = EXCLUDED.channel_id").
		Set("timezone = EXCLUDED.timezone").
		Set("poll_interval = EXCLUDED.poll_interval").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Calendar).Upsert: can't upsert calendar: %w", err)
	}

	return nil
}
