package notify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yoyozbi/calendarbot/src-server/calendar"
	"github.com/yoyozbi/calendarbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

type dateKey struct {
	startYear int
	startDay  int // day of year
	endYear   int
	endDay    int
}

// Render turns an event list into the single embed shown for one
// calendar. Events sharing a (start date, end date) pair collapse into
// one field, fields sorted by that pair ascending. An empty list is a
// valid notification with no fields.
func Render(events []calendar.Event, today time.Time, loc *time.Location) (*discordgo.MessageEmbed, error) {
	grouped := make(map[dateKey][]calendar.Event)
	keys := make([]dateKey, 0)
	for _, event := range events {
		if event.Start.IsZero() {
			return nil, fmt.Errorf("Render: %w", calendar.ErrMissingStart)
		}
		if event.End.IsZero() {
			return nil, fmt.Errorf("Render: %w", calendar.ErrMissingEnd)
		}
		start := event.Start.In(loc)
		end := event.End.In(loc)
		key := dateKey{
			startYear: start.Year(),
			startDay:  start.YearDay(),
			endYear:   end.Year(),
			endDay:    end.YearDay(),
		}
		if _, ok := grouped[key]; !ok {
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], event)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.startYear != b.startYear {
			return a.startYear < b.startYear
		}
		if a.startDay != b.startDay {
			return a.startDay < b.startDay
		}
		if a.endYear != b.endYear {
			return a.endYear < b.endYear
		}
		return a.endDay < b.endDay
	})

	fields := make([]*discordgo.MessageEmbedField, 0, len(keys))
	for _, key := range keys {
		groupEvents := grouped[key]
		lines := make([]string, 0, len(groupEvents))
		for _, event := range groupEvents {
			lines = append(lines, fmt.Sprintf(
				"```%s - %s | %s```",
				event.Start.In(loc).Format("15:04"),
				event.End.In(loc).Format("15:04"),
				utils.CleanupString(event.Summary),
			))
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  groupHeading(groupEvents[0], today, loc),
			Value: strings.Join(lines, "\n"),
		})
	}

	return &discordgo.MessageEmbed{
		Title:  "Events",
		Fields: fields,
	}, nil
}

// groupHeading picks the date format for one group. Verbose weekday
// form only when everything is in today's year; anything crossing a
// year boundary falls back to absolute ISO dates.
func groupHeading(event calendar.Event, today time.Time, loc *time.Location) string {
	start := event.Start.In(loc)
	end := event.End.In(loc)

	layout := "Monday — 2 January"
	if start.Year() != end.Year() || start.Year() != today.In(loc).Year() {
		layout = "2006-01-02"
	}

	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return start.Format(layout)
	}
	return fmt.Sprintf("%s // %s", start.Format(layout), end.Format(layout))
}
