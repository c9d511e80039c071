package notify

import (
	"github.com/yoyozbi/calendarbot/src-server/calendar"
)

// Detect reports whether the freshly fetched event list differs from
// the cached one. Events are paired by position: the provider returns
// them ordered by start time, so position tracks identity well enough
// that an unchanged calendar produces no notification. An empty cache
// always counts as changed so the first sighting of a calendar gets a
// notification out.
func Detect(cached, incoming []calendar.Event) bool {
	matching := 0
	for i := range cached {
		if i >= len(incoming) {
			break
		}
		if cached[i].Equal(incoming[i]) {
			matching++
		}
	}
	if matching == len(incoming) && matching == len(cached) && len(cached) > 0 {
		return false
	}
	return true
}
