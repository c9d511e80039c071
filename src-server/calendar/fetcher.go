package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	calendar3 "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Fetcher returns the events of one calendar starting at or after
// notBefore. Implementations wrap the provider SDK so everything above
// this line can run against a fake.
type Fetcher interface {
	Fetch(ctx context.Context, calendarID string, notBefore time.Time) ([]Event, error)
}

type GoogleFetcher struct {
	service *calendar3.Service
}

var _ Fetcher = (*GoogleFetcher)(nil)

// NewGoogleFetcher authenticates with a service account key file.
func NewGoogleFetcher(ctx context.Context, serviceFile string) (*GoogleFetcher, error) {
	raw, err := os.ReadFile(serviceFile)
	if err != nil {
		return nil, fmt.Errorf("NewGoogleFetcher: can't read service account file: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(raw, calendar3.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("NewGoogleFetcher: can't parse service account file: %w", err)
	}
	service, err := calendar3.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("NewGoogleFetcher: can't create calendar service: %w", err)
	}
	return &GoogleFetcher{service: service}, nil
}

func (f *GoogleFetcher) Fetch(ctx context.Context, calendarID string, notBefore time.Time) ([]Event, error) {
	// SingleEvents expands recurring events server-side, so the list
	// arrives flat and ordered by start time.
	resp, err := f.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(notBefore.Format(time.RFC3339)).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("(*GoogleFetcher).Fetch: can't list events: %w", err)
	}
	if len(resp.Items) == 0 {
		return []Event{}, nil
	}
	events, err := FromGoogleEvents(resp.Items)
	if err != nil {
		return nil, fmt.Errorf("(*GoogleFetcher).Fetch: %w", err)
	}
	return events, nil
}
