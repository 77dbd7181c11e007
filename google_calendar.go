package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type GoogleCalendarProvider struct {
	service    *calendar.Service
	ctx        context.Context
	calendarID string
}

func NewGoogleCalendarProvider(ctx context.Context, client *http.Client, calendarID string, opts ...option.ClientOption) (*GoogleCalendarProvider, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendarProvider{
		service:    service,
		ctx:        ctx,
		calendarID: calendarID,
	}, nil
}

func (g *GoogleCalendarProvider) GetCalendar() error {
	_, err := g.service.CalendarList.Get(g.calendarID).Context(g.ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get calendar: %w", err)
	}
	return nil
}

// FindNear lists events overlapping the window and keeps the ones that
// start inside it; the API itself filters on overlap, not on start time.
func (g *GoogleCalendarProvider) FindNear(instant time.Time, before, after time.Duration, title string) ([]*Event, error) {
	call := g.service.Events.List(g.calendarID).
		TimeMin(instant.Add(-before).Format(time.RFC3339)).
		TimeMax(instant.Add(after).Add(time.Second).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(g.ctx)
	if title != "" {
		call = call.Q(title)
	}

	var result []*Event
	err := call.Pages(g.ctx, func(events *calendar.Events) error {
		for _, item := range events.Items {
			if item.Start == nil || item.Start.DateTime == "" {
				// all-day events never collide with a timed show
				continue
			}
			event := fromGoogleEvent(item)
			if startsWithin(event.Start, instant, before, after) {
				result = append(result, event)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return result, nil
}

func (g *GoogleCalendarProvider) Insert(event *Event) (*Event, error) {
	googleEvent := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.TimeZone,
		},
	}

	created, err := g.service.Events.Insert(g.calendarID, googleEvent).Context(g.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return fromGoogleEvent(created), nil
}

func fromGoogleEvent(item *calendar.Event) *Event {
	event := &Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Link:        item.HtmlLink,
	}
	if item.Start != nil {
		event.Start, _ = time.Parse(time.RFC3339, item.Start.DateTime)
		event.TimeZone = item.Start.TimeZone
	}
	if item.End != nil {
		event.End, _ = time.Parse(time.RFC3339, item.End.DateTime)
	}
	return event
}
