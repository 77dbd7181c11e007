package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

const caldavProductID = "-//bobuk//venuewatch//EN"

type CalDAVProvider struct {
	client       *caldav.Client
	ctx          context.Context
	calendarPath string
}

func NewCalDAVProvider(ctx context.Context, serverURL, username, password, calendarID string) (*CalDAVProvider, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar URL: %w", err)
	}

	var httpClient webdav.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	c, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	return &CalDAVProvider{
		client:       c,
		ctx:          ctx,
		calendarPath: strings.TrimRight(calURL.Path, "/"),
	}, nil
}

func (c *CalDAVProvider) FindNear(instant time.Time, before, after time.Duration, title string) ([]*Event, error) {
	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: instant.Add(-before).UTC(),
				End:   instant.Add(after).Add(time.Second).UTC(),
			}},
		},
	}

	objects, err := c.client.QueryCalendar(c.ctx, c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var result []*Event
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, comp := range obj.Data.Component.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			event := fromICalEvent(comp)
			if event.Start.IsZero() || !startsWithin(event.Start, instant, before, after) {
				continue
			}
			result = append(result, event)
		}
	}
	return result, nil
}

func (c *CalDAVProvider) Insert(event *Event) (*Event, error) {
	eventUID := "venuewatch-" + uuid.NewString()

	start, end := event.Start, event.End
	if loc, err := time.LoadLocation(event.TimeZone); err == nil && event.TimeZone != "" {
		start, end = start.In(loc), end.In(loc)
	}

	icalEvent := ical.NewEvent()
	icalEvent.Props.SetText(ical.PropUID, eventUID)
	icalEvent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	icalEvent.Props.SetText(ical.PropSummary, event.Summary)
	icalEvent.Props.SetText(ical.PropDescription, event.Description)
	icalEvent.Props.SetDateTime(ical.PropDateTimeStart, start)
	icalEvent.Props.SetDateTime(ical.PropDateTimeEnd, end)
	icalEvent.Props.SetText(ical.PropStatus, "CONFIRMED")

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, caldavProductID)
	cal.Children = append(cal.Children, icalEvent.Component)

	path := c.calendarPath + "/" + eventUID + ".ics"
	if _, err := c.client.PutCalendarObject(c.ctx, path, cal); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	created := *event
	created.ID = eventUID
	created.Link = path
	return &created, nil
}

func fromICalEvent(comp *ical.Component) *Event {
	event := &Event{
		ID:          getTextProp(comp.Props, ical.PropUID),
		Summary:     getTextProp(comp.Props, ical.PropSummary),
		Description: getTextProp(comp.Props, ical.PropDescription),
	}
	event.Start, _ = comp.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	event.End, _ = comp.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	if p := comp.Props.Get(ical.PropDateTimeStart); p != nil {
		event.TimeZone = p.Params.Get(ical.ParamTimezoneID)
	}
	return event
}

func getTextProp(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}
