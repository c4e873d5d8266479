package integration

import (
	"context"
	"fmt"
	"os"

	"backoffice/internal/model"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// MeetClient is the video-conferencing collaborator. It reports outcomes as
// (ok, message) pairs rather than errors because the caller surfaces the
// message verbatim and aborts the surrounding operation on failure.
type MeetClient interface {
	UpdateEvent(ctx context.Context, meeting *model.Meeting) (bool, string)
	DeleteEvent(ctx context.Context, eventID string) (bool, string)
}

type GoogleMeetClient struct {
	service    *calendar.Service
	calendarID string
	timeZone   string
}

var _ MeetClient = (*GoogleMeetClient)(nil)

func NewGoogleMeetClient(credentialsPath, calendarID, timeZone string) (*GoogleMeetClient, error) {
	ctx := context.Background()

	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar client: %w", err)
	}

	return &GoogleMeetClient{service: srv, calendarID: calendarID, timeZone: timeZone}, nil
}

// UpdateEvent pushes the meeting's current fields onto its remote event.
func (c *GoogleMeetClient) UpdateEvent(ctx context.Context, meeting *model.Meeting) (bool, string) {
	event, err := c.service.Events.Get(c.calendarID, meeting.EventID).Context(ctx).Do()
	if err != nil {
		return false, "unable to retrieve meeting event: " + err.Error()
	}

	event.Summary = meeting.Title
	event.Description = meeting.Agenda
	event.Start = &calendar.EventDateTime{
		DateTime: eventDateTime(meeting.StartDate.Format("2006-01-02"), meeting.StartTime),
		TimeZone: c.timeZone,
	}
	event.End = &calendar.EventDateTime{
		DateTime: eventDateTime(meeting.EndDate.Format("2006-01-02"), meeting.EndTime),
		TimeZone: c.timeZone,
	}

	if _, err := c.service.Events.Update(c.calendarID, event.Id, event).Context(ctx).Do(); err != nil {
		return false, "unable to update meeting event: " + err.Error()
	}
	return true, "meeting event updated"
}

// DeleteEvent removes the remote event. A 404 is treated as success since the
// event is already gone.
func (c *GoogleMeetClient) DeleteEvent(ctx context.Context, eventID string) (bool, string) {
	err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 404 {
			zap.L().Info("Meeting event already deleted", zap.String("eventID", eventID))
			return true, "meeting event already deleted"
		}
		return false, "unable to delete meeting event: " + err.Error()
	}
	return true, "meeting event deleted"
}

func eventDateTime(date, clock string) string {
	return fmt.Sprintf("%sT%s:00", date, clock)
}

// DisabledMeetClient stands in when no Google credentials are configured.
// Every call fails, which keeps the abort semantics honest: an online meeting
// with a remote event cannot be touched without the collaborator.
type DisabledMeetClient struct{}

var _ MeetClient = DisabledMeetClient{}

func (DisabledMeetClient) UpdateEvent(ctx context.Context, meeting *model.Meeting) (bool, string) {
	return false, "video conferencing is not configured"
}

func (DisabledMeetClient) DeleteEvent(ctx context.Context, eventID string) (bool, string) {
	return false, "video conferencing is not configured"
}
