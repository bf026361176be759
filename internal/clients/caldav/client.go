package caldav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
)

// Client publishes reminder-schedule calendars to a CalDAV collection.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	client       *caldav.Client
}

// NewClient creates a CalDAV client. calendarPath is the collection the
// schedule calendars are written into.
func NewClient(baseURL, username, password, calendarPath string) *Client {
	return &Client{
		baseURL:      baseURL,
		username:     username,
		password:     password,
		calendarPath: calendarPath,
	}
}

// IsConfigured returns true when the client has an endpoint and credentials.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.username != "" && c.password != "" && c.calendarPath != ""
}

func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// objectPath returns the collection path for an object uid.
func (c *Client) objectPath(uid string) string {
	path := c.calendarPath
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path + uid + ".ics"
}

// PublishCalendar puts cal into the collection under uid, replacing any
// previous version.
func (c *Client) PublishCalendar(ctx context.Context, uid string, cal *ical.Calendar) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if _, err := client.PutCalendarObject(ctx, c.objectPath(uid), cal); err != nil {
		return fmt.Errorf("put calendar object: %w", err)
	}
	return nil
}

// RemoveCalendar deletes the published calendar for uid. Missing objects are
// not an error.
func (c *Client) RemoveCalendar(ctx context.Context, uid string) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if err := client.RemoveAll(ctx, c.objectPath(uid)); err != nil {
		if strings.Contains(err.Error(), "404") || strings.Contains(err.Error(), "not found") {
			return nil
		}
		return fmt.Errorf("remove calendar object: %w", err)
	}
	return nil
}
