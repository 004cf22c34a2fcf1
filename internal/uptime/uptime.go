// Package uptime discovers LAN-PLAY relay servers through the monitors
// registered in an UptimeRobot account.
package uptime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/httpclient"
	"github.com/woozymasta/lanplay/internal/models"
)

// DefaultURL is the UptimeRobot monitors endpoint.
const DefaultURL = "https://api.uptimerobot.com/v2/getMonitors"

// APIError is returned when the service answers with stat "fail".
type APIError struct {
	Type    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("uptime api: %s: %s", e.Type, e.Message)
}

// Is reports APIError as a transport failure.
func (e *APIError) Is(target error) bool {
	return target == httpclient.ErrTransport
}

// Client lists monitored relay servers.
type Client struct {
	http *http.Client
	url  string
}

// New returns a client for url, DefaultURL when empty.
func New(client *http.Client, url string) *Client {
	if url == "" {
		url = DefaultURL
	}

	return &Client{http: client, url: url}
}

// Monitors returns every monitor visible to apiKey, with all-time uptime ratios.
func (c *Client) Monitors(ctx context.Context, apiKey string) ([]models.Monitor, error) {
	body := models.MonitorsRequest{
		APIKey:             apiKey,
		Format:             "json",
		AllTimeUptimeRatio: 1,
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, err
	}

	var resp models.MonitorsResponse
	if err := httpclient.DoJSON(c.http, req, &resp); err != nil {
		return nil, err
	}

	if resp.Stat != "ok" {
		apiErr := &APIError{Type: "unknown", Message: "stat " + resp.Stat}
		if resp.Error != nil {
			apiErr.Type = resp.Error.Type
			apiErr.Message = resp.Error.Message
		}
		return nil, apiErr
	}

	log.Debug().
		Str("url", c.url).
		Int("monitors", len(resp.Monitors)).
		Msg("Relay servers discovered")

	return resp.Monitors, nil
}
