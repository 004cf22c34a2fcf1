// Package catalog fetches the Nintendo Switch title catalog used to describe
// the game played in a room.
package catalog

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/httpclient"
	"github.com/woozymasta/lanplay/internal/models"
)

// DefaultURL is the public tinfoil title listing.
const DefaultURL = "https://tinfoil.media/Title/ApiJson/"

// Client downloads catalog snapshots.
type Client struct {
	http *http.Client
	url  string
}

// New returns a catalog client for url, DefaultURL when empty.
func New(client *http.Client, url string) *Client {
	if url == "" {
		url = DefaultURL
	}

	return &Client{http: client, url: url}
}

// Fetch returns the ordered list of raw catalog entries.
func (c *Client) Fetch(ctx context.Context) ([]models.CatalogEntry, error) {
	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	var resp models.CatalogResponse
	if err := httpclient.DoJSON(c.http, req, &resp); err != nil {
		return nil, err
	}

	log.Debug().
		Str("url", c.url).
		Int("entries", len(resp.Data)).
		Msg("Game catalog fetched")

	return resp.Data, nil
}
