// Package relay queries the GraphQL endpoint of a LAN-PLAY relay server.
package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/machinebox/graphql"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/httpclient"
	"github.com/woozymasta/lanplay/internal/models"
)

// RoomsQuery requests the room list and player counters of a relay.
const RoomsQuery = `
query getUsers {
	room {
		contentId
		hostPlayerName
		nodeCountMax
		nodeCount
		advertiseData
		nodes {
			playerName
		}
	}
	serverInfo {
		online
		idle
	}
}`

// Client issues relay queries over a shared HTTP client.
type Client struct {
	http *http.Client
}

// New wraps client so non-2xx relay answers surface as httpclient.StatusError.
func New(client *http.Client) *Client {
	wrapped := *client
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	wrapped.Transport = statusTransport{next: next}

	return &Client{http: &wrapped}
}

// Query runs RoomsQuery against endpoint, which must already be a full URL.
func (c *Client) Query(ctx context.Context, endpoint string) (*models.QueryResult, error) {
	client := graphql.NewClient(endpoint, graphql.WithHTTPClient(c.http))
	client.Log = func(s string) {
		log.Trace().Str("url", endpoint).Msg(s)
	}

	req := graphql.NewRequest(RoomsQuery)

	var result models.QueryResult
	if err := client.Run(ctx, req, &result); err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", httpclient.ErrTransport, endpoint, err)
	}

	log.Debug().
		Str("url", endpoint).
		Int("rooms", len(result.Room)).
		Bool("server_info", result.ServerInfo != nil).
		Msg("Relay queried")

	return &result, nil
}

type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &httpclient.StatusError{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return resp, nil
}
