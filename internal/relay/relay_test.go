package relay

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/lanplay/internal/httpclient"
)

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "serverInfo")
		assert.Contains(t, string(body), "advertiseData")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"room":[{"contentId":"ffffffffffffffff","hostPlayerName":"host","nodeCountMax":8,"nodeCount":2,"advertiseData":"00","nodes":[{"playerName":"host"},{"playerName":"guest"}]}],
			"serverInfo":{"online":10,"idle":2}
		}}`))
	}))
	defer srv.Close()

	result, err := New(httpclient.New(httpclient.Options{})).Query(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	require.Len(t, result.Room, 1)
	assert.Equal(t, "host", result.Room[0].HostPlayerName)
	assert.Len(t, result.Room[0].Nodes, 2)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, 10, result.ServerInfo.Online)
	assert.Equal(t, 2, result.ServerInfo.Idle)
}

func TestQueryGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Cannot query field \"room\""}]}`))
	}))
	defer srv.Close()

	_, err := New(httpclient.New(httpclient.Options{})).Query(context.Background(), srv.URL)
	require.ErrorIs(t, err, httpclient.ErrTransport)
	assert.Contains(t, err.Error(), "Cannot query field")
}

func TestQueryStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(httpclient.New(httpclient.Options{})).Query(context.Background(), srv.URL)
	require.ErrorIs(t, err, httpclient.ErrTransport)

	var statusErr *httpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}
