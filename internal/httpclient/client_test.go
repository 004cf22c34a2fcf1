package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lanplay-test", r.UserAgent())
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	client := New(Options{UserAgent: "lanplay-test"})
	req, err := NewJSONRequest(context.Background(), http.MethodPost, srv.URL, map[string]string{"k": "v"})
	require.NoError(t, err)

	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, DoJSON(client, req, &out))
	assert.Equal(t, 42, out.Value)
}

func TestDoJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream is down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	err = DoJSON(New(Options{}), req, &struct{}{})
	require.ErrorIs(t, err, ErrTransport)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "upstream is down")
}

func TestDoJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	require.ErrorIs(t, DoJSON(New(Options{}), req, &struct{}{}), ErrTransport)
}

func TestDoJSONConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	require.ErrorIs(t, DoJSON(New(Options{Timeout: time.Second}), req, &struct{}{}), ErrTransport)
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(Options{Rate: 0.001, Burst: 1})

	req, err := NewJSONRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	require.NoError(t, DoJSON(client, req, &struct{}{}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err = NewJSONRequest(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	require.ErrorIs(t, DoJSON(client, req, &struct{}{}), ErrTransport)
}
