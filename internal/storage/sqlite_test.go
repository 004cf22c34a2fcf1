package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/lanplay/internal/models"
)

func openTest(t *testing.T) *Repository {
	t.Helper()

	repo, err := New(context.Background(), filepath.Join(t.TempDir(), "lanplay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func relay(url string, seen time.Time) models.RelayServer {
	return models.RelayServer{
		URL:           url,
		Name:          "Relay " + url,
		MonitorID:     7,
		MonitorStatus: 2,
		UptimeRatio:   99.5,
		FirstSeen:     seen,
		LastSeen:      seen,
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanplay.db")

	repo, err := New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
}

func TestUpsertRelayServer(t *testing.T) {
	ctx := context.Background()
	repo := openTest(t)

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := relay("http://a.example/", first)
	s.CountryCode = "DE"
	require.NoError(t, repo.UpsertRelayServer(ctx, s))

	later := first.Add(time.Hour)
	s = relay("http://a.example/", later)
	s.Name = "Renamed"
	require.NoError(t, repo.UpsertRelayServer(ctx, s))

	got, err := repo.GetRelayServer(ctx, "http://a.example/")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "DE", got.CountryCode)
	assert.True(t, first.Equal(got.FirstSeen), got.FirstSeen)
	assert.True(t, later.Equal(got.LastSeen), got.LastSeen)
	assert.True(t, got.LastChecked.IsZero())

	missing, err := repo.GetRelayServer(ctx, "http://missing/")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRelayStatusAndPrune(t *testing.T) {
	ctx := context.Background()
	repo := openTest(t)
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	for _, url := range []string{"http://a/", "http://b/", "http://c/"} {
		require.NoError(t, repo.UpsertRelayServer(ctx, relay(url, now)))
	}

	require.NoError(t, repo.UpdateRelayStatus(ctx, "http://a/", 5, 1, true, now))
	require.NoError(t, repo.UpdateRelayStatus(ctx, "http://b/", 12, 0, true, now))
	require.NoError(t, repo.UpdateRelayStatus(ctx, "http://b/", 99, 99, false, now.Add(time.Minute)))

	servers, err := repo.GetRelayServers(ctx)
	require.NoError(t, err)
	require.Len(t, servers, 3)
	assert.Equal(t, "http://b/", servers[0].URL)
	assert.Equal(t, 12, servers[0].Online)
	assert.False(t, servers[0].Reachable)
	assert.Equal(t, "http://a/", servers[1].URL)
	assert.True(t, servers[1].Reachable)
	assert.Equal(t, 1, servers[1].Idle)

	deleted, err := repo.DeleteUnreachable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	require.NoError(t, repo.DeleteRelayServer(ctx, "http://a/"))

	servers, err = repo.GetRelayServers(ctx)
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "http://c/", servers[0].URL)
}
