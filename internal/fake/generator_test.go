package fake

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/lanplay/internal/advertise"
	"github.com/woozymasta/lanplay/internal/storage"
)

func TestRoomsDecode(t *testing.T) {
	for _, room := range Rooms(50) {
		require.Len(t, room.AdvertiseData, AdvertiseSize*2)
		assert.LessOrEqual(t, room.NodeCount, room.NodeCountMax)
		assert.Len(t, room.Nodes, room.NodeCount)

		name, err := advertise.DecodeName(room.AdvertiseData, advertise.UTF8)
		require.NoError(t, err)
		assert.Contains(t, nicknames, name)
	}
}

func TestQueryResult(t *testing.T) {
	result := QueryResult(5)
	require.Len(t, result.Room, 5)
	require.NotNil(t, result.ServerInfo)
	assert.GreaterOrEqual(t, result.ServerInfo.Online, result.ServerInfo.Idle)
}

func TestGenerateData(t *testing.T) {
	ctx := context.Background()
	store, err := storage.New(ctx, filepath.Join(t.TempDir(), "fake.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	GenerateData(ctx, store, 12)

	servers, err := store.GetRelayServers(ctx)
	require.NoError(t, err)
	assert.Len(t, servers, 12)
}
