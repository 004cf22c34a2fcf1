package config

import (
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/lanplay/internal/advertise"
)

func TestParseArgsDefaults(t *testing.T) {
	t.Setenv("LANPLAY_API_KEY", "")

	cfg, err := ParseArgs([]string{"-k", "secret"})
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.API.Key)
	assert.Equal(t, "https://api.uptimerobot.com/v2/getMonitors", cfg.API.MonitorsURL)
	assert.Equal(t, "https://tinfoil.media/Title/ApiJson/", cfg.API.CatalogURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, advertise.UTF8, cfg.Encoding())
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.RefreshInterval)
	assert.Equal(t, "lanplay.db", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.NeedsSession())
}

func TestParseArgsNamespaces(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"--api-key", "k",
		"--server", "relay.example:11451",
		"--encoding", "utf-16le",
		"--http-serve",
		"--http-address", ":9000",
		"--db-path", "relays.db",
		"--geoip-path=",
		"--log-level", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "relay.example:11451", cfg.Query.Server)
	assert.Equal(t, advertise.UTF16LE, cfg.Encoding())
	assert.True(t, cfg.Server.Serve)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "relays.db", cfg.Storage.Path)
	assert.Empty(t, cfg.GeoIP.Path)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestParseArgsEnvironment(t *testing.T) {
	t.Setenv("LANPLAY_API_KEY", "from-env")
	t.Setenv("LANPLAY_HTTP_AUTH_TOKEN", "token")

	cfg, err := ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.API.Key)
	assert.Equal(t, "token", cfg.Server.AuthToken)
}

func TestParseArgsRequiresAPIKey(t *testing.T) {
	t.Setenv("LANPLAY_API_KEY", "")

	_, err := ParseArgs(nil)
	require.Error(t, err)

	cfg, err := ParseArgs([]string{"--db-check-servers"})
	require.NoError(t, err)
	assert.False(t, cfg.NeedsSession())
}

func TestParseArgsRejectsEncoding(t *testing.T) {
	_, err := ParseArgs([]string{"-k", "x", "--encoding", "shift-jis"})
	require.Error(t, err)
}

func TestParseArgsHelp(t *testing.T) {
	_, err := ParseArgs([]string{"--help"})

	var flagsErr *flags.Error
	require.ErrorAs(t, err, &flagsErr)
	assert.Equal(t, flags.ErrHelp, flagsErr.Type)
}
