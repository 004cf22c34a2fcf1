// Package config parses the application configuration from command-line
// arguments and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/woozymasta/lanplay/internal/advertise"
	"github.com/woozymasta/lanplay/internal/catalog"
	"github.com/woozymasta/lanplay/internal/logger"
	"github.com/woozymasta/lanplay/internal/uptime"
	"github.com/woozymasta/lanplay/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	API     API           `group:"API Options" env-namespace:"LANPLAY"`
	Query   Query         `group:"Query Options" env-namespace:"LANPLAY"`
	Server  Server        `group:"Server Options" namespace:"http" env-namespace:"LANPLAY_HTTP"`
	Storage Storage       `group:"Storage Options" namespace:"db" env-namespace:"LANPLAY_DB"`
	GeoIP   GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"LANPLAY_GEOIP"`
	Logger  logger.Config `group:"Logger Options" namespace:"log" env-namespace:"LANPLAY_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// API holds upstream service configuration.
type API struct {
	// betteralign:ignore

	Key         string        `short:"k" long:"api-key" env:"API_KEY" description:"UptimeRobot API key listing the relay monitors"`
	MonitorsURL string        `long:"monitors-url" env:"MONITORS_URL" description:"Monitors endpoint" default:"https://api.uptimerobot.com/v2/getMonitors"`
	CatalogURL  string        `long:"catalog-url" env:"CATALOG_URL" description:"Game catalog endpoint" default:"https://tinfoil.media/Title/ApiJson/"`
	Timeout     time.Duration `long:"timeout" env:"TIMEOUT" description:"Outbound request timeout" default:"10s"`
	Rate        float64       `long:"rate" env:"RATE" description:"Outbound requests per second, 0 disables throttling" default:"5"`
	Burst       int           `long:"burst" env:"BURST" description:"Outbound request burst" default:"5"`
}

// Query holds relay query configuration.
type Query struct {
	// betteralign:ignore

	Server   string `short:"s" long:"server" env:"SERVER" description:"Relay server to select (host[:port] or URL)"`
	Encoding string `short:"e" long:"encoding" env:"ENCODING" description:"Advertise nickname encoding (utf-8, latin1, utf-16le)" default:"utf-8"`
}

// Server holds the HTTP API configuration.
type Server struct {
	// betteralign:ignore

	Serve           bool          `long:"serve" env:"SERVE" description:"Serve the HTTP API instead of printing once"`
	Address         string        `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	AuthToken       string        `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Bearer token for select and refresh endpoints"`
	RefreshInterval time.Duration `long:"refresh-interval" env:"REFRESH_INTERVAL" description:"Background room refresh interval, 0 disables" default:"30s"`
	HardLimitCount  int           `long:"rate-count" env:"RATE_COUNT" description:"Per IP limit: requests count" default:"60"`
	HardLimitWin    time.Duration `long:"rate-window" env:"RATE_WINDOW" description:"Per IP limit: window duration" default:"1m"`
	TrustProxy      bool          `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Storage holds relay directory configuration.
type Storage struct {
	// betteralign:ignore

	Path             string `short:"d" long:"path" env:"PATH" description:"Path to SQLite relay directory, empty disables it" default:"lanplay.db"`
	CheckServers     bool   `long:"check-servers" description:"Query every stored relay once and record its status"`
	PruneUnreachable bool   `long:"prune-unreachable" description:"Delete relays whose last check failed"`
	GenerateCount    int    `long:"gen-fake-data" hidden:"true"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file, empty disables country lookups" default:"lanplay.mmdb"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// Encoding returns the parsed advertise encoding.
func (c *Config) Encoding() advertise.Encoding {
	enc, err := advertise.ParseEncoding(c.Query.Encoding)
	if err != nil {
		return advertise.Default
	}

	return enc
}

// NeedsSession reports whether the run talks to the monitoring and catalog services.
func (c *Config) NeedsSession() bool {
	return c.Storage.GenerateCount == 0 && !c.Storage.CheckServers && !c.Storage.PruneUnreachable
}

// ParseArgs parses args (without the program name) and validates the result.
// A help request is returned as a *flags.Error of type flags.ErrHelp.
func ParseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Version {
		return &cfg, nil
	}

	if _, err := advertise.ParseEncoding(cfg.Query.Encoding); err != nil {
		return nil, err
	}

	if cfg.NeedsSession() && cfg.API.Key == "" {
		return nil, errors.New("required flag `-k, --api-key' or environment variable `LANPLAY_API_KEY` was not specified")
	}

	if cfg.Server.Serve && cfg.Server.HardLimitWin <= 0 {
		return nil, errors.New("`--http-rate-window' must be positive")
	}

	if cfg.API.MonitorsURL == "" {
		cfg.API.MonitorsURL = uptime.DefaultURL
	}
	if cfg.API.CatalogURL == "" {
		cfg.API.CatalogURL = catalog.DefaultURL
	}

	return &cfg, nil
}

// Parse reads the configuration from os.Args and the environment.
// It terminates the application if the configuration is invalid or if help or version was requested.
func Parse() *Config {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print(os.Stdout)
		os.Exit(0)
	}

	return cfg
}
