// main is the entry point of the lanplay client.
// It discovers LAN-PLAY relays, loads the game catalog and either prints the
// rooms of one relay or serves them over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/catalog"
	"github.com/woozymasta/lanplay/internal/config"
	"github.com/woozymasta/lanplay/internal/fake"
	"github.com/woozymasta/lanplay/internal/geoip"
	"github.com/woozymasta/lanplay/internal/httpclient"
	"github.com/woozymasta/lanplay/internal/lanplay"
	"github.com/woozymasta/lanplay/internal/logger"
	"github.com/woozymasta/lanplay/internal/maintenance"
	"github.com/woozymasta/lanplay/internal/models"
	"github.com/woozymasta/lanplay/internal/relay"
	"github.com/woozymasta/lanplay/internal/report"
	"github.com/woozymasta/lanplay/internal/server"
	"github.com/woozymasta/lanplay/internal/storage"
	"github.com/woozymasta/lanplay/internal/uptime"
	"github.com/woozymasta/lanplay/internal/vars"
)

func main() {
	cfg := config.Parse()
	logger.Setup(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("lanplay failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	client := httpclient.New(httpclient.Options{
		UserAgent: vars.UserAgent(),
		Timeout:   cfg.API.Timeout,
		Rate:      cfg.API.Rate,
		Burst:     cfg.API.Burst,
	})
	querier := relay.New(client)

	// Relay directory
	var store *storage.Repository
	if cfg.Storage.Path != "" {
		var err error
		store, err = storage.New(ctx, cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing database")
			}
		}()
	}

	if !cfg.NeedsSession() {
		if store == nil {
			return errors.New("maintenance requires `--db-path'")
		}
		if cfg.Storage.GenerateCount > 0 {
			fake.GenerateData(ctx, store, cfg.Storage.GenerateCount)
			return nil
		}
		maintenance.Run(ctx, cfg, store, querier)
		return nil
	}

	session, err := lanplay.New(ctx, cfg.API.Key, lanplay.Deps{
		Directory: uptime.New(client, cfg.API.MonitorsURL),
		Catalog:   catalog.New(client, cfg.API.CatalogURL),
		Querier:   querier,
	}, lanplay.Options{Encoding: cfg.Encoding()})
	if err != nil {
		return err
	}

	if store != nil {
		geo := openGeoIP(ctx, client, cfg.GeoIP)
		if geo != nil {
			defer func() { _ = geo.Close() }()
			_, err = maintenance.Sync(ctx, store, geo, session.Servers())
		} else {
			_, err = maintenance.Sync(ctx, store, nil, session.Servers())
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to record relay servers")
		}
	}

	if cfg.Query.Server != "" {
		if err := session.SelectServer(ctx, cfg.Query.Server); err != nil {
			return err
		}
	}

	if cfg.Server.Serve {
		return serve(ctx, cfg, session, store)
	}

	if session.Configured() {
		info, ok := session.ServerInfo()
		return report.Rooms(os.Stdout, session.URL(), info, ok, session.Rooms())
	}

	servers := make([]models.RelayServer, 0, len(session.Servers()))
	if store != nil {
		servers, err = store.GetRelayServers(ctx)
		if err != nil {
			return err
		}
	} else {
		for _, m := range session.Servers() {
			servers = append(servers, maintenance.FromMonitor(m, time.Now()))
		}
	}

	return report.Servers(os.Stdout, servers)
}

// openGeoIP returns nil when lookups are disabled or the database is unusable.
func openGeoIP(ctx context.Context, client *http.Client, cfg config.GeoIP) *geoip.Provider {
	if cfg.Path == "" {
		return nil
	}

	if err := geoip.EnsureDB(ctx, client, cfg.Path, cfg.URL, cfg.Interval); err != nil {
		log.Error().Err(err).Msg("Failed to download GeoIP database")
	}

	geo, err := geoip.Open(cfg.Path)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
		return nil
	}

	return geo
}

func serve(ctx context.Context, cfg *config.Config, session *lanplay.Session, store *storage.Repository) error {
	srvHandler := server.New(session, store, cfg.Server)
	srvHandler.StartWorkers()

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.API.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		srvHandler.StopWorkers()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	srvHandler.StopWorkers()
	log.Info().Msg("Server exited")

	return nil
}
