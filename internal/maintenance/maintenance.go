// Package maintenance keeps the relay directory in sync with discovery and
// re-checks stored relays.
package maintenance

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/config"
	"github.com/woozymasta/lanplay/internal/lanplay"
	"github.com/woozymasta/lanplay/internal/models"
	"github.com/woozymasta/lanplay/internal/storage"
	"golang.org/x/time/rate"
)

// CountryResolver maps a relay host to a country code.
type CountryResolver interface {
	HostCountry(ctx context.Context, host string) string
}

// Run executes the maintenance task selected in cfg.
// It returns true when a task ran and the program should exit.
func Run(ctx context.Context, cfg *config.Config, store *storage.Repository, querier lanplay.RoomQuerier) bool {
	switch {
	case cfg.Storage.PruneUnreachable:
		log.Info().Msg("Pruning unreachable relays...")
		count, err := store.DeleteUnreachable(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to prune relays")
		} else {
			log.Info().Int64("deleted", count).Msg("Prune finished")
		}
		return true

	case cfg.Storage.CheckServers:
		// One outbound query per second keeps relays from seeing a burst.
		limiter := rate.NewLimiter(rate.Every(time.Second), 1)
		checked, reachable, err := Check(ctx, store, querier, limiter)
		if err != nil {
			log.Error().Err(err).Msg("Relay check aborted")
		}
		log.Info().Int("checked", checked).Int("reachable", reachable).Msg("Relay check completed")
		return true
	}

	return false
}

// Sync records every discovered relay. Country codes are resolved when geo is not nil.
func Sync(ctx context.Context, store *storage.Repository, geo CountryResolver, monitors []models.Monitor) (int, error) {
	now := time.Now().UTC()

	for _, m := range monitors {
		server := FromMonitor(m, now)
		if geo != nil {
			server.CountryCode = geo.HostCountry(ctx, hostOf(server.URL))
		}

		if err := store.UpsertRelayServer(ctx, server); err != nil {
			return 0, err
		}
	}

	log.Debug().Int("servers", len(monitors)).Msg("Relay directory synchronized")

	return len(monitors), nil
}

// Check queries each stored relay one after another and records the result.
// A nil limiter disables pacing.
func Check(ctx context.Context, store *storage.Repository, querier lanplay.RoomQuerier, limiter *rate.Limiter) (checked, reachable int, err error) {
	servers, err := store.GetRelayServers(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, s := range servers {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return checked, reachable, err
			}
		}

		logCtx := log.With().Str("url", s.URL).Logger()

		var online, idle int
		ok := false
		result, qerr := querier.Query(ctx, s.URL)
		switch {
		case qerr != nil:
			logCtx.Debug().Err(qerr).Msg("Relay unreachable")
		case result.ServerInfo == nil:
			logCtx.Debug().Msg("Relay did not report server info")
		default:
			info := lanplay.NewServerInfo(*result.ServerInfo, s.URL)
			online, idle, ok = info.Online, info.Idle, true
		}

		if err := store.UpdateRelayStatus(ctx, s.URL, online, idle, ok, time.Now().UTC()); err != nil {
			return checked, reachable, err
		}

		checked++
		if ok {
			reachable++
			logCtx.Trace().Int("online", online).Int("idle", idle).Msg("Relay checked")
		}
	}

	return checked, reachable, nil
}

// FromMonitor converts a monitoring entry into a directory row.
func FromMonitor(m models.Monitor, seen time.Time) models.RelayServer {
	ratio, _ := strconv.ParseFloat(strings.TrimSpace(m.AllTimeUptimeRatio), 64)

	return models.RelayServer{
		URL:           lanplay.FormatURL(m.URL),
		Name:          m.FriendlyName,
		MonitorID:     int64(m.ID),
		MonitorStatus: int(m.Status),
		UptimeRatio:   ratio,
		FirstSeen:     seen,
		LastSeen:      seen,
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	return u.Hostname()
}
