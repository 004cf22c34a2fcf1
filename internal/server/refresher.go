package server

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/lanplay"
)

// refresher re-queries the selected relay every refreshInterval until shutdown.
func (s *Server) refresher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case <-ticker.C:
			s.refreshOnce()
		}
	}
}

func (s *Server) refreshOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.refreshInterval)
	defer cancel()

	err := s.session.RefreshServer(ctx)
	switch {
	case err == nil:
		log.Trace().Str("url", s.session.URL()).Msg("Rooms refreshed")
	case errors.Is(err, lanplay.ErrNotConfigured):
		log.Trace().Msg("Refresh skipped, no relay selected")
	default:
		log.Warn().Err(err).Str("url", s.session.URL()).Msg("Background refresh failed")
	}
}
