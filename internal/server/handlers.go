package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/lanplay"
	"github.com/woozymasta/lanplay/internal/maintenance"
	"github.com/woozymasta/lanplay/internal/models"
	"github.com/woozymasta/lanplay/internal/vars"
)

// handleRooms returns the current room snapshot with an ETag.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.session.Rooms()

	resp := roomsResponse{
		URL:   s.session.URL(),
		Rooms: make([]roomView, 0, len(rooms)),
	}
	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, roomView{
			Room: room,
			Key:  fmt.Sprintf("%016x", room.Key()),
			Full: room.Full(),
		})
	}

	writeCachedJSON(w, r, resp)
}

// handleServerInfo returns the counters of the selected relay, 404 when none.
func (s *Server) handleServerInfo(w http.ResponseWriter, _ *http.Request) {
	info, ok := s.session.ServerInfo()
	if !ok {
		writeError(w, http.StatusNotFound, "no server info available")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleServers lists the relay directory, or the discovery snapshot when
// storage is disabled.
func (s *Server) handleServers(w http.ResponseWriter, r *http.Request) {
	if s.storage != nil {
		servers, err := s.storage.GetRelayServers(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch relay servers")
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		if servers == nil {
			servers = []models.RelayServer{}
		}
		writeJSON(w, http.StatusOK, servers)
		return
	}

	monitors := s.session.Servers()
	servers := make([]models.RelayServer, 0, len(monitors))
	for _, m := range monitors {
		servers = append(servers, maintenance.FromMonitor(m, time.Time{}))
	}
	writeJSON(w, http.StatusOK, servers)
}

// handleGames returns one catalog game (?id=) or the whole parsed catalog.
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	catalog := s.session.Catalog()

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		games, err := catalog.Games()
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeCachedJSON(w, r, games)
		return
	}

	game, ok, err := catalog.Lookup(lanplay.NormalizeContentID(id))
	switch {
	case err != nil:
		writeError(w, statusFor(err), err.Error())
	case !ok:
		writeError(w, http.StatusNotFound, "game not found")
	default:
		writeJSON(w, http.StatusOK, game)
	}
}

// handleSelect switches the session to ?url=.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}

	if err := s.session.SelectServer(r.Context(), url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Server selection failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	log.Info().Str("url", s.session.URL()).Int("rooms", len(s.session.Rooms())).Msg("Relay selected")
	s.handleRooms(w, r)
}

// handleRefresh re-queries the selected relay.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RefreshServer(r.Context()); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.handleRooms(w, r)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, vars.Info())
}

// statusFor maps session error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lanplay.ErrNotConfigured):
		return http.StatusConflict
	case errors.Is(err, lanplay.ErrDecode), errors.Is(err, lanplay.ErrMalformedCatalogEntry):
		return http.StatusUnprocessableEntity
	case errors.Is(err, lanplay.ErrTransport):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCachedJSON sets an xxhash ETag and answers 304 when it matches If-None-Match.
func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
