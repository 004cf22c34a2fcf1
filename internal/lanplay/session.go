// Package lanplay implements a LAN-PLAY client session: relay discovery, the
// game catalog snapshot and the room list of the selected relay server.
package lanplay

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/advertise"
	"github.com/woozymasta/lanplay/internal/models"
)

// ServerDirectory lists candidate relay servers.
type ServerDirectory interface {
	Monitors(ctx context.Context, apiKey string) ([]models.Monitor, error)
}

// CatalogSource fetches the game catalog.
type CatalogSource interface {
	Fetch(ctx context.Context) ([]models.CatalogEntry, error)
}

// RoomQuerier runs the room/server-info query against a relay endpoint.
type RoomQuerier interface {
	Query(ctx context.Context, endpoint string) (*models.QueryResult, error)
}

// Deps are the external collaborators of a Session.
type Deps struct {
	Directory ServerDirectory
	Catalog   CatalogSource
	Querier   RoomQuerier
}

// Options tune a Session.
type Options struct {
	Encoding advertise.Encoding
}

// Session tracks the selected relay and its most recent room snapshot.
// Mutations are serialized; readers always see a complete snapshot.
type Session struct {
	querier RoomQuerier
	catalog *Catalog
	info    *ServerInfo

	url      string
	encoding advertise.Encoding

	servers []models.Monitor
	rooms   []Room

	// update serializes SelectServer and RefreshServer.
	update sync.Mutex
	mu     sync.RWMutex
}

// New fetches the relay server list and the game catalog.
// Failures of either service are returned as is.
func New(ctx context.Context, apiKey string, deps Deps, opts Options) (*Session, error) {
	servers, err := deps.Directory.Monitors(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("discover relay servers: %w", err)
	}

	entries, err := deps.Catalog.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch game catalog: %w", err)
	}

	enc := opts.Encoding
	if enc == "" {
		enc = advertise.Default
	}

	log.Info().
		Int("servers", len(servers)).
		Int("games", len(entries)).
		Msg("Session initialized")

	return &Session{
		querier:  deps.Querier,
		catalog:  NewCatalog(entries),
		encoding: enc,
		servers:  servers,
	}, nil
}

// SelectServer queries url and, on success, replaces the room list and server info.
// On failure the previous state is kept.
func (s *Session) SelectServer(ctx context.Context, url string) error {
	s.update.Lock()
	defer s.update.Unlock()

	return s.load(ctx, FormatURL(url))
}

// RefreshServer re-queries the selected server. It returns ErrNotConfigured
// when no server was selected yet.
func (s *Session) RefreshServer(ctx context.Context) error {
	s.update.Lock()
	defer s.update.Unlock()

	s.mu.RLock()
	url := s.url
	s.mu.RUnlock()

	if url == "" {
		return ErrNotConfigured
	}

	return s.load(ctx, url)
}

// load fetches and converts everything before swapping state in one step.
func (s *Session) load(ctx context.Context, url string) error {
	result, err := s.querier.Query(ctx, url)
	if err != nil {
		return err
	}

	rooms, err := BuildRooms(result.Room, s.catalog, s.encoding)
	if err != nil {
		return err
	}

	var info *ServerInfo
	if result.ServerInfo != nil {
		v := NewServerInfo(*result.ServerInfo, url)
		info = &v

		var players int
		for _, room := range rooms {
			players += room.PlayerCount
		}
		if players != v.Online {
			log.Debug().
				Str("url", url).
				Int("online", v.Online).
				Int("in_rooms", players).
				Msg("Relay online counter differs from room totals")
		}
	}

	s.mu.Lock()
	s.url = url
	s.rooms = rooms
	s.info = info
	s.mu.Unlock()

	log.Debug().
		Str("url", url).
		Int("rooms", len(rooms)).
		Msg("Relay state replaced")

	return nil
}

// Configured reports whether a server was successfully selected.
func (s *Session) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.url != ""
}

// URL returns the normalized endpoint of the selected server.
func (s *Session) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.url
}

// Rooms returns a copy of the current room list.
func (s *Session) Rooms() []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]Room, len(s.rooms))
	for i, room := range s.rooms {
		rooms[i] = room.clone()
	}

	return rooms
}

// ServerInfo returns the counters of the selected server, false before the
// first selection or when the relay did not report them.
func (s *Session) ServerInfo() (ServerInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.info == nil {
		return ServerInfo{}, false
	}

	return *s.info, true
}

// Servers returns the relay servers discovered at construction.
func (s *Session) Servers() []models.Monitor {
	return slices.Clone(s.servers)
}

// Catalog returns the game catalog snapshot taken at construction.
func (s *Session) Catalog() *Catalog {
	return s.catalog
}
