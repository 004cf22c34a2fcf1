package server

import (
	"context"
	"sync"
	"time"

	"github.com/woozymasta/lanplay/internal/lanplay"
	"github.com/woozymasta/lanplay/internal/models"
	"github.com/woozymasta/lanplay/internal/storage"
)

// Session is the part of *lanplay.Session the API serves.
type Session interface {
	SelectServer(ctx context.Context, url string) error
	RefreshServer(ctx context.Context) error
	Configured() bool
	URL() string
	Rooms() []lanplay.Room
	ServerInfo() (lanplay.ServerInfo, bool)
	Servers() []models.Monitor
	Catalog() *lanplay.Catalog
}

// Server holds the dependencies and runtime state of the HTTP API.
type Server struct {
	// session is the LAN-PLAY session whose snapshot is served.
	session Session

	// storage is the relay directory, nil when persistence is disabled.
	storage *storage.Repository

	// shutdown broadcasts a stop signal to the refresher and limiter janitor.
	shutdown chan struct{}

	// authToken guards the select and refresh endpoints. Empty disables them.
	authToken string

	wg sync.WaitGroup

	// refreshInterval is the period of background RefreshServer calls, zero disables them.
	refreshInterval time.Duration

	// hardLimitCount requests are allowed per IP within hardLimitWin.
	hardLimitCount int
	hardLimitWin   time.Duration

	// trustProxy makes GetRealIP honour CF-Connecting-IP and X-Forwarded-For.
	trustProxy bool
}

// roomView is a room as returned by the API.
type roomView struct {
	lanplay.Room

	Key  string `json:"key"`
	Full bool   `json:"full"`
}

type roomsResponse struct {
	URL   string     `json:"url"`
	Rooms []roomView `json:"rooms"`
}

type errorResponse struct {
	Error string `json:"error"`
}
