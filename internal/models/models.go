// Package models defines the wire records exchanged with the catalog, monitoring
// and relay services, and the relay directory rows kept in storage.
package models

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// CatalogResponse is the body of the game catalog endpoint.
type CatalogResponse struct {
	Data []CatalogEntry `json:"data"`
}

// CatalogEntry is a single raw game record. Name and Icon carry markup
// that is only parsed when the entry is turned into a game.
type CatalogEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Icon         string  `json:"icon"`
	ReleaseDate  string  `json:"release_date"`
	Publisher    string  `json:"publisher"`
	Size         string  `json:"size"`
	BaseName     string  `json:"baseName,omitempty"`
	Status       string  `json:"status,omitempty"`
	RegularPrice string  `json:"regular_price,omitempty"`
	SalePrice    string  `json:"sale_price,omitempty"`
	Playtime     Int     `json:"playtime"`
	UserRating   Float64 `json:"user_rating"`
}

// MonitorsRequest is posted to the uptime monitoring API.
type MonitorsRequest struct {
	APIKey             string `json:"api_key"`
	Format             string `json:"format"`
	AllTimeUptimeRatio int    `json:"all_time_uptime_ratio"`
}

// MonitorsResponse is the body returned by the uptime monitoring API.
type MonitorsResponse struct {
	Error    *MonitorsError `json:"error,omitempty"`
	Stat     string         `json:"stat"`
	Monitors []Monitor      `json:"monitors"`
}

// MonitorsError describes a failed monitoring API call.
type MonitorsError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Monitor is a relay server entry as tracked by the monitoring service.
type Monitor struct {
	FriendlyName       string `json:"friendly_name"`
	URL                string `json:"url"`
	AllTimeUptimeRatio string `json:"all_time_uptime_ratio"`
	ID                 Int    `json:"id"`
	Type               Int    `json:"type"`
	Status             Int    `json:"status"`
}

// QueryResult is the data section of the relay GraphQL response.
type QueryResult struct {
	ServerInfo *RawServerInfo `json:"serverInfo"`
	Room       []RawRoom      `json:"room"`
}

// RawRoom is a room as reported by the relay.
type RawRoom struct {
	ContentID      string    `json:"contentId"`
	HostPlayerName string    `json:"hostPlayerName"`
	AdvertiseData  string    `json:"advertiseData"`
	Nodes          []RawNode `json:"nodes"`
	NodeCountMax   int       `json:"nodeCountMax"`
	NodeCount      int       `json:"nodeCount"`
}

// RawNode is a room member.
type RawNode struct {
	PlayerName string `json:"playerName"`
}

// RawServerInfo holds relay counters as reported, Online includes idle players.
type RawServerInfo struct {
	Online int `json:"online"`
	Idle   int `json:"idle"`
}

// RelayServer is a relay directory row.
type RelayServer struct {
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
	LastChecked   time.Time `json:"last_checked"`
	URL           string    `json:"url"`
	Name          string    `json:"name"`
	CountryCode   string    `json:"country_code"`
	MonitorID     int64     `json:"monitor_id"`
	MonitorStatus int       `json:"monitor_status"`
	UptimeRatio   float64   `json:"uptime_ratio"`
	Online        int       `json:"online"`
	Idle          int       `json:"idle"`
	Reachable     bool      `json:"reachable"`
}

// Int decodes a JSON number, a quoted number, an empty string or null.
type Int int64

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(b []byte) error {
	s := unquote(b)
	if s == "" {
		*i = 0
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int64(f)
	}
	*i = Int(n)

	return nil
}

// Float64 decodes a JSON number, a quoted number, an empty string or null.
type Float64 float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float64) UnmarshalJSON(b []byte) error {
	s := unquote(b)
	if s == "" {
		*f = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Float64(v)

	return nil
}

func unquote(b []byte) string {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return ""
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}

	return string(b)
}
