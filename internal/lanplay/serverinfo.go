package lanplay

import "github.com/woozymasta/lanplay/internal/models"

// ServerInfo holds relay player counters. Online excludes idle players.
type ServerInfo struct {
	URL    string `json:"url"`
	Online int    `json:"online"`
	Idle   int    `json:"idle"`
}

// NewServerInfo derives the exposed counters from the raw relay report.
func NewServerInfo(raw models.RawServerInfo, url string) ServerInfo {
	return ServerInfo{
		URL:    url,
		Online: raw.Online - raw.Idle,
		Idle:   raw.Idle,
	}
}
