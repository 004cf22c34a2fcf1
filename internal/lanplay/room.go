package lanplay

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/woozymasta/lanplay/internal/advertise"
	"github.com/woozymasta/lanplay/internal/models"
)

// Content IDs reported by relays for the lobby application itself.
const (
	UnknownContentID = "ffffffffffffffff"
	LobbyContentID   = "0100B04011742000"
)

// NormalizeContentID maps the all-bits-set sentinel onto the lobby title ID.
// Any other value, including the empty string, is returned unchanged.
func NormalizeContentID(id string) string {
	if id == UnknownContentID {
		return LobbyContentID
	}

	return id
}

// Player is a room member.
type Player struct {
	Name string `json:"name"`
}

// Room is an active session on a relay, enriched with catalog data.
type Room struct {
	Game          *Game    `json:"game,omitempty"`
	ContentID     string   `json:"content_id"`
	Host          Player   `json:"host"`
	HostNickname  string   `json:"host_nickname"`
	AdvertiseData string   `json:"advertise_data"`
	Players       []Player `json:"players"`
	MaxPlayers    int      `json:"max_players"`
	PlayerCount   int      `json:"player_count"`
}

// NewRoom normalizes the content ID, decodes the host nickname with enc
// and attaches the first matching catalog game, if any.
func NewRoom(raw models.RawRoom, catalog *Catalog, enc advertise.Encoding) (Room, error) {
	room := Room{
		ContentID:     NormalizeContentID(raw.ContentID),
		Host:          Player{Name: raw.HostPlayerName},
		AdvertiseData: raw.AdvertiseData,
		MaxPlayers:    raw.NodeCountMax,
		PlayerCount:   raw.NodeCount,
	}

	nickname, err := advertise.DecodeName(raw.AdvertiseData, enc)
	if err != nil {
		return Room{}, fmt.Errorf("room of %q: %w", raw.HostPlayerName, err)
	}
	room.HostNickname = nickname

	if len(raw.Nodes) > 0 {
		room.Players = make([]Player, 0, len(raw.Nodes))
		for _, node := range raw.Nodes {
			room.Players = append(room.Players, Player{Name: node.PlayerName})
		}
	}

	game, _, err := catalog.Lookup(room.ContentID)
	if err != nil {
		return Room{}, fmt.Errorf("room of %q: %w", raw.HostPlayerName, err)
	}
	room.Game = game

	return room, nil
}

// Full reports whether no player slot is left.
func (r Room) Full() bool {
	return r.MaxPlayers > 0 && r.PlayerCount >= r.MaxPlayers
}

// Key is a stable fingerprint of the room identity.
func (r Room) Key() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(r.ContentID)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(r.Host.Name)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(r.AdvertiseData)

	return d.Sum64()
}

func (r Room) clone() Room {
	r.Players = slices.Clone(r.Players)
	if r.Game != nil {
		game := *r.Game
		r.Game = &game
	}

	return r
}

// BuildRooms converts the relay room list, failing as a whole on the first bad room.
func BuildRooms(raws []models.RawRoom, catalog *Catalog, enc advertise.Encoding) ([]Room, error) {
	rooms := make([]Room, 0, len(raws))
	for _, raw := range raws {
		room, err := NewRoom(raw, catalog, enc)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}
