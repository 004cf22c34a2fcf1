// Package fake generates synthetic relay directory rows and room records
// for development and tests.
package fake

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/lanplay/internal/advertise"
	"github.com/woozymasta/lanplay/internal/models"
	"github.com/woozymasta/lanplay/internal/storage"
)

// AdvertiseSize is the byte size of generated advertise blobs.
const AdvertiseSize = 384

var (
	nicknames = []string{"Link", "Zelda", "Samus", "Kirby", "Pikachu", "Inkling", "Isabelle", "Marth", "ピカチュウ", "ヨッシー"}
	titles    = []string{"01006A800016E000", "0100000000010000", "0100152000022000", "ffffffffffffffff", "01003BC0000A0000"}
	countries = []string{"US", "DE", "JP", "FR", "GB", "BR", "CN", "KR", "NL", "RU"}
)

// Rooms returns n rooms with valid advertise data. Host nicknames are
// recoverable with advertise.UTF8.
func Rooms(n int) []models.RawRoom {
	rooms := make([]models.RawRoom, 0, n)
	for i := range n {
		host := fmt.Sprintf("player%03d", i)
		slots := 2 + rand.IntN(7)
		count := 1 + rand.IntN(slots)

		data, err := advertise.EncodeName(nicknames[rand.IntN(len(nicknames))], advertise.UTF8, AdvertiseSize)
		if err != nil {
			panic(err)
		}
		// Session bytes outside the nickname window are noise.
		data = scramble(data)

		nodes := []models.RawNode{{PlayerName: host}}
		for j := 1; j < count; j++ {
			nodes = append(nodes, models.RawNode{PlayerName: fmt.Sprintf("%s-guest%d", host, j)})
		}

		rooms = append(rooms, models.RawRoom{
			ContentID:      titles[rand.IntN(len(titles))],
			HostPlayerName: host,
			NodeCountMax:   slots,
			NodeCount:      count,
			AdvertiseData:  data,
			Nodes:          nodes,
		})
	}

	return rooms
}

// QueryResult wraps Rooms(n) with server counters.
func QueryResult(n int) *models.QueryResult {
	rooms := Rooms(n)

	online := 0
	for _, r := range rooms {
		online += r.NodeCount
	}
	idle := rand.IntN(10)

	return &models.QueryResult{
		Room:       rooms,
		ServerInfo: &models.RawServerInfo{Online: online + idle, Idle: idle},
	}
}

// GenerateData writes count random relay rows into store.
func GenerateData(ctx context.Context, store *storage.Repository, count int) {
	for i := range count {
		seen := time.Now().UTC().Add(-time.Duration(rand.IntN(30*24)) * time.Hour)

		server := models.RelayServer{
			URL:           fmt.Sprintf("http://relay%03d.example.net:%d/", i, 11451+rand.IntN(10)),
			Name:          fmt.Sprintf("Fake Relay #%d", i),
			MonitorID:     int64(700000 + i),
			MonitorStatus: []int{2, 2, 2, 8, 9}[rand.IntN(5)],
			UptimeRatio:   50 + rand.Float64()*50,
			CountryCode:   countries[rand.IntN(len(countries))],
			FirstSeen:     seen.Add(-7 * 24 * time.Hour),
			LastSeen:      seen,
		}

		if err := store.UpsertRelayServer(ctx, server); err != nil {
			log.Warn().Err(err).Msg("Failed to generate fake relay")
			continue
		}

		if rand.Float32() < 0.7 {
			idle := rand.IntN(5)
			_ = store.UpdateRelayStatus(ctx, server.URL, rand.IntN(120), idle, true, seen)
		} else {
			_ = store.UpdateRelayStatus(ctx, server.URL, 0, 0, false, seen)
		}
	}

	log.Info().Int("count", count).Msg("Fake relays generated")
}

// scramble fills bytes outside the nickname window with random hex.
func scramble(data string) string {
	const digits = "0123456789abcdef"

	b := []byte(data)
	for i := range b {
		if i >= advertise.NameStart && i < advertise.NameEnd {
			continue
		}
		b[i] = digits[rand.IntN(len(digits))]
	}

	return string(b)
}
