// Package report renders relay servers and rooms as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/woozymasta/lanplay/internal/lanplay"
	"github.com/woozymasta/lanplay/internal/models"
)

// Servers prints the relay directory.
func Servers(w io.Writer, servers []models.RelayServer) error {
	table := tablewriter.NewTable(w)
	table.Header("Name", "URL", "Country", "Uptime", "Online", "Checked")

	for _, s := range servers {
		checked := "never"
		if !s.LastChecked.IsZero() {
			checked = humanize.Time(s.LastChecked)
			if !s.Reachable {
				checked += " (down)"
			}
		}

		if err := table.Append([]string{
			s.Name,
			s.URL,
			dash(s.CountryCode),
			strconv.FormatFloat(s.UptimeRatio, 'f', 2, 64) + "%",
			humanize.Comma(int64(s.Online)),
			checked,
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

// Rooms prints the server counters followed by one row per room.
func Rooms(w io.Writer, url string, info lanplay.ServerInfo, hasInfo bool, rooms []lanplay.Room) error {
	if hasInfo {
		_, _ = fmt.Fprintf(w, "%s: %s online, %s idle, %d rooms\n",
			url, humanize.Comma(int64(info.Online)), humanize.Comma(int64(info.Idle)), len(rooms))
	} else {
		_, _ = fmt.Fprintf(w, "%s: %d rooms\n", url, len(rooms))
	}

	table := tablewriter.NewTable(w)
	table.Header("Host", "Nickname", "Game", "Players", "Members")

	for _, room := range rooms {
		game := room.ContentID
		if room.Game != nil {
			game = room.Game.Name
		}

		names := make([]string, 0, len(room.Players))
		for _, p := range room.Players {
			names = append(names, p.Name)
		}

		if err := table.Append([]string{
			room.Host.Name,
			room.HostNickname,
			dash(game),
			fmt.Sprintf("%d/%d", room.PlayerCount, room.MaxPlayers),
			strings.Join(names, ", "),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
