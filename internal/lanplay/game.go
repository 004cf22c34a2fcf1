package lanplay

import (
	"regexp"

	"github.com/woozymasta/lanplay/internal/models"
)

var (
	nameRe = regexp.MustCompile(`<a href="/Title/\w+">(.+?)</a>`)
	iconRe = regexp.MustCompile(`url\s*\(\s*(?:'([^']*)'|"([^"]*)"|([^'")]*?))\s*\)`)
)

// Game describes a Nintendo title from the catalog.
type Game struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	IconURL      string  `json:"icon_url"`
	ReleaseDate  string  `json:"release_date"`
	Publisher    string  `json:"publisher"`
	Size         string  `json:"size"`
	BaseName     string  `json:"base_name,omitempty"`
	Status       string  `json:"status,omitempty"`
	RegularPrice string  `json:"regular_price,omitempty"`
	SalePrice    string  `json:"sale_price,omitempty"`
	Playtime     int     `json:"playtime"`
	UserRating   float64 `json:"user_rating"`
}

// NewGame extracts the display name from the entry's anchor markup and the
// icon URL from its CSS url(...) fragment.
func NewGame(entry models.CatalogEntry) (Game, error) {
	name := nameRe.FindStringSubmatch(entry.Name)
	if name == nil {
		return Game{}, &CatalogEntryError{ID: entry.ID, Field: "name", Value: entry.Name}
	}

	icon := iconRe.FindStringSubmatch(entry.Icon)
	if icon == nil {
		return Game{}, &CatalogEntryError{ID: entry.ID, Field: "icon", Value: entry.Icon}
	}
	iconURL := icon[1] + icon[2] + icon[3]

	return Game{
		ID:           entry.ID,
		Name:         name[1],
		IconURL:      iconURL,
		ReleaseDate:  entry.ReleaseDate,
		Publisher:    entry.Publisher,
		Size:         entry.Size,
		Playtime:     int(entry.Playtime),
		UserRating:   float64(entry.UserRating),
		BaseName:     entry.BaseName,
		Status:       entry.Status,
		RegularPrice: entry.RegularPrice,
		SalePrice:    entry.SalePrice,
	}, nil
}
