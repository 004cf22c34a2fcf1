package lanplay

import (
	"iter"
	"slices"

	"github.com/woozymasta/lanplay/internal/models"
)

// Catalog is an immutable, ordered snapshot of raw catalog entries.
// Every traversal starts from the first entry, so one Catalog serves any
// number of room lookups.
type Catalog struct {
	entries []models.CatalogEntry
}

// NewCatalog copies entries into a Catalog.
func NewCatalog(entries []models.CatalogEntry) *Catalog {
	return &Catalog{entries: slices.Clone(entries)}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}

	return len(c.entries)
}

// All yields the entries in catalog order. Each call starts a fresh traversal.
func (c *Catalog) All() iter.Seq[models.CatalogEntry] {
	return func(yield func(models.CatalogEntry) bool) {
		if c == nil {
			return
		}
		for _, entry := range c.entries {
			if !yield(entry) {
				return
			}
		}
	}
}

// Lookup builds the Game for the first entry whose ID equals id.
// It reports false when nothing matches; a matched entry with malformed
// markup returns ErrMalformedCatalogEntry.
func (c *Catalog) Lookup(id string) (*Game, bool, error) {
	if id == "" {
		return nil, false, nil
	}

	for entry := range c.All() {
		if entry.ID != id {
			continue
		}

		game, err := NewGame(entry)
		if err != nil {
			return nil, false, err
		}
		return &game, true, nil
	}

	return nil, false, nil
}

// Games parses every entry, stopping at the first malformed one.
func (c *Catalog) Games() ([]Game, error) {
	games := make([]Game, 0, c.Len())
	for entry := range c.All() {
		game, err := NewGame(entry)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	return games, nil
}
