package lanplay

import (
	"errors"
	"fmt"

	"github.com/woozymasta/lanplay/internal/advertise"
	"github.com/woozymasta/lanplay/internal/httpclient"
)

var (
	// ErrTransport wraps every failed call to the catalog, monitoring or relay services.
	ErrTransport = httpclient.ErrTransport

	// ErrDecode is returned when a room's advertise data cannot be decoded.
	ErrDecode = advertise.ErrDecode

	// ErrMalformedCatalogEntry is returned when a catalog entry's markup does not
	// match the expected name or icon pattern.
	ErrMalformedCatalogEntry = errors.New("malformed catalog entry")

	// ErrNotConfigured is returned by RefreshServer before any server was selected.
	ErrNotConfigured = errors.New("no relay server selected")
)

// CatalogEntryError identifies the catalog entry and field that failed to parse.
type CatalogEntryError struct {
	ID    string
	Field string
	Value string
}

func (e *CatalogEntryError) Error() string {
	return fmt.Sprintf("%s: entry %q: field %s does not match %q", ErrMalformedCatalogEntry, e.ID, e.Field, e.Value)
}

// Is reports CatalogEntryError as ErrMalformedCatalogEntry.
func (e *CatalogEntryError) Is(target error) bool {
	return target == ErrMalformedCatalogEntry
}
