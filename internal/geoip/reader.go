package geoip

import (
	"context"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Provider wraps the GeoIP2 database reader.
type Provider struct {
	db       *geoip2.Reader
	resolver *net.Resolver
}

// Open loads the database at path.
func Open(path string) (*Provider, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Provider{db: db, resolver: net.DefaultResolver}, nil
}

// Close closes the underlying GeoIP database reader.
func (p *Provider) Close() error {
	return p.db.Close()
}

// CountryCode returns the ISO code for ip, empty when unknown.
func (p *Provider) CountryCode(ip net.IP) string {
	if ip == nil {
		return ""
	}

	record, err := p.db.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}

// HostCountry resolves host (a name or literal address) and returns the
// country of its first address with a known location.
func (p *Provider) HostCountry(ctx context.Context, host string) string {
	if ip := net.ParseIP(host); ip != nil {
		return p.CountryCode(ip)
	}

	addrs, err := p.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return ""
	}

	for _, addr := range addrs {
		if code := p.CountryCode(addr.IP); code != "" {
			return code
		}
	}

	return ""
}
