// Package geolite cross-checks resolved prefixes against a local
// GeoLite2-Country database. The check is advisory: feeds occasionally lag
// behind reassignments, so disagreements are logged, never fatal.
package geolite

import (
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"

	"geowall/internal/domain"
)

// countryLookup is the slice of geoip2.Reader the checker needs; tests
// substitute a fake.
type countryLookup interface {
	Country(ip net.IP) (*geoip2.Country, error)
}

type Checker struct {
	db     countryLookup
	closer interface{ Close() error }
	sample int
}

// OpenIfPresent opens the database at path, or returns (nil, nil) when no
// database is installed there. A nil *Checker skips all checks.
func OpenIfPresent(path string, sample int) (*Checker, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geolite database %s: %w", path, err)
	}
	return &Checker{db: reader, closer: reader, sample: sample}, nil
}

func (c *Checker) Close() {
	if c == nil || c.closer == nil {
		return
	}
	if err := c.closer.Close(); err != nil {
		log.Warn("Failed to close geolite database", "error", err)
	}
}

// VerifyDirectory samples prefixes from every country entry and warns when
// the database attributes a sampled network to a different country. Returns
// the number of prefixes checked and the number of disagreements.
func (c *Checker) VerifyDirectory(directory *domain.Directory) (checked, mismatched int) {
	if c == nil || directory == nil {
		return 0, 0
	}

	for _, code := range directory.Codes() {
		entry := directory.Get(code)
		prefixes := append(samplePrefixes(entry.IPv4, c.sample), samplePrefixes(entry.IPv6, c.sample)...)
		for _, prefix := range prefixes {
			iso, err := c.lookupISO(prefix.Addr())
			if err != nil || iso == "" {
				continue
			}
			checked++
			if !strings.EqualFold(iso, entry.Code) {
				mismatched++
				log.Warn("GeoLite disagrees with feed",
					"prefix", prefix.String(),
					"feed_country", strings.ToUpper(entry.Code),
					"geolite_country", iso,
				)
			}
		}
	}
	return checked, mismatched
}

func (c *Checker) lookupISO(addr netip.Addr) (string, error) {
	record, err := c.db.Country(net.IP(addr.AsSlice()))
	if err != nil {
		return "", err
	}
	return record.Country.IsoCode, nil
}

// samplePrefixes picks up to limit prefixes spread evenly across the list.
func samplePrefixes(prefixes []netip.Prefix, limit int) []netip.Prefix {
	if limit <= 0 || len(prefixes) == 0 {
		return nil
	}
	if len(prefixes) <= limit {
		out := make([]netip.Prefix, len(prefixes))
		copy(out, prefixes)
		return out
	}

	step := len(prefixes) / limit
	out := make([]netip.Prefix, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, prefixes[i*step])
	}
	return out
}
