package geolite

import (
	"net"
	"net/netip"
	"testing"

	"github.com/oschwald/geoip2-golang"

	"geowall/internal/domain"
)

type fakeLookup struct {
	countries map[string]string // ip string -> ISO code
}

func (f *fakeLookup) Country(ip net.IP) (*geoip2.Country, error) {
	var record geoip2.Country
	record.Country.IsoCode = f.countries[ip.String()]
	return &record, nil
}

func mustPrefix(t *testing.T, s string) netip.Prefix {
	t.Helper()
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		t.Fatalf("bad test prefix %q: %v", s, err)
	}
	return prefix
}

func TestVerifyDirectoryCountsMismatches(t *testing.T) {
	directory := domain.NewDirectory()
	directory.Add(&domain.CountryEntry{
		Code: "br",
		Name: "Brazil",
		IPv4: []netip.Prefix{mustPrefix(t, "192.0.2.0/24"), mustPrefix(t, "198.51.100.0/24")},
	})

	checker := &Checker{
		db: &fakeLookup{countries: map[string]string{
			"192.0.2.0":    "BR",
			"198.51.100.0": "US",
		}},
		sample: 8,
	}

	checked, mismatched := checker.VerifyDirectory(directory)
	if checked != 2 {
		t.Fatalf("checked = %d, want 2", checked)
	}
	if mismatched != 1 {
		t.Fatalf("mismatched = %d, want 1", mismatched)
	}
}

func TestVerifyDirectorySkipsUnknownNetworks(t *testing.T) {
	directory := domain.NewDirectory()
	directory.Add(&domain.CountryEntry{
		Code: "br",
		Name: "Brazil",
		IPv4: []netip.Prefix{mustPrefix(t, "203.0.113.0/24")},
	})

	// Empty ISO code means the database has no record for the network.
	checker := &Checker{db: &fakeLookup{countries: map[string]string{}}, sample: 8}

	checked, mismatched := checker.VerifyDirectory(directory)
	if checked != 0 || mismatched != 0 {
		t.Fatalf("checked=%d mismatched=%d, want 0/0", checked, mismatched)
	}
}

func TestNilCheckerIsNoop(t *testing.T) {
	var checker *Checker
	checked, mismatched := checker.VerifyDirectory(domain.NewDirectory())
	if checked != 0 || mismatched != 0 {
		t.Fatal("nil checker performed checks")
	}
	checker.Close()
}

func TestSamplePrefixesBounds(t *testing.T) {
	var prefixes []netip.Prefix
	for _, s := range []string{"10.0.0.0/8", "10.1.0.0/16", "10.2.0.0/16", "10.3.0.0/16"} {
		prefixes = append(prefixes, mustPrefix(t, s))
	}

	if got := samplePrefixes(prefixes, 0); got != nil {
		t.Fatalf("sample of 0 returned %v", got)
	}
	if got := samplePrefixes(prefixes, 10); len(got) != len(prefixes) {
		t.Fatalf("sample larger than input returned %d prefixes", len(got))
	}
	if got := samplePrefixes(prefixes, 2); len(got) != 2 {
		t.Fatalf("sample of 2 returned %d prefixes", len(got))
	}
	if got := samplePrefixes(nil, 2); got != nil {
		t.Fatalf("sample of nil returned %v", got)
	}
}

func TestOpenIfPresentMissingFile(t *testing.T) {
	checker, err := OpenIfPresent(t.TempDir()+"/GeoLite2-Country.mmdb", 8)
	if err != nil {
		t.Fatalf("OpenIfPresent returned error for a missing file: %v", err)
	}
	if checker != nil {
		t.Fatal("OpenIfPresent returned a checker for a missing file")
	}

	if checker, err := OpenIfPresent("", 8); err != nil || checker != nil {
		t.Fatal("OpenIfPresent with empty path should be a silent skip")
	}
}
