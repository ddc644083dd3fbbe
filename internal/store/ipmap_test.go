package store

import (
	"net/netip"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"geowall/internal/domain"
)

func mustPrefix(t *testing.T, s string) netip.Prefix {
	t.Helper()
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		t.Fatalf("bad test prefix %q: %v", s, err)
	}
	return prefix
}

func testlandDirectory(t *testing.T) *domain.Directory {
	t.Helper()
	directory := domain.NewDirectory()
	directory.Add(&domain.CountryEntry{
		Code: "xx",
		Name: "Testland",
		IPv4: []netip.Prefix{mustPrefix(t, "10.0.0.0/8"), mustPrefix(t, "192.168.1.0/24")},
		IPv6: []netip.Prefix{mustPrefix(t, "2001:db8::/32")},
	})
	return directory
}

func TestWriteIPMapContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xx_ip_map.json")
	if err := WriteIPMap(testlandDirectory(t), path); err != nil {
		t.Fatalf("WriteIPMap returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	want := `{
  "xx": {
    "ipv4": [
      "10.0.0.0/8",
      "192.168.1.0/24"
    ],
    "ipv6": [
      "2001:db8::/32"
    ]
  }
}
`
	if string(data) != want {
		t.Fatalf("ip map content = %q, want %q", data, want)
	}
}

func TestWriteIPMapEmptyFamiliesAreArrays(t *testing.T) {
	directory := domain.NewDirectory()
	directory.Add(&domain.CountryEntry{Code: "yy", Name: "Emptyland"})

	path := filepath.Join(t.TempDir(), "yy_ip_map.json")
	if err := WriteIPMap(directory, path); err != nil {
		t.Fatalf("WriteIPMap returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	want := `{
  "yy": {
    "ipv4": [],
    "ipv6": []
  }
}
`
	if string(data) != want {
		t.Fatalf("ip map content = %q, want %q", data, want)
	}
}

func TestWriteIPMapIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	directory := testlandDirectory(t)
	if err := WriteIPMap(directory, first); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteIPMap(directory, second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two writes of the same directory produced different bytes")
	}
}

func TestWriteIPMapLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteIPMap(testlandDirectory(t), filepath.Join(dir, "out.json")); err != nil {
		t.Fatalf("WriteIPMap returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected files after write: %v", names)
	}
}

func TestWriteIPMapBadDestination(t *testing.T) {
	err := WriteIPMap(testlandDirectory(t), filepath.Join(t.TempDir(), "missing", "out.json"))
	if err == nil {
		t.Fatal("WriteIPMap succeeded with a missing destination directory")
	}
}
