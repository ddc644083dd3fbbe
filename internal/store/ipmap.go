// Package store persists the resolved per-country prefix directory as a JSON
// map. The file is observational output; nothing in the pipeline reads it
// back.
package store

import (
	"encoding/json"
	"fmt"

	"geowall/internal/domain"
	"geowall/internal/support"
)

type countryNets struct {
	IPv4 []string `json:"ipv4"`
	IPv6 []string `json:"ipv6"`
}

// WriteIPMap serializes the directory to path as an object keyed by country
// code, each value holding the canonical CIDR strings per address family in
// feed order. Output is byte-identical for identical input: keys marshal in
// sorted order and the write goes through a temp-file rename.
func WriteIPMap(directory *domain.Directory, path string) error {
	ipMap := make(map[string]countryNets, directory.Len())
	for _, code := range directory.Codes() {
		entry := directory.Get(code)
		nets := countryNets{
			IPv4: make([]string, 0, len(entry.IPv4)),
			IPv6: make([]string, 0, len(entry.IPv6)),
		}
		for _, prefix := range entry.IPv4 {
			nets.IPv4 = append(nets.IPv4, prefix.String())
		}
		for _, prefix := range entry.IPv6 {
			nets.IPv6 = append(nets.IPv6, prefix.String())
		}
		ipMap[code] = nets
	}

	data, err := json.MarshalIndent(ipMap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ip map: %w", err)
	}
	data = append(data, '\n')

	if err := support.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("write ip map %s: %w", path, err)
	}
	return nil
}
