package domain

import "net/netip"

// Country identifies one member of a country group by its lowercase
// two-letter code and display name.
type Country struct {
	Code string
	Name string
}

// CountryEntry holds the resolved network prefixes for a single country,
// split by address family and kept in feed order. Entries are assembled once
// per run and never mutated afterwards.
type CountryEntry struct {
	Code string
	Name string
	IPv4 []netip.Prefix
	IPv6 []netip.Prefix
}
