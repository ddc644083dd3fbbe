// Package groups holds the closed set of country groups the resolver can
// batch-process. The tables are pure data: ordered (code, name) pairs keyed
// by group name, with lowercase two-letter codes matching the feed URLs.
package groups

import (
	"fmt"
	"sort"

	"geowall/internal/domain"
)

var tables = map[string][]domain.Country{
	"brics": {
		{Code: "br", Name: "Brazil"},
		{Code: "ru", Name: "Russia"},
		{Code: "in", Name: "India"},
		{Code: "cn", Name: "China"},
		{Code: "za", Name: "South Africa"},
	},
	"eu": {
		{Code: "at", Name: "Austria"},
		{Code: "be", Name: "Belgium"},
		{Code: "bg", Name: "Bulgaria"},
		{Code: "hr", Name: "Croatia"},
		{Code: "cy", Name: "Cyprus"},
		{Code: "cz", Name: "Czechia"},
		{Code: "dk", Name: "Denmark"},
		{Code: "ee", Name: "Estonia"},
		{Code: "fi", Name: "Finland"},
		{Code: "fr", Name: "France"},
		{Code: "de", Name: "Germany"},
		{Code: "gr", Name: "Greece"},
		{Code: "hu", Name: "Hungary"},
		{Code: "ie", Name: "Ireland"},
		{Code: "it", Name: "Italy"},
		{Code: "lv", Name: "Latvia"},
		{Code: "lt", Name: "Lithuania"},
		{Code: "lu", Name: "Luxembourg"},
		{Code: "mt", Name: "Malta"},
		{Code: "nl", Name: "Netherlands"},
		{Code: "pl", Name: "Poland"},
		{Code: "pt", Name: "Portugal"},
		{Code: "ro", Name: "Romania"},
		{Code: "sk", Name: "Slovakia"},
		{Code: "si", Name: "Slovenia"},
		{Code: "es", Name: "Spain"},
		{Code: "se", Name: "Sweden"},
	},
	"nato": {
		{Code: "al", Name: "Albania"},
		{Code: "be", Name: "Belgium"},
		{Code: "bg", Name: "Bulgaria"},
		{Code: "ca", Name: "Canada"},
		{Code: "hr", Name: "Croatia"},
		{Code: "cz", Name: "Czechia"},
		{Code: "dk", Name: "Denmark"},
		{Code: "ee", Name: "Estonia"},
		{Code: "fi", Name: "Finland"},
		{Code: "fr", Name: "France"},
		{Code: "de", Name: "Germany"},
		{Code: "gr", Name: "Greece"},
		{Code: "hu", Name: "Hungary"},
		{Code: "is", Name: "Iceland"},
		{Code: "it", Name: "Italy"},
		{Code: "lv", Name: "Latvia"},
		{Code: "lt", Name: "Lithuania"},
		{Code: "lu", Name: "Luxembourg"},
		{Code: "me", Name: "Montenegro"},
		{Code: "nl", Name: "Netherlands"},
		{Code: "mk", Name: "North Macedonia"},
		{Code: "no", Name: "Norway"},
		{Code: "pl", Name: "Poland"},
		{Code: "pt", Name: "Portugal"},
		{Code: "ro", Name: "Romania"},
		{Code: "sk", Name: "Slovakia"},
		{Code: "si", Name: "Slovenia"},
		{Code: "es", Name: "Spain"},
		{Code: "se", Name: "Sweden"},
		{Code: "tr", Name: "Turkey"},
		{Code: "gb", Name: "United Kingdom"},
		{Code: "us", Name: "United States"},
	},
	"asean": {
		{Code: "bn", Name: "Brunei"},
		{Code: "kh", Name: "Cambodia"},
		{Code: "id", Name: "Indonesia"},
		{Code: "la", Name: "Laos"},
		{Code: "my", Name: "Malaysia"},
		{Code: "mm", Name: "Myanmar"},
		{Code: "ph", Name: "Philippines"},
		{Code: "sg", Name: "Singapore"},
		{Code: "th", Name: "Thailand"},
		{Code: "vn", Name: "Vietnam"},
	},
	"five_eyes": {
		{Code: "au", Name: "Australia"},
		{Code: "ca", Name: "Canada"},
		{Code: "nz", Name: "New Zealand"},
		{Code: "gb", Name: "United Kingdom"},
		{Code: "us", Name: "United States"},
	},
}

// Lookup returns the member list of a group in declaration order. The slice
// is a copy; callers may not mutate the tables.
func Lookup(name string) ([]domain.Country, error) {
	members, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown country group %q (available: %v)", name, Names())
	}
	out := make([]domain.Country, len(members))
	copy(out, members)
	return out, nil
}

// Names lists the known group names, sorted for stable help output.
func Names() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
