// Package resolve drives the feed fetcher and parser across a country group
// and assembles the per-country prefix directory.
package resolve

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"geowall/internal/domain"
	"geowall/internal/feed"
)

// Options configures one resolution run.
type Options struct {
	Client   *feed.Client
	IPv4Base string
	IPv6Base string

	// Concurrency bounds the number of countries resolved in parallel.
	// Values below 2 resolve strictly sequentially.
	Concurrency int
}

// Run resolves every country of the group, in declaration order, into a
// directory of per-country prefix entries. Any fetch failure aborts the whole
// run; no partial directory is returned. Progress is logged per country in
// input order regardless of fetch-completion order.
func Run(ctx context.Context, countries []domain.Country, opts Options) (*domain.Directory, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("resolve: feed client is required")
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	// Entries land in a per-index slice so the directory below is assembled
	// by a single writer in input order, whatever order the fetches finish.
	entries := make([]*domain.CountryEntry, len(countries))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for i, country := range countries {
		i, country := i, country
		group.Go(func() error {
			entry, err := resolveCountry(ctx, country, opts)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	directory := domain.NewDirectory()
	for _, entry := range entries {
		directory.Add(entry)
		log.Info("Resolved country",
			"country", entry.Name,
			"code", strings.ToUpper(entry.Code),
			"ipv4_blocks", len(entry.IPv4),
			"ipv6_blocks", len(entry.IPv6),
		)
	}
	return directory, nil
}

func resolveCountry(ctx context.Context, country domain.Country, opts Options) (*domain.CountryEntry, error) {
	ipv4, err := fetchFamily(ctx, opts.Client, ZoneURL(opts.IPv4Base, country.Code), keepIPv4)
	if err != nil {
		return nil, err
	}
	ipv6, err := fetchFamily(ctx, opts.Client, ZoneURL(opts.IPv6Base, country.Code), keepIPv6)
	if err != nil {
		return nil, err
	}
	return &domain.CountryEntry{
		Code: country.Code,
		Name: country.Name,
		IPv4: ipv4,
		IPv6: ipv6,
	}, nil
}

func fetchFamily(ctx context.Context, client *feed.Client, url string, keep func(netip.Prefix) bool) ([]netip.Prefix, error) {
	body, err := client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	parsed := feed.ParseList(body)
	prefixes := make([]netip.Prefix, 0, len(parsed))
	for _, prefix := range parsed {
		// A prefix of the wrong family inside a zone feed is treated like any
		// other noise line. Letting it through would put, say, an IPv6 block
		// into an ipv4_addr set and break the rendered rule-set.
		if keep(prefix) {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes, nil
}

func keepIPv4(p netip.Prefix) bool { return p.Addr().Is4() }

func keepIPv6(p netip.Prefix) bool { return !p.Addr().Is4() }

// ZoneURL builds the aggregated zone feed URL for one country code.
func ZoneURL(base, code string) string {
	return fmt.Sprintf("%s/%s-aggregated.zone", strings.TrimRight(base, "/"), code)
}
