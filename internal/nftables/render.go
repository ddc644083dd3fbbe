// Package nftables renders the resolved prefix directory into a declarative
// nftables rule-set file. The output must be byte-for-byte reproducible for a
// given directory, group and policy, so generated configs can be diffed and
// audited.
package nftables

import (
	"fmt"
	"net/netip"
	"strings"

	"geowall/internal/domain"
	"geowall/internal/support"
)

const tableName = "geowall"

// Render writes the rule-set file for the given group and policy. The file
// declares one inet table holding an interval set per address family (the
// concatenation of every country's prefixes in directory order, duplicates
// preserved) and one input-hook chain with a fixed rule order: the two
// family-match rules first, then the unconditional default. For a block
// policy matches drop and the default accepts; for an allow policy matches
// accept and the default drops.
func Render(directory *domain.Directory, group string, policy domain.Policy, path string) error {
	verdict, fallback := verdicts(policy)

	setV4 := group + "_v4"
	setV6 := group + "_v6"

	var b strings.Builder
	fmt.Fprintf(&b, "table inet %s {\n", tableName)
	writeSet(&b, setV4, "ipv4_addr", collect(directory, ipv4Of))
	writeSet(&b, setV6, "ipv6_addr", collect(directory, ipv6Of))

	b.WriteString("\tchain input {\n")
	b.WriteString("\t\ttype filter hook input priority 0; policy accept;\n")
	fmt.Fprintf(&b, "\t\tip saddr @%s %s\n", setV4, verdict)
	fmt.Fprintf(&b, "\t\tip6 saddr @%s %s\n", setV6, verdict)
	fmt.Fprintf(&b, "\t\t%s\n", fallback)
	b.WriteString("\t}\n")
	b.WriteString("}\n")

	if err := support.WriteFileAtomic(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write rule-set %s: %w", path, err)
	}
	return nil
}

func verdicts(policy domain.Policy) (match, fallback string) {
	if policy == domain.PolicyAllow {
		return "accept", "drop"
	}
	return "drop", "accept"
}

func writeSet(b *strings.Builder, name, addrType string, elements []string) {
	fmt.Fprintf(b, "\tset %s {\n", name)
	fmt.Fprintf(b, "\t\ttype %s\n", addrType)
	b.WriteString("\t\tflags interval\n")
	// nft rejects an empty elements list, so an empty set is declared bare.
	if len(elements) > 0 {
		b.WriteString("\t\telements = {\n")
		for i, element := range elements {
			sep := ","
			if i == len(elements)-1 {
				sep = ""
			}
			fmt.Fprintf(b, "\t\t\t%s%s\n", element, sep)
		}
		b.WriteString("\t\t}\n")
	}
	b.WriteString("\t}\n")
}

func collect(directory *domain.Directory, family func(*domain.CountryEntry) []netip.Prefix) []string {
	var elements []string
	for _, code := range directory.Codes() {
		for _, prefix := range family(directory.Get(code)) {
			elements = append(elements, prefix.String())
		}
	}
	return elements
}

func ipv4Of(e *domain.CountryEntry) []netip.Prefix { return e.IPv4 }

func ipv6Of(e *domain.CountryEntry) []netip.Prefix { return e.IPv6 }
