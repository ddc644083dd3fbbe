package feed

import (
	"bufio"
	"net/netip"
	"strings"
)

// ParsePrefix interprets one feed line as a CIDR network prefix. Leading and
// trailing whitespace is trimmed first. The boolean is false for blank lines
// and for lines that are not valid CIDR notation; the feeds routinely carry
// trailing blanks and the occasional garbage line, so rejects are not errors.
// Address bits beyond the prefix length pass through unmasked, which keeps
// Prefix.String() a byte-exact round-trip of the source line.
func ParsePrefix(line string) (netip.Prefix, bool) {
	token := strings.TrimSpace(line)
	if token == "" {
		return netip.Prefix{}, false
	}
	prefix, err := netip.ParsePrefix(token)
	if err != nil {
		return netip.Prefix{}, false
	}
	return prefix, true
}

// ParseList extracts every parseable prefix from a newline-delimited feed
// body, preserving line order.
func ParseList(body string) []netip.Prefix {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 1024), 1024*1024)

	var prefixes []netip.Prefix
	for scanner.Scan() {
		if prefix, ok := ParsePrefix(scanner.Text()); ok {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}
