// Package target turns loosely-formatted user input (literals, CIDR subnets,
// address ranges, comma lists, batch files, and domain names) into a
// concrete, validated list of scan targets.
package target

import (
	"net/netip"

	"github.com/arnvid/scanmap/internal/portspec"
)

// Target represents one concrete scan endpoint. Addr is always a single
// validated address; expansion of subnets, ranges, and domains happens
// eagerly, before any Target exists.
type Target struct {
	// Addr is the endpoint address.
	Addr netip.Addr
	// Ports is the set of ports to probe. Empty means no port-specific
	// probing was requested.
	Ports portspec.Set
	// Origin is the original user token (range, subnet, or domain) this
	// target was expanded from. Empty when the token was already a bare
	// literal address.
	Origin string
}

// String renders the target address, annotated with its origin token when
// it was produced by an expansion.
func (t Target) String() string {
	if t.Origin != "" {
		return t.Addr.String() + " (" + t.Origin + ")"
	}
	return t.Addr.String()
}

// Family selects which address family to keep when a domain name resolves
// to both A and AAAA records. It is threaded explicitly through resolution
// instead of living in process-wide state, so there is no ordering hazard
// between configuring it and resolving.
type Family int

const (
	// FamilyIPv4First keeps only IPv4 records for resolved domains. Default.
	FamilyIPv4First Family = iota
	// FamilyIPv6First keeps only IPv6 records for resolved domains.
	FamilyIPv6First
)

// String implements fmt.Stringer.
func (f Family) String() string {
	if f == FamilyIPv6First {
		return "ipv6-first"
	}
	return "ipv4-first"
}
