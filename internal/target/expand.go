package target

import (
	"context"
	"net/netip"
	"strings"

	"github.com/arnvid/scanmap/internal/errors"
	"github.com/arnvid/scanmap/internal/logging"
	"github.com/arnvid/scanmap/internal/portspec"
)

// maxEnumeration caps how many addresses a single subnet or range token may
// expand to. Anything wider than a /16 has to be split by the caller.
const maxEnumeration = 1 << 16

// Resolver is the DNS collaborator consumed during domain expansion. An
// empty result is valid; it means the name has no address records of
// interest.
type Resolver interface {
	Resolve(ctx context.Context, name string) ([]netip.Addr, error)
}

// Expander expands classified address tokens into concrete targets.
type Expander struct {
	// Resolver handles domain name lookups.
	Resolver Resolver
	// Family selects which resolved address family to keep for domains.
	Family Family
}

// Expand turns one address token plus a port set into zero or more targets.
// Subnets enumerate the full declared block, network and broadcast
// addresses included. Ranges enumerate start through end inclusive. Domains
// resolve through the DNS collaborator and keep only the preferred family;
// zero kept records is not an error. Every produced target carries its own
// copy of the port set.
func (e *Expander) Expand(ctx context.Context, token string, ports portspec.Set) ([]Target, error) {
	token = strings.TrimSpace(token)

	kind, err := Classify(token)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindIPv4Literal, KindIPv6Literal:
		addr, _ := netip.ParseAddr(token)
		return []Target{{Addr: addr, Ports: ports.Clone()}}, nil

	case KindIPv4Subnet, KindIPv6Subnet:
		return expandSubnet(token, ports)

	case KindIPv4Range, KindIPv6Range:
		return expandRange(token, ports)

	case KindDomain:
		return e.expandDomain(ctx, token, ports)
	}

	return nil, errors.ErrInvalidTarget(token)
}

// expandSubnet enumerates every address the CIDR block declares. The full
// block is used rather than hosts-only: a /30 yields 4 targets.
func expandSubnet(token string, ports portspec.Set) ([]Target, error) {
	prefix, err := netip.ParsePrefix(token)
	if err != nil {
		return nil, errors.WrapResolveErrorWithToken(errors.CodeTargetInvalid, "invalid subnet", token, err)
	}
	prefix = prefix.Masked()

	var out []Target
	for addr := prefix.Addr(); prefix.Contains(addr); addr = addr.Next() {
		if len(out) >= maxEnumeration {
			return nil, errors.NewResolveErrorWithToken(errors.CodeValidation,
				"subnet expands to too many addresses", token)
		}
		out = append(out, Target{Addr: addr, Ports: ports.Clone(), Origin: token})
	}

	logging.Debug("expanded subnet", "token", token, "targets", len(out))
	return out, nil
}

// expandRange enumerates start through end inclusive. The start must not
// come after the end; equal endpoints collapse to a single target.
func expandRange(token string, ports portspec.Set) ([]Target, error) {
	left, right, _ := strings.Cut(token, "-")
	start, err := netip.ParseAddr(strings.TrimSpace(left))
	if err != nil {
		return nil, errors.WrapResolveErrorWithToken(errors.CodeTargetInvalid, "invalid range start", token, err)
	}
	end, err := netip.ParseAddr(strings.TrimSpace(right))
	if err != nil {
		return nil, errors.WrapResolveErrorWithToken(errors.CodeTargetInvalid, "invalid range end", token, err)
	}

	if start.Compare(end) > 0 {
		return nil, errors.ErrRangeOrder(token)
	}

	var out []Target
	for addr := start; ; addr = addr.Next() {
		if len(out) >= maxEnumeration {
			return nil, errors.NewResolveErrorWithToken(errors.CodeValidation,
				"range expands to too many addresses", token)
		}
		out = append(out, Target{Addr: addr, Ports: ports.Clone(), Origin: token})
		// Break on the end address itself: Next() past the last address
		// of a family yields the invalid Addr, which Compare sorts
		// before every valid address.
		if addr == end {
			break
		}
	}

	logging.Debug("expanded range", "token", token, "targets", len(out))
	return out, nil
}

// expandDomain resolves the name and keeps only addresses of the preferred
// family. A domain with no address of that family yields zero targets.
func (e *Expander) expandDomain(ctx context.Context, token string, ports portspec.Set) ([]Target, error) {
	addrs, err := e.Resolver.Resolve(ctx, token)
	if err != nil {
		return nil, errors.ErrDNSLookup(token, err)
	}

	var out []Target
	for _, addr := range addrs {
		addr = addr.Unmap()
		keep := addr.Is4() == (e.Family == FamilyIPv4First)
		if !keep {
			continue
		}
		out = append(out, Target{Addr: addr, Ports: ports.Clone(), Origin: token})
	}

	logging.Debug("resolved domain", "token", token,
		"records", len(addrs), "kept", len(out), "family", e.Family.String())
	return out, nil
}
