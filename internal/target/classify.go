package target

import (
	"net/netip"
	"strings"

	"github.com/arnvid/scanmap/internal/errors"
	"github.com/arnvid/scanmap/internal/tld"
)

// Kind is the syntactic form of a single address token.
type Kind int

const (
	KindIPv4Literal Kind = iota
	KindIPv6Literal
	KindIPv4Subnet
	KindIPv6Subnet
	KindIPv4Range
	KindIPv6Range
	KindDomain
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindIPv4Literal:
		return "ipv4"
	case KindIPv6Literal:
		return "ipv6"
	case KindIPv4Subnet:
		return "ipv4-subnet"
	case KindIPv6Subnet:
		return "ipv6-subnet"
	case KindIPv4Range:
		return "ipv4-range"
	case KindIPv6Range:
		return "ipv6-range"
	case KindDomain:
		return "domain"
	}
	return "unknown"
}

// Classify decides the syntactic kind of one address token. Literal and
// subnet forms are tested first, then range forms (split once on the first
// '-'), and finally the token's last dot-segment is checked against the TLD
// registry. A token matching none of those forms is a fatal classification
// error.
func Classify(token string) (Kind, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.ErrInvalidTarget(token)
	}

	if strings.Contains(token, "/") {
		prefix, err := netip.ParsePrefix(token)
		if err != nil {
			return 0, errors.ErrInvalidTarget(token)
		}
		if prefix.Addr().Is4() {
			return KindIPv4Subnet, nil
		}
		return KindIPv6Subnet, nil
	}

	if addr, err := netip.ParseAddr(token); err == nil {
		if addr.Is4() {
			return KindIPv4Literal, nil
		}
		return KindIPv6Literal, nil
	}

	if strings.Contains(token, "-") {
		if kind, ok := classifyRange(token); ok {
			return kind, nil
		}
		// A '-' token whose halves are not addresses may still be a
		// hyphenated domain name; fall through to the TLD check.
	}

	segments := strings.Split(token, ".")
	if tld.Valid(segments[len(segments)-1]) {
		return KindDomain, nil
	}

	return 0, errors.ErrInvalidTarget(token)
}

// classifyRange splits a token once on the first '-' and reports whether
// both halves parse as addresses of the same family.
func classifyRange(token string) (Kind, bool) {
	left, right, _ := strings.Cut(token, "-")
	start, err := netip.ParseAddr(strings.TrimSpace(left))
	if err != nil {
		return 0, false
	}
	end, err := netip.ParseAddr(strings.TrimSpace(right))
	if err != nil {
		return 0, false
	}
	if start.Is4() && end.Is4() {
		return KindIPv4Range, true
	}
	if !start.Is4() && !end.Is4() {
		return KindIPv6Range, true
	}
	return 0, false
}
