// Package portspec parses textual port expressions into concrete port sets.
// Supported forms: single ports ("22"), comma lists ("22,80,443"),
// inclusive ranges ("8000-8100"), and any mix of those.
package portspec

import (
	"strconv"
	"strings"

	"github.com/arnvid/scanmap/internal/errors"
)

const (
	maxPort         = 65535
	rangePartsCount = 2
)

// Set is an ordered, deduplicated collection of port numbers. An empty Set
// means no port-specific probing was requested.
type Set []uint16

// Parse converts a port expression into a Set. Empty or whitespace-only
// input yields an empty set without error. Malformed tokens and ranges
// whose start does not strictly precede their end are fatal parse errors
// naming the offending segment.
func Parse(spec string) (Set, error) {
	if strings.TrimSpace(spec) == "" {
		return Set{}, nil
	}

	var out Set
	seen := make(map[uint16]struct{})
	add := func(p uint16) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, segment := range strings.Split(spec, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		if strings.Contains(segment, "-") {
			start, end, err := parseRange(segment)
			if err != nil {
				return nil, err
			}
			for p := int(start); p <= int(end); p++ {
				add(uint16(p))
			}
			continue
		}

		p, err := parsePort(segment)
		if err != nil {
			return nil, err
		}
		add(p)
	}

	return out, nil
}

// parseRange parses a "start-end" segment. Both bounds must be valid ports
// and start must be strictly less than end; equal bounds are rejected
// rather than collapsed to a single port.
func parseRange(segment string) (start, end uint16, err error) {
	bounds := strings.SplitN(segment, "-", rangePartsCount)
	if len(bounds) != rangePartsCount {
		return 0, 0, errors.ErrBadPortToken(segment)
	}

	// Report the whole segment on bad bounds so "-80" and "100-" name
	// something recognizable rather than an empty token.
	start, err = parsePort(strings.TrimSpace(bounds[0]))
	if err != nil {
		return 0, 0, errors.ErrBadPortToken(segment)
	}
	end, err = parsePort(strings.TrimSpace(bounds[1]))
	if err != nil {
		return 0, 0, errors.ErrBadPortToken(segment)
	}

	if start >= end {
		return 0, 0, errors.ErrPortRangeOrder(segment)
	}
	return start, end, nil
}

func parsePort(token string) (uint16, error) {
	v, err := strconv.Atoi(token)
	if err != nil || v < 0 || v > maxPort {
		return 0, errors.ErrBadPortToken(token)
	}
	return uint16(v), nil
}

// Clone returns an independent copy of the set so targets produced from one
// expansion never alias each other's port lists.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// String renders the set as a comma-separated list in set order, the form
// the nmap engine accepts.
func (s Set) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}
