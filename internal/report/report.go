package report

import (
	"fmt"
	"net/netip"
	"sort"
	"strings"
	"time"
)

// Report is the final rendered output: body lines in total address order,
// followed by a single summary tail line. Immutable once produced.
type Report struct {
	Lines   []string
	Tail    string
	HostsUp int
}

// Render joins the report into the text handed to the terminal.
func (r Report) Render() string {
	var b strings.Builder
	for _, line := range r.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(r.Tail)
	b.WriteByte('\n')
	return b.String()
}

// Aggregate builds a report from a complete, static record snapshot.
// targetCount is the number of targets the caller handed to the engine and
// elapsed the wall clock around the whole probe run; both are caller
// measurements, not derived from the records. Shuffling records with
// distinct keys produces an identical report; records sharing a key
// resolve to the last one in arrival order.
func Aggregate(records []Record, targetCount int, elapsed time.Duration) Report {
	// Dispatch once up front: each variant has its own ordering and
	// rendering, applied after the arrival order is discarded.
	var (
		pings []PingRecord
		ports []PortRecord
		oses  []OSRecord
	)
	for _, rec := range records {
		switch r := rec.(type) {
		case PingRecord:
			pings = append(pings, r)
		case PortRecord:
			ports = append(ports, r)
		case OSRecord:
			oses = append(oses, r)
		}
	}

	var lines []string
	up := 0

	if len(pings) > 0 {
		pingLines, hostsUp := renderPings(pings)
		lines = append(lines, pingLines...)
		up += hostsUp
	}
	if len(ports) > 0 {
		portLines, openCount := renderPorts(ports)
		lines = append(lines, portLines...)
		up += openCount
	}
	if len(oses) > 0 {
		osLines, identified := renderOSGuesses(oses)
		lines = append(lines, osLines...)
		up += identified
	}

	return Report{
		Lines:   lines,
		HostsUp: up,
		Tail: fmt.Sprintf("scanmap done: %d ip addresses (%d hosts up) scanned in %.2f seconds",
			targetCount, up, elapsed.Seconds()),
	}
}

// renderPings emits one line per up host in address order and collapses
// every not-up host into a single trailing line. Duplicate addresses keep
// the record that arrived last, matching ordered-map insertion.
func renderPings(records []PingRecord) (lines []string, hostsUp int) {
	byAddr := make(map[netip.Addr]PingRecord, len(records))
	for _, r := range records {
		byAddr[r.Addr] = r
	}

	hostsDown := 0
	for _, addr := range sortedAddrs(byAddr) {
		r := byAddr[addr]
		if !r.Up {
			hostsDown++
			continue
		}
		hostsUp++
		lines = append(lines, fmt.Sprintf("%s -> up (%.2fs)", addr, r.Elapsed.Seconds()))
	}

	if hostsDown > 0 {
		lines = append(lines, fmt.Sprintf("other %d hosts -> down", hostsDown))
	}
	return lines, hostsUp
}

// renderPorts emits one line per address and port, ordered by address then
// port. Every open port counts toward the up tally.
func renderPorts(records []PortRecord) (lines []string, openCount int) {
	type key struct {
		addr netip.Addr
		port uint16
	}
	byKey := make(map[key]PortRecord, len(records))
	for _, r := range records {
		byKey[key{r.Addr, r.Port}] = r
	}

	keys := make([]key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := keys[i].addr.Compare(keys[j].addr); c != 0 {
			return c < 0
		}
		return keys[i].port < keys[j].port
	})

	for _, k := range keys {
		r := byKey[k]
		if r.State == StateOpen {
			openCount++
		}
		lines = append(lines, fmt.Sprintf("%s:%d/%s -> %s (%.2fs)",
			r.Addr, r.Port, r.Protocol, r.State, r.Elapsed.Seconds()))
	}
	return lines, openCount
}

// renderOSGuesses emits one line per address listing the candidate OS
// names with their CPE identifiers. Hosts with at least one guess count as
// identified.
func renderOSGuesses(records []OSRecord) (lines []string, identified int) {
	byAddr := make(map[netip.Addr]OSRecord, len(records))
	for _, r := range records {
		byAddr[r.Addr] = r
	}

	for _, addr := range sortedAddrs(byAddr) {
		r := byAddr[addr]
		if len(r.Guesses) == 0 {
			lines = append(lines, fmt.Sprintf("%s -> unknown (%.2fs)", addr, r.Elapsed.Seconds()))
			continue
		}
		identified++

		parts := make([]string, len(r.Guesses))
		for i, g := range r.Guesses {
			if g.CPE != "" {
				parts[i] = fmt.Sprintf("%s [%s]", g.Name, g.CPE)
			} else {
				parts[i] = g.Name
			}
		}
		lines = append(lines, fmt.Sprintf("%s -> %s (%.2fs)",
			addr, strings.Join(parts, " | "), r.Elapsed.Seconds()))
	}
	return lines, identified
}

// sortedAddrs returns the map keys in total address order: IPv4 sorts
// before IPv6, then numerically within each family.
func sortedAddrs[V any](m map[netip.Addr]V) []netip.Addr {
	addrs := make([]netip.Addr, 0, len(m))
	for addr := range m {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Compare(addrs[j]) < 0
	})
	return addrs
}
