// Package report turns raw engine result records into deterministic,
// sorted, human-readable scan reports. Aggregation is a pure transform:
// record content, never arrival order, decides the output.
package report

import (
	"net/netip"
	"time"
)

// PortState is the probe outcome for a single port.
type PortState string

const (
	StateOpen       PortState = "open"
	StateClosed     PortState = "closed"
	StateFiltered   PortState = "filtered"
	StateUnfiltered PortState = "unfiltered"
)

// Record is one outcome unit returned by the scanning engine. It is a
// sealed variant: ping status, port status, or an OS guess list.
type Record interface {
	// RecordAddr is the probed address, the primary sort key.
	RecordAddr() netip.Addr

	sealed()
}

// PingRecord is a host discovery outcome.
type PingRecord struct {
	Addr    netip.Addr
	Up      bool
	Elapsed time.Duration
}

// RecordAddr implements Record.
func (r PingRecord) RecordAddr() netip.Addr { return r.Addr }

func (PingRecord) sealed() {}

// PortRecord is a port scan outcome for one address and port.
type PortRecord struct {
	Addr     netip.Addr
	Port     uint16
	Protocol string
	State    PortState
	Elapsed  time.Duration
}

// RecordAddr implements Record.
func (r PortRecord) RecordAddr() netip.Addr { return r.Addr }

func (PortRecord) sealed() {}

// OSGuess is one candidate operating system for a host.
type OSGuess struct {
	Name     string
	CPE      string
	Accuracy int
}

// OSRecord is an OS detection outcome carrying the top-K candidates.
type OSRecord struct {
	Addr    netip.Addr
	Guesses []OSGuess
	Elapsed time.Duration
}

// RecordAddr implements Record.
func (r OSRecord) RecordAddr() netip.Addr { return r.Addr }

func (OSRecord) sealed() {}
