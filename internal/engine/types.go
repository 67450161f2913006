package engine

import (
	"time"

	"github.com/arnvid/scanmap/internal/errors"
)

// DiscoveryMethod selects the probe nmap uses for host discovery.
type DiscoveryMethod string

const (
	DiscoverICMPEcho      DiscoveryMethod = "icmp"
	DiscoverICMPTimestamp DiscoveryMethod = "icmp-timestamp"
	DiscoverICMPNetmask   DiscoveryMethod = "icmp-netmask"
	DiscoverTCPSYN        DiscoveryMethod = "tcp-syn"
	DiscoverTCPACK        DiscoveryMethod = "tcp-ack"
	DiscoverUDP           DiscoveryMethod = "udp"
	DiscoverARP           DiscoveryMethod = "arp"
)

// ScanMethod selects the port scan technique.
type ScanMethod string

const (
	ScanConnect ScanMethod = "connect"
	ScanSYN     ScanMethod = "syn"
	ScanFIN     ScanMethod = "fin"
	ScanNull    ScanMethod = "null"
	ScanXmas    ScanMethod = "xmas"
	ScanACK     ScanMethod = "ack"
	ScanWindow  ScanMethod = "window"
	ScanMaimon  ScanMethod = "maimon"
	ScanUDP     ScanMethod = "udp"
	ScanIdle    ScanMethod = "idle"
)

// Timing maps onto nmap's timing templates.
type Timing string

const (
	TimingAggressive Timing = "aggressive"
	TimingNormal     Timing = "normal"
	TimingPolite     Timing = "polite"
)

// Options configures a probe run. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	// Timeout bounds the whole nmap invocation. Zero means no deadline.
	Timeout time.Duration

	// Timing selects the nmap timing template.
	Timing Timing

	// Retries is handed to nmap as --max-retries.
	Retries int

	// Parallelism is the minimum number of parallel probes. Zero lets
	// nmap decide.
	Parallelism int

	// IdleZombie is the zombie host for idle scans, host[:port].
	// Required when the scan method is ScanIdle.
	IdleZombie string

	// IdleProbePort is the zombie's probe port for idle scans.
	IdleProbePort int

	// OSGuessLimit caps the candidate list per host in OS detection.
	OSGuessLimit int
}

// DefaultOptions returns the options used when the caller does not
// override anything.
func DefaultOptions() Options {
	return Options{
		Timeout:      5 * time.Minute,
		Timing:       TimingNormal,
		Retries:      2,
		OSGuessLimit: 3,
	}
}

// Validate checks option combinations that nmap would otherwise reject
// at runtime.
func (o Options) Validate(method ScanMethod) error {
	if method == ScanIdle && o.IdleZombie == "" {
		return errors.NewScanError(errors.CodeValidation,
			"idle scan requires a zombie host")
	}
	switch o.Timing {
	case "", TimingAggressive, TimingNormal, TimingPolite:
	default:
		return errors.NewScanError(errors.CodeValidation,
			"unknown timing template: "+string(o.Timing))
	}
	return nil
}
