// Package engine drives the nmap binary through Ullaakut/nmap and turns
// its XML run output into report records. It owns method-to-option
// mapping, timeouts, and run bookkeeping; target selection and report
// rendering live elsewhere.
package engine

import (
	"context"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/Ullaakut/nmap/v3"
	"github.com/google/uuid"

	"github.com/arnvid/scanmap/internal/errors"
	"github.com/arnvid/scanmap/internal/logging"
	"github.com/arnvid/scanmap/internal/portspec"
	"github.com/arnvid/scanmap/internal/report"
	"github.com/arnvid/scanmap/internal/target"
)

// Engine runs discovery, port scan, and OS detection probes.
type Engine struct {
	opts Options
	log  *logging.Logger
}

// New returns an engine with the given options.
func New(opts Options) *Engine {
	return &Engine{
		opts: opts,
		log:  logging.Default().WithComponent("engine"),
	}
}

// Discover runs host discovery against the targets and returns one
// PingRecord per probed address.
func (e *Engine) Discover(ctx context.Context, targets []target.Target, method DiscoveryMethod) ([]report.Record, error) {
	options, err := e.buildDiscoveryOptions(targets, method)
	if err != nil {
		return nil, err
	}

	run, err := e.run(ctx, options, string(method))
	if err != nil {
		return nil, err
	}
	return convertPingRecords(run), nil
}

// PortScan probes the targets' ports and returns one PortRecord per
// address and port.
func (e *Engine) PortScan(ctx context.Context, targets []target.Target, method ScanMethod) ([]report.Record, error) {
	if err := e.opts.Validate(method); err != nil {
		return nil, err
	}
	options, err := e.buildPortScanOptions(targets, method)
	if err != nil {
		return nil, err
	}

	run, err := e.run(ctx, options, string(method))
	if err != nil {
		return nil, err
	}
	return convertPortRecords(run), nil
}

// DetectOS fingerprints the targets' operating systems and returns one
// OSRecord per up host.
func (e *Engine) DetectOS(ctx context.Context, targets []target.Target) ([]report.Record, error) {
	options := []nmap.Option{
		nmap.WithTargets(targetAddrs(targets)...),
		nmap.WithOSDetection(),
		nmap.WithVerbosity(1),
	}
	if ports := unionPorts(targets); len(ports) > 0 {
		options = append(options, nmap.WithPorts(ports.String()))
	}
	options = append(options, e.timingOptions()...)

	run, err := e.run(ctx, options, "os-detection")
	if err != nil {
		return nil, err
	}
	return convertOSRecords(run, e.opts.OSGuessLimit), nil
}

// buildDiscoveryOptions maps a discovery method onto nmap ping-scan
// options.
func (e *Engine) buildDiscoveryOptions(targets []target.Target, method DiscoveryMethod) ([]nmap.Option, error) {
	options := []nmap.Option{
		nmap.WithTargets(targetAddrs(targets)...),
		nmap.WithPingScan(),
	}

	switch method {
	case DiscoverICMPEcho, "":
		options = append(options, nmap.WithICMPEchoDiscovery())
	case DiscoverICMPTimestamp:
		options = append(options, nmap.WithICMPTimestampDiscovery())
	case DiscoverICMPNetmask:
		options = append(options, nmap.WithICMPNetMaskDiscovery())
	case DiscoverTCPSYN:
		options = append(options, nmap.WithSYNDiscovery(portStrings(targets)...))
	case DiscoverTCPACK:
		options = append(options, nmap.WithACKDiscovery(portStrings(targets)...))
	case DiscoverUDP:
		options = append(options, nmap.WithUDPDiscovery(portStrings(targets)...))
	case DiscoverARP:
		// No dedicated builder for -PR in the library.
		options = append(options, nmap.WithCustomArguments("-PR"))
	default:
		return nil, errors.NewScanError(errors.CodeValidation,
			"unknown discovery method: "+string(method))
	}

	options = append(options, nmap.WithVerbosity(1))
	options = append(options, e.timingOptions()...)
	return options, nil
}

// buildPortScanOptions maps a scan method onto nmap scan-type options.
func (e *Engine) buildPortScanOptions(targets []target.Target, method ScanMethod) ([]nmap.Option, error) {
	options := []nmap.Option{
		nmap.WithTargets(targetAddrs(targets)...),
	}
	if ports := unionPorts(targets); len(ports) > 0 {
		options = append(options, nmap.WithPorts(ports.String()))
	}

	switch method {
	case ScanConnect, "":
		options = append(options, nmap.WithConnectScan())
	case ScanSYN:
		options = append(options, nmap.WithSYNScan())
	case ScanFIN:
		options = append(options, nmap.WithTCPFINScan())
	case ScanNull:
		options = append(options, nmap.WithTCPNullScan())
	case ScanXmas:
		options = append(options, nmap.WithTCPXmasScan())
	case ScanACK:
		options = append(options, nmap.WithACKScan())
	case ScanWindow:
		options = append(options, nmap.WithWindowScan())
	case ScanMaimon:
		options = append(options, nmap.WithMaimonScan())
	case ScanUDP:
		options = append(options, nmap.WithUDPScan())
	case ScanIdle:
		options = append(options, nmap.WithIdleScan(e.opts.IdleZombie, e.opts.IdleProbePort))
	default:
		return nil, errors.NewScanError(errors.CodeValidation,
			"unknown scan method: "+string(method))
	}

	options = append(options,
		nmap.WithSkipHostDiscovery(),
		nmap.WithVerbosity(1),
	)
	options = append(options, e.timingOptions()...)
	return options, nil
}

func (e *Engine) timingOptions() []nmap.Option {
	var options []nmap.Option
	switch e.opts.Timing {
	case TimingAggressive:
		options = append(options, nmap.WithTimingTemplate(nmap.TimingAggressive))
	case TimingPolite:
		options = append(options, nmap.WithTimingTemplate(nmap.TimingPolite))
	default:
		options = append(options, nmap.WithTimingTemplate(nmap.TimingNormal))
	}
	if e.opts.Retries > 0 {
		options = append(options, nmap.WithMaxRetries(e.opts.Retries))
	}
	if e.opts.Parallelism > 0 {
		options = append(options, nmap.WithMinParallelism(e.opts.Parallelism))
	}
	return options
}

// run creates the scanner, executes it under the configured timeout, and
// wraps failures into coded errors.
func (e *Engine) run(ctx context.Context, options []nmap.Option, method string) (*nmap.Run, error) {
	runID := uuid.New().String()
	log := e.log.WithRunID(runID)

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	log.InfoScan("starting probe run", method)

	scanner, err := nmap.NewScanner(ctx, options...)
	if err != nil {
		log.ErrorScan("scanner creation failed", method, err)
		return nil, errors.WrapScanErrorWithMethod(errors.CodeScanFailed,
			"scanner creation failed", method, err)
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		if strings.Contains(err.Error(), "timed out") || ctx.Err() == context.DeadlineExceeded {
			log.ErrorScan("probe run timed out", method, err)
			return nil, errors.WrapScanErrorWithMethod(errors.CodeTimeout,
				"probe run timed out", method, err)
		}
		log.ErrorScan("probe run failed", method, err)
		return nil, errors.WrapScanErrorWithMethod(errors.CodeScanFailed,
			"probe run failed", method, err)
	}

	if warnings != nil && len(*warnings) > 0 {
		log.Warn("probe run completed with warnings", "warnings", *warnings)
	}

	log.InfoScan("probe run completed", method,
		"hosts_up", result.Stats.Hosts.Up,
		"hosts_total", result.Stats.Hosts.Total)
	return result, nil
}

// targetAddrs returns the address of each target in order.
func targetAddrs(targets []target.Target) []string {
	addrs := make([]string, len(targets))
	for i, t := range targets {
		addrs[i] = t.Addr.String()
	}
	return addrs
}

// unionPorts merges the targets' port sets preserving first-seen order.
func unionPorts(targets []target.Target) portspec.Set {
	seen := make(map[uint16]bool)
	var ports portspec.Set
	for _, t := range targets {
		for _, p := range t.Ports {
			if seen[p] {
				continue
			}
			seen[p] = true
			ports = append(ports, p)
		}
	}
	return ports
}

func portStrings(targets []target.Target) []string {
	ports := unionPorts(targets)
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = strconv.Itoa(int(p))
	}
	return out
}

// convertPingRecords turns an nmap run into ping records, one per host
// with a usable address.
func convertPingRecords(run *nmap.Run) []report.Record {
	records := make([]report.Record, 0, len(run.Hosts))
	for i := range run.Hosts {
		h := &run.Hosts[i]
		addr, ok := hostAddr(h)
		if !ok {
			continue
		}
		records = append(records, report.PingRecord{
			Addr:    addr,
			Up:      h.Status.State == "up",
			Elapsed: hostElapsed(h, run),
		})
	}
	return records
}

// convertPortRecords turns an nmap run into port records.
func convertPortRecords(run *nmap.Run) []report.Record {
	var records []report.Record
	for i := range run.Hosts {
		h := &run.Hosts[i]
		addr, ok := hostAddr(h)
		if !ok {
			continue
		}
		elapsed := hostElapsed(h, run)
		for j := range h.Ports {
			p := &h.Ports[j]
			records = append(records, report.PortRecord{
				Addr:     addr,
				Port:     p.ID,
				Protocol: p.Protocol,
				State:    report.PortState(p.State.State),
				Elapsed:  elapsed,
			})
		}
	}
	return records
}

// convertOSRecords turns an nmap run into OS records for up hosts,
// keeping at most limit guesses per host.
func convertOSRecords(run *nmap.Run, limit int) []report.Record {
	var records []report.Record
	for i := range run.Hosts {
		h := &run.Hosts[i]
		addr, ok := hostAddr(h)
		if !ok || h.Status.State != "up" {
			continue
		}

		var guesses []report.OSGuess
		for _, m := range h.OS.Matches {
			if limit > 0 && len(guesses) >= limit {
				break
			}
			guess := report.OSGuess{
				Name:     m.Name,
				Accuracy: m.Accuracy,
			}
			for _, c := range m.Classes {
				if len(c.CPEs) > 0 {
					guess.CPE = string(c.CPEs[0])
					break
				}
			}
			guesses = append(guesses, guess)
		}

		records = append(records, report.OSRecord{
			Addr:    addr,
			Guesses: guesses,
			Elapsed: hostElapsed(h, run),
		})
	}
	return records
}

// hostAddr picks the first IP address on the host, skipping MAC entries.
func hostAddr(h *nmap.Host) (netip.Addr, bool) {
	for _, a := range h.Addresses {
		if a.AddrType == "mac" {
			continue
		}
		if addr, err := netip.ParseAddr(a.Addr); err == nil {
			return addr.Unmap(), true
		}
	}
	return netip.Addr{}, false
}

// hostElapsed is the per-host probe duration; when nmap does not report
// per-host timestamps, the run-level elapsed time stands in.
func hostElapsed(h *nmap.Host, run *nmap.Run) time.Duration {
	start, end := time.Time(h.StartTime), time.Time(h.EndTime)
	if !start.IsZero() && !end.IsZero() && end.After(start) {
		return end.Sub(start)
	}
	return time.Duration(float64(time.Second) * float64(run.Stats.Finished.Elapsed))
}
