// Package dnsclient implements the DNS collaborator consumed during domain
// expansion. It queries A and AAAA records directly so both families are
// always available for the resolver's family filter.
package dnsclient

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"

	"github.com/arnvid/scanmap/internal/logging"
)

const (
	defaultResolvConf = "/etc/resolv.conf"
	defaultTimeout    = 5 * time.Second
)

// Client resolves domain names against the system's configured nameservers.
type Client struct {
	servers []string
	client  *dns.Client
}

// New creates a client from the system resolver configuration.
func New() (*Client, error) {
	return NewFromConfig(defaultResolvConf)
}

// NewFromConfig creates a client from a resolv.conf-style file.
func NewFromConfig(path string) (*Client, error) {
	conf, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resolver config %s: %w", path, err)
	}
	if len(conf.Servers) == 0 {
		return nil, fmt.Errorf("resolver config %s lists no nameservers", path)
	}

	servers := make([]string, len(conf.Servers))
	for i, s := range conf.Servers {
		servers[i] = net.JoinHostPort(s, conf.Port)
	}

	return &Client{
		servers: servers,
		client:  &dns.Client{Timeout: defaultTimeout},
	}, nil
}

// Resolve looks up all A and AAAA records for name. A successful lookup
// with zero records is valid; the caller decides whether that matters.
func (c *Client) Resolve(ctx context.Context, name string) ([]netip.Addr, error) {
	var addrs []netip.Addr

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		answers, err := c.query(ctx, name, qtype)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, answers...)
	}

	logging.Debug("dns lookup", "name", name, "records", len(addrs))
	return addrs, nil
}

// query asks each configured nameserver in turn and returns the first
// answer set it gets.
func (c *Client) query(ctx context.Context, name string, qtype uint16) ([]netip.Addr, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range c.servers {
		resp, _, err := c.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
			lastErr = fmt.Errorf("nameserver %s returned %s for %s", server, dns.RcodeToString[resp.Rcode], name)
			continue
		}
		return extractAddrs(resp), nil
	}

	return nil, fmt.Errorf("all nameservers failed for %s: %w", name, lastErr)
}

// extractAddrs pulls address records out of a response, ignoring CNAMEs and
// other record types in the answer section.
func extractAddrs(resp *dns.Msg) []netip.Addr {
	var addrs []netip.Addr
	for _, rr := range resp.Answer {
		switch record := rr.(type) {
		case *dns.A:
			if addr, ok := netip.AddrFromSlice(record.A.To4()); ok {
				addrs = append(addrs, addr)
			}
		case *dns.AAAA:
			if addr, ok := netip.AddrFromSlice(record.AAAA.To16()); ok {
				addrs = append(addrs, addr.Unmap())
			}
		}
	}
	return addrs
}
