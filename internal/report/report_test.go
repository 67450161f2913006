package report

import (
	"math/rand"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(t *testing.T, raw string) netip.Addr {
	t.Helper()
	return netip.MustParseAddr(raw)
}

func TestAggregatePingReport(t *testing.T) {
	records := []Record{
		PingRecord{Addr: addr(t, "10.0.0.2"), Up: true, Elapsed: 320 * time.Millisecond},
		PingRecord{Addr: addr(t, "10.0.0.1"), Up: true, Elapsed: 500 * time.Millisecond},
		PingRecord{Addr: addr(t, "10.0.0.3"), Up: false, Elapsed: time.Second},
		PingRecord{Addr: addr(t, "10.0.0.9"), Up: false, Elapsed: time.Second},
	}

	rep := Aggregate(records, 4, 1200*time.Millisecond)

	assert.Equal(t, []string{
		"10.0.0.1 -> up (0.50s)",
		"10.0.0.2 -> up (0.32s)",
		"other 2 hosts -> down",
	}, rep.Lines)
	assert.Equal(t, 2, rep.HostsUp)
	assert.Equal(t, "scanmap done: 4 ip addresses (2 hosts up) scanned in 1.20 seconds", rep.Tail)
}

func TestAggregateAllHostsUp(t *testing.T) {
	records := []Record{
		PingRecord{Addr: addr(t, "10.0.0.1"), Up: true, Elapsed: 100 * time.Millisecond},
	}

	rep := Aggregate(records, 1, 110*time.Millisecond)
	require.Len(t, rep.Lines, 1)
	assert.NotContains(t, rep.Lines[0], "other")
}

func TestAggregatePortReport(t *testing.T) {
	records := []Record{
		PortRecord{Addr: addr(t, "10.0.0.2"), Port: 80, Protocol: "tcp", State: StateOpen, Elapsed: 120 * time.Millisecond},
		PortRecord{Addr: addr(t, "10.0.0.1"), Port: 443, Protocol: "tcp", State: StateFiltered, Elapsed: time.Second},
		PortRecord{Addr: addr(t, "10.0.0.1"), Port: 22, Protocol: "tcp", State: StateOpen, Elapsed: 80 * time.Millisecond},
		PortRecord{Addr: addr(t, "10.0.0.1"), Port: 80, Protocol: "tcp", State: StateOpen, Elapsed: 90 * time.Millisecond},
		PortRecord{Addr: addr(t, "10.0.0.2"), Port: 53, Protocol: "udp", State: StateClosed, Elapsed: 200 * time.Millisecond},
	}

	rep := Aggregate(records, 2, 2*time.Second)

	assert.Equal(t, []string{
		"10.0.0.1:22/tcp -> open (0.08s)",
		"10.0.0.1:80/tcp -> open (0.09s)",
		"10.0.0.1:443/tcp -> filtered (1.00s)",
		"10.0.0.2:53/udp -> closed (0.20s)",
		"10.0.0.2:80/tcp -> open (0.12s)",
	}, rep.Lines)
	// Every open port counts, not just one per host.
	assert.Equal(t, 3, rep.HostsUp)
}

func TestAggregateOSReport(t *testing.T) {
	records := []Record{
		OSRecord{
			Addr: addr(t, "10.0.0.5"),
			Guesses: []OSGuess{
				{Name: "Linux 5.4", CPE: "cpe:/o:linux:linux_kernel:5"},
				{Name: "Linux 4.15", CPE: "cpe:/o:linux:linux_kernel:4"},
			},
			Elapsed: 1300 * time.Millisecond,
		},
		OSRecord{Addr: addr(t, "10.0.0.6"), Elapsed: time.Second},
	}

	rep := Aggregate(records, 2, 3*time.Second)

	assert.Equal(t, []string{
		"10.0.0.5 -> Linux 5.4 [cpe:/o:linux:linux_kernel:5] | Linux 4.15 [cpe:/o:linux:linux_kernel:4] (1.30s)",
		"10.0.0.6 -> unknown (1.00s)",
	}, rep.Lines)
	assert.Equal(t, 1, rep.HostsUp)
}

func TestAggregateSortsIPv4BeforeIPv6(t *testing.T) {
	records := []Record{
		PingRecord{Addr: addr(t, "2001:db8::1"), Up: true, Elapsed: time.Millisecond},
		PingRecord{Addr: addr(t, "192.168.0.1"), Up: true, Elapsed: time.Millisecond},
	}

	rep := Aggregate(records, 2, time.Second)
	require.Len(t, rep.Lines, 2)
	assert.Contains(t, rep.Lines[0], "192.168.0.1")
	assert.Contains(t, rep.Lines[1], "2001:db8::1")
}

func TestAggregateOrderIndependent(t *testing.T) {
	records := []Record{
		PingRecord{Addr: addr(t, "10.0.0.1"), Up: true, Elapsed: 500 * time.Millisecond},
		PingRecord{Addr: addr(t, "10.0.0.4"), Up: false, Elapsed: time.Second},
		PortRecord{Addr: addr(t, "10.0.0.2"), Port: 80, Protocol: "tcp", State: StateOpen, Elapsed: 90 * time.Millisecond},
		PortRecord{Addr: addr(t, "10.0.0.2"), Port: 22, Protocol: "tcp", State: StateClosed, Elapsed: 70 * time.Millisecond},
		OSRecord{Addr: addr(t, "10.0.0.3"), Guesses: []OSGuess{{Name: "OpenBSD 7.4"}}, Elapsed: time.Second},
	}

	want := Aggregate(records, 5, time.Second)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]Record, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Aggregate(shuffled, 5, time.Second)
		require.Equal(t, want, got, "iteration %d", i)
	}
}

func TestAggregateDuplicateAddressLastArrivalWins(t *testing.T) {
	records := []Record{
		PingRecord{Addr: addr(t, "10.0.0.1"), Up: false, Elapsed: time.Second},
		PingRecord{Addr: addr(t, "10.0.0.1"), Up: true, Elapsed: 250 * time.Millisecond},
	}

	rep := Aggregate(records, 1, time.Second)
	assert.Equal(t, []string{"10.0.0.1 -> up (0.25s)"}, rep.Lines)
	assert.Equal(t, 1, rep.HostsUp)
}

func TestAggregateEndToEndScenario(t *testing.T) {
	// Input "10.0.0.1,10.0.0.2", two engine records, one up and one down.
	records := []Record{
		PingRecord{Addr: addr(t, "10.0.0.1"), Up: true, Elapsed: 500 * time.Millisecond},
		PingRecord{Addr: addr(t, "10.0.0.2"), Up: false, Elapsed: 500 * time.Millisecond},
	}

	rep := Aggregate(records, 2, 500*time.Millisecond)

	assert.Equal(t, []string{
		"10.0.0.1 -> up (0.50s)",
		"other 1 hosts -> down",
	}, rep.Lines)
	assert.Equal(t, "scanmap done: 2 ip addresses (1 hosts up) scanned in 0.50 seconds", rep.Tail)
}

func TestAggregateEmpty(t *testing.T) {
	rep := Aggregate(nil, 0, 0)
	assert.Empty(t, rep.Lines)
	assert.Equal(t, "scanmap done: 0 ip addresses (0 hosts up) scanned in 0.00 seconds", rep.Tail)
}

func TestRender(t *testing.T) {
	rep := Report{
		Lines: []string{"10.0.0.1 -> up (0.50s)", "other 1 hosts -> down"},
		Tail:  "scanmap done: 2 ip addresses (1 hosts up) scanned in 0.50 seconds",
	}

	assert.Equal(t,
		"10.0.0.1 -> up (0.50s)\nother 1 hosts -> down\n"+
			"scanmap done: 2 ip addresses (1 hosts up) scanned in 0.50 seconds\n",
		rep.Render())
}
