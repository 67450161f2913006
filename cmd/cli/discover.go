package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnvid/scanmap/internal/engine"
)

var discoverMethod string

// discoverCmd represents the discover command.
var discoverCmd = &cobra.Command{
	Use:   "discover [targets...]",
	Short: "Perform host discovery",
	Long: `Discover which targets are up using ping-style probes: ICMP echo,
ICMP timestamp, ICMP netmask, TCP SYN, TCP ACK, UDP, or ARP.`,
	Example: `  scanmap discover 192.168.1.0/24
  scanmap discover -t 10.0.0.1-10.0.0.254 --method tcp-syn -p 22,443
  scanmap discover -f targets.txt --method arp`,
	Run: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVar(&discoverMethod, "method", "",
		"discovery method: icmp, icmp-timestamp, icmp-netmask, tcp-syn, tcp-ack, udp, or arp")
}

func runDiscover(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg := loadConfigOrExit()

	method := discoverMethod
	if method == "" {
		method = cfg.Scanning.DefaultDiscoveryMethod
	}

	targets := resolveTargetsOrExit(ctx, cfg, args)
	printBanner(len(targets))

	start := time.Now()
	records, err := newEngine(cfg).Discover(ctx, targets, engine.DiscoveryMethod(method))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(records, len(targets), time.Since(start))
}
