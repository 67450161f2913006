package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnvid/scanmap/internal/engine"
)

var (
	scanMethod string
	scanZombie string
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [targets...]",
	Short: "Perform a port scan",
	Long: `Scan the targets' ports using one of nmap's scan techniques:
connect, syn, fin, null, xmas, ack, window, maimon, udp, or idle.

Idle scans bounce probes off a zombie host given with --zombie.`,
	Example: `  scanmap scan 192.168.1.10 -p 22,80,443
  scanmap scan -t 10.0.0.0/28 --method syn -p 1-1024
  scanmap scan -t example.org --method idle --zombie 10.0.0.99`,
	Run: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanMethod, "method", "",
		"scan method: connect, syn, fin, null, xmas, ack, window, maimon, udp, or idle")
	scanCmd.Flags().StringVar(&scanZombie, "zombie", "",
		"zombie host for idle scans, host[:port]")
}

func runScan(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg := loadConfigOrExit()

	method := scanMethod
	if method == "" {
		method = cfg.Scanning.DefaultScanMethod
	}
	if scanZombie != "" {
		cfg.Scanning.IdleZombie = scanZombie
	}

	targets := resolveTargetsOrExit(ctx, cfg, args)
	printBanner(len(targets))

	start := time.Now()
	records, err := newEngine(cfg).PortScan(ctx, targets, engine.ScanMethod(method))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(records, len(targets), time.Since(start))
}
