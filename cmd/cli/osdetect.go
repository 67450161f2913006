package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// osCmd represents the os command.
var osCmd = &cobra.Command{
	Use:   "os [targets...]",
	Short: "Perform OS detection",
	Long: `Fingerprint the targets' operating systems. Each up host gets a line
listing candidate OS names with their CPE identifiers; hosts nmap could
not classify are reported as unknown.

OS detection usually requires root privileges.`,
	Example: `  scanmap os 192.168.1.10
  scanmap os -t 10.0.0.0/28 -p 22,80,443`,
	Run: runOSDetect,
}

func init() {
	rootCmd.AddCommand(osCmd)
}

func runOSDetect(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg := loadConfigOrExit()

	targets := resolveTargetsOrExit(ctx, cfg, args)
	printBanner(len(targets))

	start := time.Now()
	records, err := newEngine(cfg).DetectOS(ctx, targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printReport(records, len(targets), time.Since(start))
}
