package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arnvid/scanmap/internal/target"
)

// targetsCmd represents the targets command.
var targetsCmd = &cobra.Command{
	Use:   "targets [targets...]",
	Short: "Resolve and list scan targets without scanning",
	Long: `Resolve the target specification into its concrete addresses and
print them as a table. Useful for checking what a subnet, range, or
domain expands to before committing to a scan.`,
	Example: `  scanmap targets 192.168.1.0/28
  scanmap targets -t example.org,10.0.0.1-10.0.0.5 -p 22,80
  scanmap targets -f targets.txt`,
	Run: runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg := loadConfigOrExit()

	targets := resolveTargetsOrExit(ctx, cfg, args)
	displayTargetsTable(targets)
	fmt.Printf("\n%d targets resolved\n", len(targets))
}

// displayTargetsTable prints the resolved targets in a table format.
func displayTargetsTable(targets []target.Target) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Address", "Family", "Ports", "Origin")

	for _, t := range targets {
		family := "ipv4"
		if t.Addr.Is6() {
			family = "ipv6"
		}
		ports := t.Ports.String()
		if ports == "" {
			ports = "-"
		}
		origin := t.Origin
		if origin == "" {
			origin = "-"
		}
		_ = table.Append([]string{t.Addr.String(), family, ports, origin})
	}

	_ = table.Render()
}
