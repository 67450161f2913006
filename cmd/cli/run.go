package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/arnvid/scanmap/internal/config"
	"github.com/arnvid/scanmap/internal/dnsclient"
	"github.com/arnvid/scanmap/internal/engine"
	"github.com/arnvid/scanmap/internal/report"
	"github.com/arnvid/scanmap/internal/target"
)

// loadConfigOrExit loads the typed config and applies flag overrides.
func loadConfigOrExit() *config.Config {
	cfg, err := config.Load(viperConfigFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if ipv6First {
		cfg.Resolve.IPv6First = true
	}
	return cfg
}

// viperConfigFile is the path viper resolved during initConfig, so the
// typed config and the logging bootstrap read the same file. An explicit
// --config always wins.
func viperConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return viper.ConfigFileUsed()
}

// resolveTargetsOrExit turns the --targets/--input-file/positional
// specification into a deduplicated target list.
func resolveTargetsOrExit(ctx context.Context, cfg *config.Config, args []string) []target.Target {
	resolver, err := dnsclient.NewFromConfig(cfg.Resolve.ResolvConf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	family := target.FamilyIPv4First
	if cfg.Resolve.IPv6First {
		family = target.FamilyIPv6First
	}
	expander := &target.Expander{Resolver: resolver, Family: family}

	ports := portsSpec
	if ports == "" {
		ports = cfg.Scanning.DefaultPorts
	}

	var targets []target.Target
	switch {
	case inputFile != "":
		targets, err = expander.ResolveFile(ctx, inputFile, ports)
	case targetSpec != "":
		targets, err = expander.ResolveList(ctx, targetSpec, ports)
	case len(args) > 0:
		targets, err = expander.ResolveList(ctx, strings.Join(args, ","), ports)
	default:
		fmt.Fprintln(os.Stderr, "Error: no targets given; use --targets, --input-file, or positional arguments")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return target.Dedupe(targets)
}

// newEngine builds the probe engine from config.
func newEngine(cfg *config.Config) *engine.Engine {
	opts := engine.DefaultOptions()
	opts.Timeout = cfg.Scanning.Timeout
	opts.Timing = engine.Timing(cfg.Scanning.Timing)
	opts.Retries = cfg.Scanning.MaxRetries
	opts.Parallelism = cfg.Scanning.Parallelism
	opts.IdleZombie = cfg.Scanning.IdleZombie
	opts.OSGuessLimit = cfg.Scanning.OSGuessLimit
	return engine.New(opts)
}

// printReport renders aggregated probe records to stdout.
func printReport(records []report.Record, targetCount int, elapsed time.Duration) {
	rep := report.Aggregate(records, targetCount, elapsed)
	fmt.Print(rep.Render())
}

// printBanner writes a header line before a probe run starts.
func printBanner(targetCount int) {
	fmt.Printf("Starting scanmap %s at %s (%d ip addresses)\n",
		version, time.Now().Format("2006-01-02 15:04 MST"), targetCount)
}
