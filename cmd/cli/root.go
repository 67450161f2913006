// Package cli implements the cobra command tree for scanmap: host
// discovery, port scanning, OS detection, and target inspection, all
// sharing the target resolution pipeline and configuration plumbing.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arnvid/scanmap/internal/config"
	"github.com/arnvid/scanmap/internal/logging"
)

var (
	cfgFile   string
	verbose   bool
	ipv6First bool

	targetSpec string
	inputFile  string
	portsSpec  string
)

// Build information, set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scanmap",
	Short: "Network discovery and port scanning tool",
	Long: `Scanmap resolves flexible target specifications (addresses, subnets,
address ranges, domain names, or files of those) into concrete scan
targets, probes them through nmap, and prints a deterministic, sorted
report.`,
	Version: getVersion(),
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./scanmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&ipv6First, "ipv6-first", false, "prefer IPv6 records when a domain resolves to both families")
	rootCmd.PersistentFlags().StringVarP(&targetSpec, "targets", "t", "", "comma-separated target list (addresses, subnets, ranges, domains)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input-file", "f", "", "file with one target specification per line")
	rootCmd.PersistentFlags().StringVarP(&portsSpec, "ports", "p", "", "port specification, e.g. 22,80,8000-8100")

	for _, name := range []string{"verbose", "ipv6-first", "ports"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind %s flag: %v\n", name, err)
		}
	}
}

// initConfig reads in the config file and SCANMAP_* environment
// variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("scanmap")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SCANMAP")

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	initLogging()
}

// setConfigDefaults mirrors config.Default so viper lookups agree with
// the typed config.
func setConfigDefaults() {
	defaults := config.Default()

	viper.SetDefault("scanning.timeout", defaults.Scanning.Timeout)
	viper.SetDefault("scanning.timing", defaults.Scanning.Timing)
	viper.SetDefault("scanning.max_retries", defaults.Scanning.MaxRetries)
	viper.SetDefault("scanning.parallelism", defaults.Scanning.Parallelism)
	viper.SetDefault("scanning.default_ports", defaults.Scanning.DefaultPorts)
	viper.SetDefault("scanning.default_scan_method", defaults.Scanning.DefaultScanMethod)
	viper.SetDefault("scanning.default_discovery_method", defaults.Scanning.DefaultDiscoveryMethod)
	viper.SetDefault("scanning.os_guess_limit", defaults.Scanning.OSGuessLimit)

	viper.SetDefault("resolve.ipv6_first", defaults.Resolve.IPv6First)
	viper.SetDefault("resolve.resolv_conf", defaults.Resolve.ResolvConf)
	viper.SetDefault("resolve.dns_timeout", defaults.Resolve.DNSTimeout)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
	viper.SetDefault("logging.output", defaults.Logging.Output)
}

func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// initLogging initializes structured logging from the loaded config.
func initLogging() {
	cfg, err := config.Load(viper.ConfigFileUsed())
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		return
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     logging.LogLevel(level),
		Format:    logging.LogFormat(cfg.Logging.Format),
		Output:    cfg.Logging.Output,
		AddSource: level == "debug",
	})
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logging.SetDefault(logger)
}
