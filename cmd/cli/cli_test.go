package cli

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "scanmap", rootCmd.Use)

	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"discover", "scan", "os", "targets"} {
		assert.Contains(t, names, want)
	}
}

func TestPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "verbose", "ipv6-first", "targets", "input-file", "ports"} {
		assert.NotNil(t, flags.Lookup(name), "missing persistent flag %s", name)
	}
}

func TestScanCommandFlags(t *testing.T) {
	require.NotNil(t, scanCmd.Flags().Lookup("method"))
	require.NotNil(t, scanCmd.Flags().Lookup("zombie"))
	assert.NotNil(t, discoverCmd.Flags().Lookup("method"))
}

func TestViperConfigFile(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	cfgFile = ""
	viper.SetConfigFile("/etc/scanmap/scanmap.yaml")
	assert.Equal(t, "/etc/scanmap/scanmap.yaml", viperConfigFile())

	// An explicit --config wins over whatever viper resolved.
	cfgFile = "override.yaml"
	assert.Equal(t, "override.yaml", viperConfigFile())
}

func TestVersionString(t *testing.T) {
	SetVersion("1.2.3", "abc1234", "2026-01-01")
	assert.Equal(t, "1.2.3 (commit: abc1234, built: 2026-01-01)", rootCmd.Version)
}
