package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type loaderTestConfiguration struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
	Tools struct {
		Run struct {
			DataDirectory string `mapstructure:"data_dir"`
		} `mapstructure:"run"`
	} `mapstructure:"tools"`
}

func TestLoadConfigurationAppliesDefaults(t *testing.T) {
	loader := NewConfigurationLoader("config", "yaml", "EXCLUSIONTEST", []string{t.TempDir()})

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration("", map[string]any{
		"common.log_level":   "info",
		"tools.run.data_dir": "",
	}, &configuration)
	require.NoError(t, loadError)
	require.Empty(t, loadedConfiguration.ConfigFileUsed)
	require.Equal(t, "info", configuration.Common.LogLevel)
}

func TestLoadConfigurationReadsFileOverrides(t *testing.T) {
	configurationPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configurationPath, []byte("common:\n  log_level: debug\n"), 0o644))

	loader := NewConfigurationLoader("config", "yaml", "EXCLUSIONTEST", nil)

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationPath, map[string]any{
		"common.log_level": "info",
	}, &configuration)
	require.NoError(t, loadError)
	require.Equal(t, configurationPath, loadedConfiguration.ConfigFileUsed)
	require.Equal(t, "debug", configuration.Common.LogLevel)
}

func TestLoadConfigurationMergesEmbeddedDefaults(t *testing.T) {
	loader := NewConfigurationLoader("config", "yaml", "EXCLUSIONTEST", nil)
	loader.SetEmbeddedConfiguration([]byte("tools:\n  run:\n    data_dir: /var/lib/screening\n"))

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(t, loadError)
	require.Equal(t, "/var/lib/screening", configuration.Tools.Run.DataDirectory)
}

func TestLoadConfigurationHonorsEnvironmentOverrides(t *testing.T) {
	t.Setenv("EXCLUSIONTEST_COMMON_LOG_LEVEL", "warn")

	loader := NewConfigurationLoader("config", "yaml", "EXCLUSIONTEST", nil)

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", map[string]any{
		"common.log_level": "info",
	}, &configuration)
	require.NoError(t, loadError)
	require.Equal(t, "warn", configuration.Common.LogLevel)
}
