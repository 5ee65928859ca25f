package refcache

import "strings"

const configurationDataDirectoryKeyConstant = "data_dir"

// CommandConfiguration captures persistent settings for the build-cache command.
type CommandConfiguration struct {
	DataDirectory string `mapstructure:"data_dir"`
}

// DefaultCommandConfiguration returns baseline configuration values for the build-cache command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues exposes configuration defaults keyed beneath the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationDataDirectoryKeyConstant: defaults.DataDirectory,
	}
}

// sanitize trims whitespace from configured values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.DataDirectory = strings.TrimSpace(configuration.DataDirectory)
	return sanitized
}
