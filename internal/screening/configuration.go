package screening

import "strings"

const (
	configurationDataDirectoryKeyConstant = "data_dir"
	configurationClientKeyConstant        = "client"
)

// CommandConfiguration captures persistent settings for the run command.
type CommandConfiguration struct {
	DataDirectory    string `mapstructure:"data_dir"`
	ClientConfigPath string `mapstructure:"client"`
}

// DefaultCommandConfiguration returns baseline configuration values for the run command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues exposes configuration defaults keyed beneath the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationDataDirectoryKeyConstant: defaults.DataDirectory,
		rootKey + "." + configurationClientKeyConstant:        defaults.ClientConfigPath,
	}
}

// sanitize trims whitespace from configured values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.DataDirectory = strings.TrimSpace(configuration.DataDirectory)
	sanitized.ClientConfigPath = strings.TrimSpace(configuration.ClientConfigPath)
	return sanitized
}
