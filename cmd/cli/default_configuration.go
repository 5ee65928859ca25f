package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultConfiguration []byte

// EmbeddedDefaultConfiguration exposes the baseline configuration shipped with the binary.
func EmbeddedDefaultConfiguration() []byte {
	duplicatedConfiguration := make([]byte, len(embeddedDefaultConfiguration))
	copy(duplicatedConfiguration, embeddedDefaultConfiguration)
	return duplicatedConfiguration
}
