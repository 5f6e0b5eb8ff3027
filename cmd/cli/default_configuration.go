package cli

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const defaultConfigurationDecodeErrorTemplate = "embedded configuration is invalid: %w"

//go:embed default_config.yaml
var defaultConfigurationDocument []byte

// EmbeddedDefaultConfiguration returns a copy of the bundled config.yaml and its type for the configuration loader.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(defaultConfigurationDocument), configurationTypeConstant
}

// DefaultApplicationConfiguration decodes the bundled config.yaml.
func DefaultApplicationConfiguration() (ApplicationConfiguration, error) {
	var configuration ApplicationConfiguration
	if decodeError := yaml.Unmarshal(defaultConfigurationDocument, &configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(defaultConfigurationDecodeErrorTemplate, decodeError)
	}
	return configuration, nil
}
