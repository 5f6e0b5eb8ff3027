package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/aws-login/internal/failure"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const (
	configurationGroupUseConstant             = "config"
	configurationGroupShortDescription        = "Manage the aws-login configuration file"
	configurationInitUseConstant              = "init"
	configurationInitShortDescription         = "Write a starter configuration file"
	configurationInitLongDescription          = "init writes the effective configuration, including any --profile, --region and --shell values, to config.yaml in the aws-login user configuration directory."
	configurationForceFlagNameConstant        = "force"
	configurationForceFlagUsageConstant       = "Overwrite an existing configuration file"
	configurationPathFlagNameConstant         = "path"
	configurationPathFlagUsageConstant        = "Write the configuration to this path instead of the user configuration directory"
	configurationFileNameConstant             = configurationNameConstant + "." + configurationTypeConstant
	configurationDirectoryPermissionsConstant = 0o755
	configurationFilePermissionsConstant      = 0o644
	configurationIndentConstant               = 2
	configurationExistsTemplateConstant       = "configuration file %s already exists; pass --force to overwrite it"
	configurationDirectoryErrorTemplate       = "could not resolve the user configuration directory: %w"
	configurationEncodeErrorTemplate          = "could not encode the configuration: %w"
	configurationWriteErrorTemplate           = "could not write %s: %w"
	configurationWrittenTemplateConstant      = "Wrote configuration to %s\n"
	configurationWrittenLogMessageConstant    = "configuration file written"
	configurationWrittenPathFieldConstant     = "path"
	configurationOverwrittenFieldNameConstant = "overwritten"
)

// ConfigurationCommandBuilder assembles the config command group.
type ConfigurationCommandBuilder struct {
	LoggerProvider                 func() *zap.Logger
	ConfigurationProvider          func() ApplicationConfiguration
	ConfigurationDirectoryProvider func() (string, error)
}

// Build constructs the config command hierarchy.
func (builder *ConfigurationCommandBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   configurationGroupUseConstant,
		Short: configurationGroupShortDescription,
	}

	initCommand := &cobra.Command{
		Use:   configurationInitUseConstant,
		Short: configurationInitShortDescription,
		Long:  configurationInitLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runInit,
	}
	initCommand.Flags().Bool(configurationForceFlagNameConstant, false, configurationForceFlagUsageConstant)
	initCommand.Flags().String(configurationPathFlagNameConstant, "", configurationPathFlagUsageConstant)

	groupCommand.AddCommand(initCommand)
	return groupCommand, nil
}

func (builder *ConfigurationCommandBuilder) runInit(command *cobra.Command, arguments []string) error {
	force, _ := command.Flags().GetBool(configurationForceFlagNameConstant)
	requestedPath, _ := command.Flags().GetString(configurationPathFlagNameConstant)

	targetPath, pathError := builder.resolveTargetPath(requestedPath)
	if pathError != nil {
		return pathError
	}

	_, statError := os.Stat(targetPath)
	exists := statError == nil
	if exists && !force {
		return failure.New(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Sprintf(configurationExistsTemplateConstant, targetPath))
	}
	if statError != nil && !errors.Is(statError, fs.ErrNotExist) {
		return failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(configurationWriteErrorTemplate, targetPath, statError))
	}

	var configuration ApplicationConfiguration
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	} else {
		defaultConfiguration, defaultError := DefaultApplicationConfiguration()
		if defaultError != nil {
			return defaultError
		}
		configuration = defaultConfiguration
	}

	var encodedConfiguration bytes.Buffer
	encoder := yaml.NewEncoder(&encodedConfiguration)
	encoder.SetIndent(configurationIndentConstant)
	if encodeError := encoder.Encode(configuration); encodeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplate, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(configurationEncodeErrorTemplate, closeError)
	}

	if mkdirError := os.MkdirAll(filepath.Dir(targetPath), configurationDirectoryPermissionsConstant); mkdirError != nil {
		return failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(configurationWriteErrorTemplate, targetPath, mkdirError))
	}
	if writeError := os.WriteFile(targetPath, encodedConfiguration.Bytes(), configurationFilePermissionsConstant); writeError != nil {
		return failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(configurationWriteErrorTemplate, targetPath, writeError))
	}

	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			logger.Info(
				configurationWrittenLogMessageConstant,
				zap.String(configurationWrittenPathFieldConstant, targetPath),
				zap.Bool(configurationOverwrittenFieldNameConstant, exists),
			)
		}
	}

	_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenTemplateConstant, targetPath)
	return printError
}

func (builder *ConfigurationCommandBuilder) resolveTargetPath(requestedPath string) (string, error) {
	if trimmedPath := strings.TrimSpace(requestedPath); len(trimmedPath) > 0 {
		return pathutils.NewHomeExpander().Expand(trimmedPath), nil
	}

	directoryProvider := builder.ConfigurationDirectoryProvider
	if directoryProvider == nil {
		directoryProvider = os.UserConfigDir
	}
	configurationDirectory, directoryError := directoryProvider()
	if directoryError != nil {
		return "", failure.Wrap(failure.KindConfigurationMissing, failure.DefaultExitCode, fmt.Errorf(configurationDirectoryErrorTemplate, directoryError))
	}
	return filepath.Join(configurationDirectory, configurationDirectoryNameConstant, configurationFileNameConstant), nil
}
