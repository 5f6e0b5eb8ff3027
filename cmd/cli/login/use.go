package login

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/awsconfig"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const (
	useUseConstant                = "use <profile>"
	useShortDescriptionConstant   = "Select an AWS profile in the calling shell"
	useLongDescriptionConstant    = "use exports AWS_PROFILE, and AWS_REGION when --region is given, into the shell that runs the aws-login wrapper function."
	unknownProfileWarningConstant = "profile not found in the AWS config file"
	logFieldConfigFileConstant    = "config_file"
)

// UseCommandBuilder assembles the use command.
type UseCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	EnvironmentFactory    EnvironmentFactory
	// ConfigFilePath overrides the AWS shared config file used to check the profile name.
	ConfigFilePath string
}

// Build constructs the use command.
func (builder *UseCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   useUseConstant,
		Short: useShortDescriptionConstant,
		Long:  useLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *UseCommandBuilder) run(command *cobra.Command, arguments []string) error {
	profile := arguments[0]
	logger := resolveLogger(builder.LoggerProvider)

	configFilePath := builder.ConfigFilePath
	if len(configFilePath) == 0 {
		configFilePath = awsconfig.ResolveConfigFilePath(os.LookupEnv, pathutils.NewHomeExpander())
	}
	// profiles defined only in the credentials file are absent here
	if _, found, readError := awsconfig.NewProfileReader(configFilePath).Profile(profile); readError == nil && !found {
		logger.Warn(
			unknownProfileWarningConstant,
			zap.String(logFieldProfileConstant, profile),
			zap.String(logFieldConfigFileConstant, configFilePath),
		)
	}

	configuration := resolveConfiguration(builder.ConfigurationProvider)
	invocation := resolveInvocation(command)
	return exportProfileSelection(logger, builder.EnvironmentFactory, configuration.ShellDialect, profile, invocation.Region())
}
