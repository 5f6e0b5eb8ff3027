package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/aws-login/cmd/cli/inspect"
	"github.com/temirov/aws-login/cmd/cli/integration"
	"github.com/temirov/aws-login/cmd/cli/login"
	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/shell"
	"github.com/temirov/aws-login/internal/utils"
	flagutils "github.com/temirov/aws-login/internal/utils/flags"
)

const (
	applicationNameConstant                    = "aws-login"
	applicationShortDescriptionConstant        = "Log into AWS accounts and services from the shell"
	applicationLongDescriptionConstant         = "aws-login drives the AWS CLI and Docker to log in through IAM Identity Center, authenticate Docker against Amazon ECR, and export the selected profile into the calling shell."
	configFileFlagNameConstant                 = "config"
	configFileFlagUsageConstant                = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                   = "log-level"
	logLevelFlagUsageConstant                  = "Override the configured log level (debug, info, warn or error)."
	logFormatFlagNameConstant                  = "log-format"
	logFormatFlagUsageConstant                 = "Override the configured log format (structured or console)."
	shellFlagUsageConstant                     = "Shell dialect used for exported variables and integration scripts."
	versionFlagNameConstant                    = "version"
	versionFlagUsageConstant                   = "Print the aws-login version and exit."
	versionOutputTemplateConstant              = "aws-login version: %s\n"
	developmentVersionConstant                 = "(devel)"
	commonConfigurationKeyConstant             = "common"
	commonLogLevelConfigKeyConstant            = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant           = commonConfigurationKeyConstant + ".log_format"
	awsConfigurationKeyConstant                = "aws"
	awsProfileConfigKeyConstant                = awsConfigurationKeyConstant + ".profile"
	awsRegionConfigKeyConstant                 = awsConfigurationKeyConstant + ".region"
	shellConfigurationKeyConstant              = "shell"
	shellDialectConfigKeyConstant              = shellConfigurationKeyConstant + ".dialect"
	shellStartupScriptConfigKeyConstant        = shellConfigurationKeyConstant + ".startup_script"
	shellBinaryNameConfigKeyConstant           = shellConfigurationKeyConstant + ".binary_name"
	ecrRegistryConfigKeyConstant               = "ecr.registry"
	environmentPrefixConstant                  = "AWSLOGIN"
	configurationNameConstant                  = "config"
	configurationTypeConstant                  = "yaml"
	configurationSearchPathEnvironmentVariable = "AWSLOGIN_CONFIG_SEARCH_PATH"
	configurationDirectoryNameConstant         = "aws-login"
	defaultConfigurationSearchPathConstant     = "."
	configurationInitializedMessageConstant    = "configuration initialized"
	configurationLogLevelFieldConstant         = "log_level"
	configurationLogFormatFieldConstant        = "log_format"
	configurationFileFieldConstant             = "config_file"
	configurationProfileFieldConstant          = "profile"
	configurationRegionFieldConstant           = "region"
	configurationShellFieldConstant            = "shell"
	configurationLoadErrorTemplateConstant     = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant        = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant            = "unable to flush logger: %w"
	unknownCommandTemplateConstant             = "unknown command %q"
	rootCommandDebugMessageConstant            = "aws-login CLI diagnostics"
	logFieldCommandNameConstant                = "command_name"
	logFieldArgumentsConstant                  = "arguments"
	loggerNotInitializedMessageConstant        = "logger not initialized"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common" yaml:"common"`
	AWS    ApplicationAWSConfiguration    `mapstructure:"aws" yaml:"aws"`
	Shell  ApplicationShellConfiguration  `mapstructure:"shell" yaml:"shell"`
	ECR    ApplicationECRConfiguration    `mapstructure:"ecr" yaml:"ecr"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// ApplicationAWSConfiguration stores the AWS CLI options applied to every invocation.
type ApplicationAWSConfiguration struct {
	Profile string `mapstructure:"profile" yaml:"profile"`
	Region  string `mapstructure:"region" yaml:"region"`
}

// ApplicationShellConfiguration stores the shell integration settings.
type ApplicationShellConfiguration struct {
	Dialect       string `mapstructure:"dialect" yaml:"dialect"`
	StartupScript string `mapstructure:"startup_script" yaml:"startup_script"`
	BinaryName    string `mapstructure:"binary_name" yaml:"binary_name"`
}

// ApplicationECRConfiguration stores the ECR login settings.
type ApplicationECRConfiguration struct {
	Registry string `mapstructure:"registry" yaml:"registry"`
}

// VersionResolver reports the version of the running binary.
type VersionResolver func(context.Context) string

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	shellFlagValue         string
	awsFlagValues          *flagutils.AWSFlagValues
	commandContextAccessor utils.CommandContextAccessor
	versionResolver        VersionResolver
	exitFunction           func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(os.LookupEnv, os.UserConfigDir),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	application.awsFlagValues = flagutils.BindAWSFlags(cobraCommand, flagutils.AWSFlagValues{}, flagutils.DefaultAWSFlagDefinitions())
	cobraCommand.PersistentFlags().VarP(
		flagutils.NewChoiceValue(&application.shellFlagValue, "", shell.SupportedDialectNames()),
		flagutils.ShellFlagName,
		flagutils.ShellFlagShorthand,
		flagutils.FormatChoiceUsage("", shell.SupportedDialectNames(), shellFlagUsageConstant),
	)
	cobraCommand.Flags().Bool(versionFlagNameConstant, false, versionFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	ssoBuilder := login.SSOCommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: application.loginConfiguration,
	}
	ssoCommand, ssoBuildError := ssoBuilder.Build()
	if ssoBuildError == nil {
		cobraCommand.AddCommand(ssoCommand)
	}

	ecrBuilder := login.ECRCommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: application.loginConfiguration,
	}
	ecrCommand, ecrBuildError := ecrBuilder.Build()
	if ecrBuildError == nil {
		cobraCommand.AddCommand(ecrCommand)
	}

	useBuilder := login.UseCommandBuilder{
		LoggerProvider:        loggerProvider,
		ConfigurationProvider: application.loginConfiguration,
	}
	useCommand, useBuildError := useBuilder.Build()
	if useBuildError == nil {
		cobraCommand.AddCommand(useCommand)
	}

	shellBuilder := integration.CommandGroupBuilder{
		SetupDependencies: integration.SetupDependencies{
			LoggerProvider:        loggerProvider,
			ConfigurationProvider: application.integrationConfiguration,
		},
	}
	shellCommand, shellBuildError := shellBuilder.Build()
	if shellBuildError == nil {
		cobraCommand.AddCommand(shellCommand)
	}

	profilesBuilder := inspect.ProfilesCommandBuilder{LoggerProvider: loggerProvider}
	profilesCommand, profilesBuildError := profilesBuilder.Build()
	if profilesBuildError == nil {
		cobraCommand.AddCommand(profilesCommand)
	}

	whoamiBuilder := inspect.WhoAmICommandBuilder{LoggerProvider: loggerProvider}
	whoamiCommand, whoamiBuildError := whoamiBuilder.Build()
	if whoamiBuildError == nil {
		cobraCommand.AddCommand(whoamiCommand)
	}

	configurationBuilder := ConfigurationCommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() ApplicationConfiguration {
			return application.configuration
		},
	}
	configurationCommand, configurationBuildError := configurationBuilder.Build()
	if configurationBuildError == nil {
		cobraCommand.AddCommand(configurationCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// InitializeForCommand loads configuration and the logger as if the named subcommand were about to run.
// Nested commands are addressed with spaces, for example "shell install".
func (application *Application) InitializeForCommand(commandPath string) error {
	command, _, findError := application.rootCommand.Find(strings.Fields(commandPath))
	if findError != nil || command == nil {
		return fmt.Errorf(unknownCommandTemplateConstant, commandPath)
	}
	return application.initializeConfiguration(command)
}

// Configuration returns the configuration loaded by the last initialization.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:     string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant:    string(utils.LogFormatConsole),
		awsProfileConfigKeyConstant:         "",
		awsRegionConfigKeyConstant:          "",
		shellDialectConfigKeyConstant:       "",
		shellStartupScriptConfigKeyConstant: "",
		shellBinaryNameConfigKeyConstant:    shell.DefaultBinaryName,
		ecrRegistryConfigKeyConstant:        "",
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, flagutils.ProfileFlagName) {
		application.configuration.AWS.Profile = application.awsFlagValues.Profile
	}

	if application.persistentFlagChanged(command, flagutils.RegionFlagName) {
		application.configuration.AWS.Region = application.awsFlagValues.Region
	}

	if application.persistentFlagChanged(command, flagutils.ShellFlagName) {
		application.configuration.Shell.Dialect = application.shellFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLoggerWithOutput(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		command.ErrOrStderr(),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationProfileFieldConstant, application.configuration.AWS.Profile),
		zap.String(configurationRegionFieldConstant, application.configuration.AWS.Region),
		zap.String(configurationShellFieldConstant, application.configuration.Shell.Dialect),
	)

	invocation := execshell.NewInvocationContext(
		application.configuration.AWS.Profile,
		application.configuration.AWS.Region,
		command.ErrOrStderr(),
		command.OutOrStdout(),
	)

	parentContext := command.Context()
	if parentContext == nil {
		parentContext = context.Background()
	}
	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
		parentContext,
		application.configurationMetadata.ConfigFileUsed,
	)
	updatedContext = application.commandContextAccessor.WithInvocationContext(updatedContext, invocation)
	command.SetContext(updatedContext)
	if rootCommand := command.Root(); rootCommand != nil {
		rootCommand.SetContext(updatedContext)
	}

	return nil
}

func (application *Application) loginConfiguration() login.CommandConfiguration {
	return login.CommandConfiguration{
		ShellDialect: application.configuration.Shell.Dialect,
		Registry:     application.configuration.ECR.Registry,
	}
}

func (application *Application) integrationConfiguration() integration.CommandConfiguration {
	return integration.CommandConfiguration{
		ShellDialect:  application.configuration.Shell.Dialect,
		StartupScript: application.configuration.Shell.StartupScript,
		BinaryName:    application.configuration.Shell.BinaryName,
	}
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if printVersion, _ := command.Flags().GetBool(versionFlagNameConstant); printVersion {
		if _, writeError := fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, application.versionResolver(command.Context())); writeError != nil {
			return writeError
		}
		application.exitFunction(0)
		return nil
	}

	return command.Help()
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// configurationSearchPaths lists AWSLOGIN_CONFIG_SEARCH_PATH when set, the working directory,
// and the aws-login directory under the user configuration directory.
func configurationSearchPaths(lookup func(string) (string, bool), userConfigurationDirectory func() (string, error)) []string {
	searchPaths := make([]string, 0, 3)
	if overridePath, present := lookup(configurationSearchPathEnvironmentVariable); present && len(strings.TrimSpace(overridePath)) > 0 {
		searchPaths = append(searchPaths, strings.TrimSpace(overridePath))
	}
	searchPaths = append(searchPaths, defaultConfigurationSearchPathConstant)
	if configurationDirectory, directoryError := userConfigurationDirectory(); directoryError == nil && len(configurationDirectory) > 0 {
		searchPaths = append(searchPaths, filepath.Join(configurationDirectory, configurationDirectoryNameConstant))
	}
	return searchPaths
}

func resolveBuildVersion(context.Context) string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}
