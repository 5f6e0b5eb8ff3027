package login

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/aws-login/internal/awscli"
	"github.com/temirov/aws-login/internal/awsconfig"
	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/shell"
	"github.com/temirov/aws-login/internal/ui"
	"github.com/temirov/aws-login/internal/utils"
)

const (
	dialectResolutionErrorTemplateConstant = "could not determine the shell dialect: %w"
	environmentCloseErrorTemplateConstant  = "could not finish the shell script: %w"
	logFieldProfileConstant                = "profile"
	logFieldRegionConstant                 = "region"
	logFieldDialectConstant                = "dialect"
	profileExportedMessageConstant         = "profile exported to the calling shell"
)

var commandContextAccessor = utils.NewCommandContextAccessor()

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the login command configuration.
type ConfigurationProvider func() CommandConfiguration

// EnvironmentFactory opens the shell environment for the selected dialect.
type EnvironmentFactory func(dialect shell.Dialect) (shell.Environment, error)

// TerminalDetector reports whether standard input is an interactive terminal.
type TerminalDetector func() bool

// CommandConfiguration captures the settings shared by the login commands.
type CommandConfiguration struct {
	ShellDialect string
	Registry     string
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfiguration(provider ConfigurationProvider) CommandConfiguration {
	if provider == nil {
		return CommandConfiguration{}
	}
	return provider()
}

func resolveInvocation(command *cobra.Command) *execshell.InvocationContext {
	if invocation, found := commandContextAccessor.InvocationContext(command.Context()); found {
		return invocation
	}
	return execshell.NewInvocationContext("", "", command.ErrOrStderr(), command.OutOrStdout())
}

func resolveCommandRunner(runner execshell.CommandRunner, logger *zap.Logger) execshell.CommandRunner {
	if runner != nil {
		return runner
	}
	return execshell.NewOSCommandRunner(ui.NewConsoleCommandEventLogger(logger))
}

func resolveTerminalDetector(detector TerminalDetector) TerminalDetector {
	if detector != nil {
		return detector
	}
	return func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
}

func resolveEnvironmentFactory(factory EnvironmentFactory) EnvironmentFactory {
	if factory != nil {
		return factory
	}
	return func(dialect shell.Dialect) (shell.Environment, error) {
		return shell.NewEnvironment(dialect, os.LookupEnv)
	}
}

// exportProfileSelection writes AWS_PROFILE and AWS_REGION into the script sourced by the shell wrapper.
func exportProfileSelection(logger *zap.Logger, factory EnvironmentFactory, configuredDialect string, profile string, region string) (exportError error) {
	dialect, dialectError := shell.DetectDialect(configuredDialect, os.LookupEnv)
	if dialectError != nil {
		return fmt.Errorf(dialectResolutionErrorTemplateConstant, dialectError)
	}

	environment, environmentError := resolveEnvironmentFactory(factory)(dialect)
	if environmentError != nil {
		return environmentError
	}
	defer func() {
		if closeError := environment.Close(); closeError != nil && exportError == nil {
			exportError = fmt.Errorf(environmentCloseErrorTemplateConstant, closeError)
		}
	}()

	exporter, exporterError := awscli.NewProfileExporter(environment)
	if exporterError != nil {
		return exporterError
	}
	if exportFailure := exporter.Export(profile, region); exportFailure != nil {
		return exportFailure
	}

	logger.Info(
		profileExportedMessageConstant,
		zap.String(logFieldProfileConstant, profile),
		zap.String(logFieldRegionConstant, region),
		zap.String(logFieldDialectConstant, string(dialect)),
	)
	return nil
}

func profileOrDefault(invocation *execshell.InvocationContext) string {
	if profile := invocation.Profile(); len(profile) > 0 {
		return profile
	}
	return awsconfig.DefaultProfileName
}
