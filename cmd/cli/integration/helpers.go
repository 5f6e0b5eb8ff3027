package integration

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/shell"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const (
	dialectResolutionErrorTemplateConstant = "could not determine the shell dialect: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the shell integration configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandConfiguration captures the shell integration settings.
type CommandConfiguration struct {
	ShellDialect  string
	StartupScript string
	BinaryName    string
}

// SetupDependencies carries the collaborators used to construct a shell.Setup.
type SetupDependencies struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	EnvironmentLookup     shell.EnvironmentLookup
	HomeExpander          *pathutils.HomeExpander
}

func (dependencies SetupDependencies) logger() *zap.Logger {
	if dependencies.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := dependencies.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (dependencies SetupDependencies) setup() (shell.Setup, error) {
	configuration := CommandConfiguration{}
	if dependencies.ConfigurationProvider != nil {
		configuration = dependencies.ConfigurationProvider()
	}

	lookup := dependencies.EnvironmentLookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	dialect, dialectError := shell.DetectDialect(configuration.ShellDialect, lookup)
	if dialectError != nil {
		return nil, fmt.Errorf(dialectResolutionErrorTemplateConstant, dialectError)
	}

	return shell.NewSetup(dialect, shell.SetupOptions{
		BinaryName:        configuration.BinaryName,
		StartupScriptPath: configuration.StartupScript,
		Lookup:            lookup,
		HomeExpander:      dependencies.HomeExpander,
	})
}
