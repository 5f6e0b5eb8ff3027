package inspect

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/utils"
)

var commandContextAccessor = utils.NewCommandContextAccessor()

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// EnvironmentLookup resolves environment variables. os.LookupEnv satisfies it.
type EnvironmentLookup func(name string) (string, bool)

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

func resolveInvocation(command *cobra.Command) *execshell.InvocationContext {
	if invocation, found := commandContextAccessor.InvocationContext(command.Context()); found {
		return invocation
	}
	return execshell.NewInvocationContext("", "", command.ErrOrStderr(), command.OutOrStdout())
}
