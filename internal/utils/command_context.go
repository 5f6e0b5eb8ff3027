package utils

import (
	"context"

	"github.com/temirov/aws-login/internal/execshell"
)

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	invocationContextKeyConstant            = commandContextKey("invocation")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	if !configurationFilePathAvailable {
		return "", false
	}
	return configurationFilePath, true
}

// WithInvocationContext attaches the per-run invocation context to the provided context.
func (accessor CommandContextAccessor) WithInvocationContext(parentContext context.Context, invocation *execshell.InvocationContext) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, invocationContextKeyConstant, invocation)
}

// InvocationContext extracts the per-run invocation context from the provided context.
func (accessor CommandContextAccessor) InvocationContext(executionContext context.Context) (*execshell.InvocationContext, bool) {
	if executionContext == nil {
		return nil, false
	}
	invocation, invocationAvailable := executionContext.Value(invocationContextKeyConstant).(*execshell.InvocationContext)
	if !invocationAvailable || invocation == nil {
		return nil, false
	}
	return invocation, true
}
