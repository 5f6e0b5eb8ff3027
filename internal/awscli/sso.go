package awscli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/aws-login/internal/awsconfig"
	"github.com/temirov/aws-login/internal/execshell"
)

const (
	commandRunnerMissingMessageConstant = "command runner not configured"
	ssoLoginFailureTemplateConstant     = "could not log in via SSO: %w"
	ssoConfigureFailureTemplateConstant = "could not configure AWS CLI profile for SSO: %w"
)

// ErrCommandRunnerNotConfigured indicates the command runner dependency was missing.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerMissingMessageConstant)

// SSOAction identifies which aws subcommand the SSO flow ran.
type SSOAction string

// Supported SSO actions.
const (
	SSOActionLogin     SSOAction = "login"
	SSOActionConfigure SSOAction = "configure"
)

// ServiceDependencies enumerates collaborators required by the services.
type ServiceDependencies struct {
	CommandRunner execshell.CommandRunner
}

// SSOService logs into AWS through IAM Identity Center, configuring the profile first when needed.
type SSOService struct {
	runner execshell.CommandRunner
}

// NewSSOService constructs an SSOService from the provided dependencies.
func NewSSOService(dependencies ServiceDependencies) (*SSOService, error) {
	if dependencies.CommandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &SSOService{runner: dependencies.CommandRunner}, nil
}

// IsConfigured reports whether every required SSO setting of the active profile has a value.
// A failed probe counts as an absent setting.
func (service *SSOService) IsConfigured(executionContext context.Context, invocation *execshell.InvocationContext) bool {
	for _, settingName := range awsconfig.RequiredSSOSettings {
		value, probeError := service.runner.Capture(executionContext, configureGetCommand(invocation, settingName))
		if probeError != nil || len(strings.TrimSpace(value)) == 0 {
			return false
		}
	}
	return true
}

// Login runs `aws sso login` for a configured profile and `aws configure sso` otherwise.
func (service *SSOService) Login(executionContext context.Context, invocation *execshell.InvocationContext) (SSOAction, error) {
	if service.IsConfigured(executionContext, invocation) {
		loginCommand := awsCommand(invocation, ssoSubcommandConstant, ssoLoginSubcommandConstant)
		if loginError := service.runner.PassThrough(executionContext, loginCommand, invocation); loginError != nil {
			return SSOActionLogin, fmt.Errorf(ssoLoginFailureTemplateConstant, loginError)
		}
		return SSOActionLogin, nil
	}

	configureCommand := awsCommand(invocation, configureSubcommandConstant, configureSSOSubcommandConstant)
	if configureError := service.runner.PassThrough(executionContext, configureCommand, invocation); configureError != nil {
		return SSOActionConfigure, fmt.Errorf(ssoConfigureFailureTemplateConstant, configureError)
	}
	return SSOActionConfigure, nil
}
