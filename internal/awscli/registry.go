package awscli

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/failure"
)

const (
	registryHostTemplateConstant         = "%s.dkr.ecr.%s.amazonaws.com"
	httpsSchemePrefixConstant            = "https://"
	httpSchemePrefixConstant             = "http://"
	ecrPasswordFailureTemplateConstant   = "could not retrieve the ECR login password: %w"
	accountLookupFailureTemplateConstant = "could not determine the AWS account: %w"
	regionLookupFailureTemplateConstant  = "could not determine the AWS region: %w"
	dockerLoginFailureTemplateConstant   = "could not log Docker into %s: %w"
	emptyPasswordMessageConstant         = "aws returned an empty ECR login password"
	emptyAccountMessageConstant          = "aws returned an empty account identifier"
	regionMissingMessageConstant         = "no region configured; pass --region or set one on the profile"
)

// RegistryOptions configure an ECR login.
type RegistryOptions struct {
	// Registry overrides the registry host derived from the caller's account and region.
	Registry string
}

// RegistryService logs Docker into Amazon ECR.
type RegistryService struct {
	runner execshell.CommandRunner
}

// NewRegistryService constructs a RegistryService from the provided dependencies.
func NewRegistryService(dependencies ServiceDependencies) (*RegistryService, error) {
	if dependencies.CommandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &RegistryService{runner: dependencies.CommandRunner}, nil
}

// Login fetches an ECR password and hands it to `docker login`. It returns the registry host.
func (service *RegistryService) Login(executionContext context.Context, invocation *execshell.InvocationContext, options RegistryOptions) (string, error) {
	passwordOutput, passwordError := service.runner.Capture(executionContext, awsCommand(invocation, ecrSubcommandConstant, ecrLoginPasswordSubcommandConstant))
	if passwordError != nil {
		return "", fmt.Errorf(ecrPasswordFailureTemplateConstant, passwordError)
	}
	password := strings.TrimSpace(passwordOutput)
	if len(password) == 0 {
		return "", fmt.Errorf(ecrPasswordFailureTemplateConstant, failure.New(failure.KindNonZeroExit, failure.DefaultExitCode, emptyPasswordMessageConstant))
	}

	registryHost, registryError := service.ResolveRegistry(executionContext, invocation, options)
	if registryError != nil {
		return "", registryError
	}

	if loginError := service.runner.PassThrough(executionContext, dockerLoginCommand(password, registryHost), invocation); loginError != nil {
		return registryHost, fmt.Errorf(dockerLoginFailureTemplateConstant, registryHost, loginError)
	}
	return registryHost, nil
}

// ResolveRegistry returns the configured registry host, or derives the default private registry of the caller's account.
func (service *RegistryService) ResolveRegistry(executionContext context.Context, invocation *execshell.InvocationContext, options RegistryOptions) (string, error) {
	if configuredRegistry := normalizeRegistryHost(options.Registry); len(configuredRegistry) > 0 {
		return configuredRegistry, nil
	}

	accountOutput, accountError := service.runner.Capture(executionContext, awsCommand(
		invocation,
		stsSubcommandConstant,
		stsCallerIdentitySubcommandConstant,
		queryFlagConstant,
		accountQueryConstant,
		outputFlagConstant,
		textOutputConstant,
	))
	if accountError != nil {
		return "", fmt.Errorf(accountLookupFailureTemplateConstant, accountError)
	}
	accountIdentifier := strings.TrimSpace(accountOutput)
	if len(accountIdentifier) == 0 {
		return "", fmt.Errorf(accountLookupFailureTemplateConstant, failure.New(failure.KindNonZeroExit, failure.DefaultExitCode, emptyAccountMessageConstant))
	}

	region := invocation.Region()
	if len(region) == 0 {
		regionOutput, regionError := service.runner.Capture(executionContext, configureGetCommand(invocation, regionSettingConstant))
		if regionError != nil {
			return "", fmt.Errorf(regionLookupFailureTemplateConstant, regionError)
		}
		region = strings.TrimSpace(regionOutput)
	}
	if len(region) == 0 {
		return "", fmt.Errorf(regionLookupFailureTemplateConstant, failure.New(failure.KindConfigurationMissing, failure.DefaultExitCode, regionMissingMessageConstant))
	}

	return fmt.Sprintf(registryHostTemplateConstant, accountIdentifier, region), nil
}

func normalizeRegistryHost(registry string) string {
	trimmedRegistry := strings.TrimSpace(registry)
	trimmedRegistry = strings.TrimPrefix(trimmedRegistry, httpsSchemePrefixConstant)
	trimmedRegistry = strings.TrimPrefix(trimmedRegistry, httpSchemePrefixConstant)
	return strings.TrimSuffix(trimmedRegistry, "/")
}
