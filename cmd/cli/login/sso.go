package login

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/awscli"
	"github.com/temirov/aws-login/internal/execshell"
)

const (
	ssoUseConstant                   = "sso"
	ssoShortDescriptionConstant      = "Log in to AWS through IAM Identity Center"
	ssoLongDescriptionConstant       = "sso runs `aws sso login` when the selected profile carries every SSO setting and `aws configure sso` otherwise."
	ssoExportFlagNameConstant        = "export"
	ssoExportFlagUsageConstant       = "Export AWS_PROFILE and AWS_REGION into the calling shell after a successful login"
	ssoNonInteractiveWarningConstant = "standard input is not a terminal; AWS SSO prompts may not work"
	ssoCompletedMessageConstant      = "AWS SSO flow completed"
	logFieldActionConstant           = "action"
)

// SSOCommandBuilder assembles the sso command.
type SSOCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	CommandRunner         execshell.CommandRunner
	EnvironmentFactory    EnvironmentFactory
	TerminalDetector      TerminalDetector
}

// Build constructs the sso command.
func (builder *SSOCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   ssoUseConstant,
		Short: ssoShortDescriptionConstant,
		Long:  ssoLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().Bool(ssoExportFlagNameConstant, false, ssoExportFlagUsageConstant)

	return command, nil
}

func (builder *SSOCommandBuilder) run(command *cobra.Command, arguments []string) error {
	exportSelection, _ := command.Flags().GetBool(ssoExportFlagNameConstant)

	logger := resolveLogger(builder.LoggerProvider)
	if !resolveTerminalDetector(builder.TerminalDetector)() {
		logger.Warn(ssoNonInteractiveWarningConstant)
	}

	invocation := resolveInvocation(command)
	service, serviceError := awscli.NewSSOService(awscli.ServiceDependencies{
		CommandRunner: resolveCommandRunner(builder.CommandRunner, logger),
	})
	if serviceError != nil {
		return serviceError
	}

	action, loginError := service.Login(command.Context(), invocation)
	if loginError != nil {
		return loginError
	}

	profile := profileOrDefault(invocation)
	logger.Info(
		ssoCompletedMessageConstant,
		zap.String(logFieldActionConstant, string(action)),
		zap.String(logFieldProfileConstant, profile),
	)

	if !exportSelection {
		return nil
	}

	configuration := resolveConfiguration(builder.ConfigurationProvider)
	return exportProfileSelection(logger, builder.EnvironmentFactory, configuration.ShellDialect, profile, invocation.Region())
}
