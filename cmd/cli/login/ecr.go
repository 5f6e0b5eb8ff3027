package login

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/awscli"
	"github.com/temirov/aws-login/internal/execshell"
)

const (
	ecrUseConstant               = "ecr"
	ecrShortDescriptionConstant  = "Log Docker in to Amazon ECR"
	ecrLongDescriptionConstant   = "ecr fetches an ECR login password with the AWS CLI and passes it to `docker login`. The registry defaults to the private registry of the caller's account and region."
	ecrRegistryFlagNameConstant  = "registry"
	ecrRegistryFlagUsageConstant = "Registry host, for example 123456789012.dkr.ecr.eu-west-1.amazonaws.com"
	ecrCompletedMessageConstant  = "Docker logged in to ECR"
	logFieldRegistryConstant     = "registry"
)

// ECRCommandBuilder assembles the ecr command.
type ECRCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	CommandRunner         execshell.CommandRunner
}

// Build constructs the ecr command.
func (builder *ECRCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   ecrUseConstant,
		Short: ecrShortDescriptionConstant,
		Long:  ecrLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(ecrRegistryFlagNameConstant, "", ecrRegistryFlagUsageConstant)

	return command, nil
}

func (builder *ECRCommandBuilder) run(command *cobra.Command, arguments []string) error {
	registry := resolveConfiguration(builder.ConfigurationProvider).Registry
	if command.Flags().Changed(ecrRegistryFlagNameConstant) {
		registry, _ = command.Flags().GetString(ecrRegistryFlagNameConstant)
	}

	logger := resolveLogger(builder.LoggerProvider)
	service, serviceError := awscli.NewRegistryService(awscli.ServiceDependencies{
		CommandRunner: resolveCommandRunner(builder.CommandRunner, logger),
	})
	if serviceError != nil {
		return serviceError
	}

	registryHost, loginError := service.Login(command.Context(), resolveInvocation(command), awscli.RegistryOptions{Registry: registry})
	if loginError != nil {
		return loginError
	}

	logger.Info(ecrCompletedMessageConstant, zap.String(logFieldRegistryConstant, registryHost))
	return nil
}
