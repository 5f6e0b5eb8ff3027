package inspect

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/identity"
)

const (
	whoamiUseConstant        = "whoami"
	whoamiShortDescription   = "Show the AWS identity behind the active credentials"
	whoamiLongDescription    = "whoami calls STS GetCallerIdentity for the selected profile and region and prints the account, ARN and user id."
	whoamiOutputTemplate     = "Account: %s\nARN:     %s\nUserId:  %s\n"
	whoamiResolvedLogMessage = "caller identity resolved"
	logFieldAccountConstant  = "account"
	logFieldARNConstant      = "arn"
)

// WhoAmICommandBuilder assembles the whoami command.
type WhoAmICommandBuilder struct {
	LoggerProvider LoggerProvider
	ClientFactory  identity.ClientFactory
}

// Build constructs the whoami command.
func (builder *WhoAmICommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   whoamiUseConstant,
		Short: whoamiShortDescription,
		Long:  whoamiLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *WhoAmICommandBuilder) run(command *cobra.Command, arguments []string) error {
	service := identity.NewService(builder.ClientFactory)

	callerIdentity, identityError := service.WhoAmI(command.Context(), resolveInvocation(command))
	if identityError != nil {
		return identityError
	}

	resolveLogger(builder.LoggerProvider).Debug(
		whoamiResolvedLogMessage,
		zap.String(logFieldAccountConstant, callerIdentity.Account),
		zap.String(logFieldARNConstant, callerIdentity.ARN),
	)

	_, writeError := fmt.Fprintf(command.OutOrStdout(), whoamiOutputTemplate, callerIdentity.Account, callerIdentity.ARN, callerIdentity.UserID)
	return writeError
}
