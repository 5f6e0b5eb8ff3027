package integration

import "github.com/spf13/cobra"

const (
	groupUseConstant      = "shell"
	groupShortDescription = "Integrate aws-login with fish, bash or zsh"
	groupLongDescription  = "shell groups the subcommands that print, install and inspect the wrapper function letting aws-login change the calling shell's environment."
)

// CommandGroupBuilder assembles the shell command group.
type CommandGroupBuilder struct {
	SetupDependencies
}

// Build constructs the shell command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	initBuilder := InitCommandBuilder{SetupDependencies: builder.SetupDependencies}
	initCommand, initError := initBuilder.Build()
	if initError == nil {
		command.AddCommand(initCommand)
	}

	installBuilder := InstallCommandBuilder{SetupDependencies: builder.SetupDependencies}
	installCommand, installError := installBuilder.Build()
	if installError == nil {
		command.AddCommand(installCommand)
	}

	statusBuilder := StatusCommandBuilder{SetupDependencies: builder.SetupDependencies}
	statusCommand, statusError := statusBuilder.Build()
	if statusError == nil {
		command.AddCommand(statusCommand)
	}

	return command, nil
}
