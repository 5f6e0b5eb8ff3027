package integration

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	initUseConstant                 = "init"
	initShortDescription            = "Print the shell integration script"
	initLongDescription             = "init prints the wrapper function for the selected shell. The startup hook evaluates it on every new shell."
	installUseConstant              = "install"
	installShortDescription         = "Add the shell integration hook to the startup script"
	installLongDescription          = "install appends the aws-login hook to the startup script of the selected shell unless it is already there."
	statusUseConstant               = "status"
	statusShortDescription          = "Report whether the shell integration is installed"
	installedMessageTemplate        = "Installed the aws-login hook into %s\nOpen a new shell or source the file to activate it.\n"
	alreadyInstalledMessageTemplate = "aws-login is already installed in %s\n"
	statusMessageTemplate           = "shell: %s\nstartup script: %s\ninstalled: %t\n"
	hookInstalledLogMessage         = "shell hook installed"
	logFieldDialectConstant         = "dialect"
	logFieldStartupScriptConstant   = "startup_script"
)

// InitCommandBuilder assembles the shell init command.
type InitCommandBuilder struct {
	SetupDependencies
}

// Build constructs the shell init command.
func (builder *InitCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   initUseConstant,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *InitCommandBuilder) run(command *cobra.Command, arguments []string) error {
	setup, setupError := builder.setup()
	if setupError != nil {
		return setupError
	}

	script, scriptError := setup.GenerateScript()
	if scriptError != nil {
		return scriptError
	}

	_, writeError := fmt.Fprint(command.OutOrStdout(), script)
	return writeError
}

// InstallCommandBuilder assembles the shell install command.
type InstallCommandBuilder struct {
	SetupDependencies
}

// Build constructs the shell install command.
func (builder *InstallCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   installUseConstant,
		Short: installShortDescription,
		Long:  installLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *InstallCommandBuilder) run(command *cobra.Command, arguments []string) error {
	setup, setupError := builder.setup()
	if setupError != nil {
		return setupError
	}

	installed, statusError := setup.IsInstalled()
	if statusError != nil {
		return statusError
	}
	if installed {
		_, writeError := fmt.Fprintf(command.OutOrStdout(), alreadyInstalledMessageTemplate, setup.StartupScriptPath())
		return writeError
	}

	if installError := setup.Install(); installError != nil {
		return installError
	}

	builder.logger().Info(
		hookInstalledLogMessage,
		zap.String(logFieldDialectConstant, string(setup.Dialect())),
		zap.String(logFieldStartupScriptConstant, setup.StartupScriptPath()),
	)
	_, writeError := fmt.Fprintf(command.OutOrStdout(), installedMessageTemplate, setup.StartupScriptPath())
	return writeError
}

// StatusCommandBuilder assembles the shell status command.
type StatusCommandBuilder struct {
	SetupDependencies
}

// Build constructs the shell status command.
func (builder *StatusCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   statusUseConstant,
		Short: statusShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *StatusCommandBuilder) run(command *cobra.Command, arguments []string) error {
	setup, setupError := builder.setup()
	if setupError != nil {
		return setupError
	}

	installed, statusError := setup.IsInstalled()
	if statusError != nil {
		return statusError
	}

	_, writeError := fmt.Fprintf(command.OutOrStdout(), statusMessageTemplate, setup.Dialect(), setup.StartupScriptPath(), installed)
	return writeError
}
