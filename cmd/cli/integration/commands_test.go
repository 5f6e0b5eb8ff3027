package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/aws-login/cmd/cli/integration"
	"github.com/temirov/aws-login/internal/shell"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const (
	statusTemplateConstant    = "shell: %s\nstartup script: %s\ninstalled: %t\n"
	bashHookLineConstant      = "eval \"$(aws-login shell init --shell bash)\""
	alreadyInstalledSubstring = "aws-login is already installed in "
)

func newDependencies(testInstance *testing.T, configuration integration.CommandConfiguration, environment map[string]string) (integration.SetupDependencies, string) {
	testInstance.Helper()
	homeDirectory := testInstance.TempDir()
	return integration.SetupDependencies{
		ConfigurationProvider: func() integration.CommandConfiguration { return configuration },
		EnvironmentLookup: func(name string) (string, bool) {
			value, found := environment[name]
			return value, found
		},
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return homeDirectory, nil
		}),
	}, homeDirectory
}

func runGroup(testInstance *testing.T, dependencies integration.SetupDependencies, arguments ...string) (string, error) {
	testInstance.Helper()
	builder := integration.CommandGroupBuilder{SetupDependencies: dependencies}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)
	command.SetContext(context.Background())

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestInitPrintsWrapperForConfiguredDialect(testInstance *testing.T) {
	dependencies, _ := newDependencies(testInstance, integration.CommandConfiguration{ShellDialect: "fish"}, nil)

	output, executionError := runGroup(testInstance, dependencies, "init")

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "function aws-login")
	require.Contains(testInstance, output, "AWS_LOGIN_SHELL=fish")
	require.NotContains(testInstance, output, "{AWS_LOGIN}")
}

func TestInitDetectsDialectFromEnvironment(testInstance *testing.T) {
	dependencies, _ := newDependencies(testInstance, integration.CommandConfiguration{}, map[string]string{"SHELL": "/usr/bin/zsh"})

	output, executionError := runGroup(testInstance, dependencies, "init")

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "AWS_LOGIN_SHELL=zsh")
}

func TestInitFailsWithoutDialect(testInstance *testing.T) {
	dependencies, _ := newDependencies(testInstance, integration.CommandConfiguration{}, nil)

	_, executionError := runGroup(testInstance, dependencies, "init")

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "could not determine the shell dialect")
}

func TestInstallAppendsHookOnce(testInstance *testing.T) {
	dependencies, homeDirectory := newDependencies(testInstance, integration.CommandConfiguration{ShellDialect: "bash"}, nil)
	startupScriptPath := filepath.Join(homeDirectory, ".bashrc")

	firstOutput, firstError := runGroup(testInstance, dependencies, "install")
	require.NoError(testInstance, firstError)
	require.Contains(testInstance, firstOutput, startupScriptPath)

	secondOutput, secondError := runGroup(testInstance, dependencies, "install")
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, alreadyInstalledSubstring+startupScriptPath+"\n", secondOutput)

	contents, readError := os.ReadFile(startupScriptPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, 1, strings.Count(string(contents), shell.InstalledMarker))
	require.Contains(testInstance, string(contents), bashHookLineConstant)
}

func TestStatusReportsInstallState(testInstance *testing.T) {
	startupDirectory := testInstance.TempDir()
	startupScriptPath := filepath.Join(startupDirectory, "custom.zshrc")
	dependencies, _ := newDependencies(testInstance, integration.CommandConfiguration{
		ShellDialect:  "zsh",
		StartupScript: startupScriptPath,
	}, nil)

	before, beforeError := runGroup(testInstance, dependencies, "status")
	require.NoError(testInstance, beforeError)
	require.Equal(testInstance, formatStatus("zsh", startupScriptPath, false), before)

	_, installError := runGroup(testInstance, dependencies, "install")
	require.NoError(testInstance, installError)

	after, afterError := runGroup(testInstance, dependencies, "status")
	require.NoError(testInstance, afterError)
	require.Equal(testInstance, formatStatus("zsh", startupScriptPath, true), after)
}

func TestGroupRegistersSubcommands(testInstance *testing.T) {
	builder := integration.CommandGroupBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	names := make([]string, 0, len(command.Commands()))
	for _, subcommand := range command.Commands() {
		names = append(names, subcommand.Name())
	}
	require.ElementsMatch(testInstance, []string{"init", "install", "status"}, names)
}

func formatStatus(dialect string, startupScriptPath string, installed bool) string {
	return fmt.Sprintf(statusTemplateConstant, dialect, startupScriptPath, installed)
}
