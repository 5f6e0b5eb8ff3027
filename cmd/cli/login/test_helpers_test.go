package login_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/shell"
	"github.com/temirov/aws-login/internal/utils"
)

type stubCommandRunner struct {
	captured       []execshell.ShellCommand
	passedThrough  []execshell.ShellCommand
	captureOutputs map[string]string
	passThroughErr error
}

func (runner *stubCommandRunner) Capture(_ context.Context, command execshell.ShellCommand) (string, error) {
	runner.captured = append(runner.captured, command)
	return runner.captureOutputs[strings.Join(command.Arguments, " ")], nil
}

func (runner *stubCommandRunner) PassThrough(_ context.Context, command execshell.ShellCommand, _ *execshell.InvocationContext) error {
	runner.passedThrough = append(runner.passedThrough, command)
	return runner.passThroughErr
}

type recordingEnvironment struct {
	dialect     shell.Dialect
	assignments map[string]string
	closed      bool
}

func newRecordingEnvironment(dialect shell.Dialect) *recordingEnvironment {
	return &recordingEnvironment{dialect: dialect, assignments: map[string]string{}}
}

func (environment *recordingEnvironment) Dialect() shell.Dialect {
	return environment.dialect
}

func (environment *recordingEnvironment) SetVar(name string, value string) error {
	environment.assignments[name] = value
	return nil
}

func (environment *recordingEnvironment) Close() error {
	environment.closed = true
	return nil
}

type environmentRecorder struct {
	environments []*recordingEnvironment
}

func (recorder *environmentRecorder) open(dialect shell.Dialect) (shell.Environment, error) {
	environment := newRecordingEnvironment(dialect)
	recorder.environments = append(recorder.environments, environment)
	return environment, nil
}

func executeCommand(testInstance *testing.T, command *cobra.Command, invocation *execshell.InvocationContext, arguments ...string) (string, error) {
	testInstance.Helper()

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	if arguments == nil {
		arguments = []string{}
	}
	command.SetArgs(arguments)

	executionContext := context.Background()
	if invocation != nil {
		executionContext = utils.NewCommandContextAccessor().WithInvocationContext(executionContext, invocation)
	}
	command.SetContext(executionContext)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func buildCommand(testInstance *testing.T, build func() (*cobra.Command, error)) *cobra.Command {
	testInstance.Helper()
	command, buildError := build()
	require.NoError(testInstance, buildError)
	return command
}

func joinArguments(command execshell.ShellCommand) string {
	return strings.Join(command.Arguments, " ")
}
