package awscli_test

import (
	"context"
	"strings"

	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/shell"
)

type recordingCommandRunner struct {
	captured       []execshell.ShellCommand
	passedThrough  []execshell.ShellCommand
	captureOutputs map[string]string
	captureErrors  map[string]error
	passThroughErr error
}

func (runner *recordingCommandRunner) Capture(_ context.Context, command execshell.ShellCommand) (string, error) {
	runner.captured = append(runner.captured, command)
	key := strings.Join(command.Arguments, " ")
	if captureError, found := runner.captureErrors[key]; found {
		return "", captureError
	}
	return runner.captureOutputs[key], nil
}

func (runner *recordingCommandRunner) PassThrough(_ context.Context, command execshell.ShellCommand, _ *execshell.InvocationContext) error {
	runner.passedThrough = append(runner.passedThrough, command)
	return runner.passThroughErr
}

type recordingEnvironment struct {
	assignments [][2]string
	setError    error
}

func (environment *recordingEnvironment) SetVar(name string, value string) error {
	if environment.setError != nil {
		return environment.setError
	}
	environment.assignments = append(environment.assignments, [2]string{name, value})
	return nil
}

func (environment *recordingEnvironment) Dialect() shell.Dialect {
	return shell.DialectBash
}

func (environment *recordingEnvironment) Close() error {
	return nil
}
