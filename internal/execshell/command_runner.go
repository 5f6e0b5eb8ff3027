package execshell

import (
	"context"
)

// CommandRunner executes described commands in either execution mode.
type CommandRunner interface {
	Capture(executionContext context.Context, command ShellCommand) (string, error)
	PassThrough(executionContext context.Context, command ShellCommand, invocation *InvocationContext) error
}

// OSCommandRunner executes commands as operating system processes through ProcessRunner.
type OSCommandRunner struct {
	observer CommandEventObserver
}

// NewOSCommandRunner constructs a runner reporting lifecycle events to observer. A nil observer discards events.
func NewOSCommandRunner(observer CommandEventObserver) *OSCommandRunner {
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	return &OSCommandRunner{observer: observer}
}

// Capture runs command and returns its standard output.
func (runner *OSCommandRunner) Capture(executionContext context.Context, command ShellCommand) (string, error) {
	return runner.processRunner(command).Capture(executionContext)
}

// PassThrough runs command while relaying its output into the invocation sinks.
func (runner *OSCommandRunner) PassThrough(executionContext context.Context, command ShellCommand, invocation *InvocationContext) error {
	return runner.processRunner(command).PassThrough(executionContext, invocation)
}

func (runner *OSCommandRunner) processRunner(command ShellCommand) *ProcessRunner {
	processRunner := NewProcessRunner(string(command.Name)).WithObserver(runner.observer)
	for _, argument := range command.Arguments {
		processRunner.Arg(argument)
	}
	return processRunner
}
