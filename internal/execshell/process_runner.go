package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/aws-login/internal/failure"
)

const (
	profileFlagConstant                     = "--profile"
	regionFlagConstant                      = "--region"
	invalidUTF8ReplacementConstant          = "\uFFFD"
	invocationContextMissingMessageConstant = "invocation context not provided"
)

// CommandName identifies an external executable.
type CommandName string

// Executables invoked by aws-login.
const (
	CommandAWS    CommandName = "aws"
	CommandDocker CommandName = "docker"
)

// ProcessRunner builds and executes a single external command invocation.
type ProcessRunner struct {
	program   string
	arguments []string
	observer  CommandEventObserver
}

// NewProcessRunner creates a runner bound to program with an empty argument list.
func NewProcessRunner(program string) *ProcessRunner {
	return &ProcessRunner{program: program, arguments: []string{}, observer: noopCommandEventObserver{}}
}

// Arg appends a single argument.
//
//	runner := execshell.NewProcessRunner("aws").Arg("sso").Arg("login")
func (runner *ProcessRunner) Arg(value string) *ProcessRunner {
	runner.arguments = append(runner.arguments, value)
	return runner
}

// WithGlobalOptions appends --profile and --region when the options carry them, profile first.
func (runner *ProcessRunner) WithGlobalOptions(options GlobalOptions) *ProcessRunner {
	if options == nil {
		return runner
	}
	if profile := options.Profile(); len(profile) > 0 {
		runner.Arg(profileFlagConstant).Arg(profile)
	}
	if region := options.Region(); len(region) > 0 {
		runner.Arg(regionFlagConstant).Arg(region)
	}
	return runner
}

// WithObserver attaches an observer notified about the command lifecycle.
func (runner *ProcessRunner) WithObserver(observer CommandEventObserver) *ProcessRunner {
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	runner.observer = observer
	return runner
}

// Program returns the executable name.
func (runner *ProcessRunner) Program() string {
	return runner.program
}

// Arguments returns a copy of the accumulated arguments in call order.
func (runner *ProcessRunner) Arguments() []string {
	return append([]string{}, runner.arguments...)
}

// Command describes the invocation built so far.
func (runner *ProcessRunner) Command() ShellCommand {
	return ShellCommand{Name: CommandName(runner.program), Arguments: runner.Arguments()}
}

// Capture runs the command to completion and returns its standard output.
// A non-zero exit yields a failure carrying the exit code and standard error.
func (runner *ProcessRunner) Capture(executionContext context.Context) (string, error) {
	command := runner.Command()
	command.Mode = ExecutionModeCapture
	runner.observer.CommandStarted(command)

	executable := exec.CommandContext(resolveContext(executionContext), runner.program, command.Arguments...)
	executable.Stdin = os.Stdin

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			result := ExecutionResult{
				StandardOutput: decodeLossy(standardOutputBuffer.Bytes()),
				StandardError:  decodeLossy(standardErrorBuffer.Bytes()),
				ExitCode:       resolveExitCode(exitError),
			}
			runner.observer.CommandCompleted(command, result)
			return "", failure.New(failure.KindNonZeroExit, result.ExitCode, result.StandardError)
		}
		runner.observer.CommandExecutionFailed(command, runError)
		return "", failure.Wrap(failure.KindSpawnFailure, failure.DefaultExitCode, runError)
	}

	result := ExecutionResult{
		StandardOutput: decodeLossy(standardOutputBuffer.Bytes()),
		StandardError:  decodeLossy(standardErrorBuffer.Bytes()),
	}
	runner.observer.CommandCompleted(command, result)
	return result.StandardOutput, nil
}

// PassThrough runs the command while relaying its standard output and standard error
// into the sinks of invocation. It returns once the process has exited and both relays
// have drained. A non-zero exit yields a failure without a message because the error
// text has already been relayed.
func (runner *ProcessRunner) PassThrough(executionContext context.Context, invocation *InvocationContext) error {
	command := runner.Command()
	command.Mode = ExecutionModePassThrough

	if invocation == nil {
		return failure.New(failure.KindConfigurationMissing, failure.DefaultExitCode, invocationContextMissingMessageConstant)
	}

	runner.observer.CommandStarted(command)

	standardOutputReader, standardOutputWriter, outputPipeError := os.Pipe()
	if outputPipeError != nil {
		runner.observer.CommandExecutionFailed(command, outputPipeError)
		return failure.Wrap(failure.KindSpawnFailure, failure.DefaultExitCode, outputPipeError)
	}
	defer standardOutputReader.Close()

	standardErrorReader, standardErrorWriter, errorPipeError := os.Pipe()
	if errorPipeError != nil {
		_ = standardOutputWriter.Close()
		runner.observer.CommandExecutionFailed(command, errorPipeError)
		return failure.Wrap(failure.KindSpawnFailure, failure.DefaultExitCode, errorPipeError)
	}
	defer standardErrorReader.Close()

	executable := exec.CommandContext(resolveContext(executionContext), runner.program, command.Arguments...)
	executable.Stdin = os.Stdin
	executable.Stdout = standardOutputWriter
	executable.Stderr = standardErrorWriter

	startError := executable.Start()

	// the child holds its own copies; closing ours lets the relays observe EOF once it exits
	_ = standardOutputWriter.Close()
	_ = standardErrorWriter.Close()

	if startError != nil {
		runner.observer.CommandExecutionFailed(command, startError)
		return failure.Wrap(failure.KindSpawnFailure, failure.DefaultExitCode, startError)
	}

	var waitError error
	var relayGroup errgroup.Group
	relayGroup.Go(func() error {
		waitError = executable.Wait()
		return nil
	})
	relayGroup.Go(NewStreamRelay(standardOutputReader, invocation.OutputSink()).Run)
	relayGroup.Go(NewStreamRelay(standardErrorReader, invocation.ErrorSink()).Run)

	relayError := relayGroup.Wait()
	if relayError != nil {
		runner.observer.CommandExecutionFailed(command, relayError)
		return relayError
	}

	if waitError != nil {
		exitError := &exec.ExitError{}
		if errors.As(waitError, &exitError) {
			result := ExecutionResult{ExitCode: resolveExitCode(exitError)}
			runner.observer.CommandCompleted(command, result)
			return failure.New(failure.KindNonZeroExit, result.ExitCode, "")
		}
		runner.observer.CommandExecutionFailed(command, waitError)
		return failure.Wrap(failure.KindSpawnFailure, failure.DefaultExitCode, waitError)
	}

	runner.observer.CommandCompleted(command, ExecutionResult{})
	return nil
}

func resolveContext(executionContext context.Context) context.Context {
	if executionContext == nil {
		return context.Background()
	}
	return executionContext
}

// resolveExitCode maps signal terminations, reported as -1, to the default exit code.
func resolveExitCode(exitError *exec.ExitError) int {
	exitCode := exitError.ExitCode()
	if exitCode <= 0 {
		return failure.DefaultExitCode
	}
	return exitCode
}

func decodeLossy(data []byte) string {
	return strings.ToValidUTF8(string(data), invalidUTF8ReplacementConstant)
}
