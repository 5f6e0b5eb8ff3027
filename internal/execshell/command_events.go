package execshell

// ExecutionMode identifies how a command's output streams are handled.
type ExecutionMode string

// Supported execution modes.
const (
	ExecutionModeCapture     ExecutionMode = "capture"
	ExecutionModePassThrough ExecutionMode = "pass_through"
)

// ShellCommand describes an external program invocation.
type ShellCommand struct {
	Name      CommandName
	Arguments []string
	Mode      ExecutionMode
}

// ExecutionResult captures the observable results of a finished command. Pass-through commands leave the output fields empty.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandEventObserver receives lifecycle notifications for external command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an exit status from being collected.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
