package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/execshell"
)

const (
	commandFieldNameConstant  = "command"
	modeFieldNameConstant     = "mode"
	exitCodeFieldNameConstant = "exit_code"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver by logging command start notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command), eventLogger.commandFields(command)...)
}

// CommandCompleted implements execshell.CommandEventObserver by logging command completion notifications.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command), eventLogger.commandFields(command)...)
		return
	}
	fields := append(eventLogger.commandFields(command), zap.Int(exitCodeFieldNameConstant, result.ExitCode))
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result), fields...)
}

// CommandExecutionFailed implements execshell.CommandEventObserver by logging unexpected execution failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure), eventLogger.commandFields(command)...)
}

func (eventLogger *ConsoleCommandEventLogger) commandFields(command execshell.ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(commandFieldNameConstant, eventLogger.formatter.FormatCommandLabel(command)),
		zap.String(modeFieldNameConstant, string(command.Mode)),
	}
}
