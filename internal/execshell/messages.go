package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	profileSuffixTemplateConstant           = " (profile %s)"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	redactedValueConstant                   = "********"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	awsConfigureSubcommandNameConstant        = "configure"
	awsConfigureGetSubcommandNameConstant     = "get"
	awsConfigureSSOSubcommandNameConstant     = "sso"
	awsSSOSubcommandNameConstant              = "sso"
	awsSSOLoginSubcommandNameConstant         = "login"
	awsECRSubcommandNameConstant              = "ecr"
	awsECRLoginPasswordSubcommandNameConstant = "get-login-password"
	awsSTSSubcommandNameConstant              = "sts"
	awsSTSCallerIdentitySubcommandConstant    = "get-caller-identity"
	dockerLoginSubcommandNameConstant         = "login"
	dockerPasswordFlagConstant                = "--password"
	dockerPasswordShortFlagConstant           = "-p"
)

const (
	awsSettingProbeStartTemplateConstant            = "Reading AWS CLI setting %s%s"
	awsSettingProbeSuccessTemplateConstant          = "Read AWS CLI setting %s%s"
	awsSettingProbeFailureTemplateConstant          = "AWS CLI setting %s%s is not available (exit code %d%s)"
	awsSettingProbeExecutionFailureTemplateConstant = "Unable to read AWS CLI setting %s%s: %s"
	awsSSOLoginStartTemplateConstant                = "Logging in through AWS SSO%s"
	awsSSOLoginSuccessTemplateConstant              = "Logged in through AWS SSO%s"
	awsSSOLoginFailureTemplateConstant              = "AWS SSO login%s failed (exit code %d%s)"
	awsSSOLoginExecutionFailureTemplateConstant     = "Unable to log in through AWS SSO%s: %s"
	awsConfigureSSOStartTemplateConstant            = "Configuring AWS CLI profile for SSO%s"
	awsConfigureSSOSuccessTemplateConstant          = "Configured AWS CLI profile for SSO%s"
	awsConfigureSSOFailureTemplateConstant          = "Failed to configure AWS CLI profile for SSO%s (exit code %d%s)"
	awsConfigureSSOExecutionFailureTemplateConstant = "Unable to configure AWS CLI profile for SSO%s: %s"
	awsECRPasswordStartTemplateConstant             = "Requesting ECR login password%s"
	awsECRPasswordSuccessTemplateConstant           = "Received ECR login password%s"
	awsECRPasswordFailureTemplateConstant           = "Failed to request ECR login password%s (exit code %d%s)"
	awsECRPasswordExecutionFailureTemplateConstant  = "Unable to request ECR login password%s: %s"
	awsCallerIdentityStartTemplateConstant          = "Resolving AWS account%s"
	awsCallerIdentitySuccessTemplateConstant        = "Resolved AWS account%s"
	awsCallerIdentityFailureTemplateConstant        = "Failed to resolve AWS account%s (exit code %d%s)"
	awsCallerIdentityExecutionFailureTemplateConst  = "Unable to resolve AWS account%s: %s"
	dockerLoginStartTemplateConstant                = "Logging Docker into %s"
	dockerLoginSuccessTemplateConstant              = "Docker logged into %s"
	dockerLoginFailureTemplateConstant              = "Docker login to %s failed (exit code %d%s)"
	dockerLoginExecutionFailureTemplateConstant     = "Unable to log Docker into %s: %s"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandAWS:
		return formatter.describeAWSMessage(command, result, failure, stage)
	case CommandDocker:
		return formatter.describeDockerMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeAWSMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positionalArguments := formatter.positionalArguments(command.Arguments)
	profileSuffix := formatter.formatProfileSuffix(command.Arguments)

	switch {
	case formatter.matchesSubcommand(positionalArguments, awsConfigureSubcommandNameConstant, awsConfigureGetSubcommandNameConstant):
		settingName := formatter.ensureValue(formatter.argumentAtIndex(positionalArguments, 2))
		return formatter.renderStage(stageTemplates{
			start:            awsSettingProbeStartTemplateConstant,
			success:          awsSettingProbeSuccessTemplateConstant,
			failure:          awsSettingProbeFailureTemplateConstant,
			executionFailure: awsSettingProbeExecutionFailureTemplateConstant,
		}, []any{settingName, profileSuffix}, result, failure, stage)
	case formatter.matchesSubcommand(positionalArguments, awsConfigureSubcommandNameConstant, awsConfigureSSOSubcommandNameConstant):
		return formatter.renderStage(stageTemplates{
			start:            awsConfigureSSOStartTemplateConstant,
			success:          awsConfigureSSOSuccessTemplateConstant,
			failure:          awsConfigureSSOFailureTemplateConstant,
			executionFailure: awsConfigureSSOExecutionFailureTemplateConstant,
		}, []any{profileSuffix}, result, failure, stage)
	case formatter.matchesSubcommand(positionalArguments, awsSSOSubcommandNameConstant, awsSSOLoginSubcommandNameConstant):
		return formatter.renderStage(stageTemplates{
			start:            awsSSOLoginStartTemplateConstant,
			success:          awsSSOLoginSuccessTemplateConstant,
			failure:          awsSSOLoginFailureTemplateConstant,
			executionFailure: awsSSOLoginExecutionFailureTemplateConstant,
		}, []any{profileSuffix}, result, failure, stage)
	case formatter.matchesSubcommand(positionalArguments, awsECRSubcommandNameConstant, awsECRLoginPasswordSubcommandNameConstant):
		return formatter.renderStage(stageTemplates{
			start:            awsECRPasswordStartTemplateConstant,
			success:          awsECRPasswordSuccessTemplateConstant,
			failure:          awsECRPasswordFailureTemplateConstant,
			executionFailure: awsECRPasswordExecutionFailureTemplateConstant,
		}, []any{profileSuffix}, result, failure, stage)
	case formatter.matchesSubcommand(positionalArguments, awsSTSSubcommandNameConstant, awsSTSCallerIdentitySubcommandConstant):
		return formatter.renderStage(stageTemplates{
			start:            awsCallerIdentityStartTemplateConstant,
			success:          awsCallerIdentitySuccessTemplateConstant,
			failure:          awsCallerIdentityFailureTemplateConstant,
			executionFailure: awsCallerIdentityExecutionFailureTemplateConst,
		}, []any{profileSuffix}, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeDockerMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positionalArguments := formatter.positionalArguments(command.Arguments)
	if !formatter.matchesSubcommand(positionalArguments, dockerLoginSubcommandNameConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	registryHost := formatter.ensureValue(formatter.argumentAtIndex(positionalArguments, 1))
	return formatter.renderStage(stageTemplates{
		start:            dockerLoginStartTemplateConstant,
		success:          dockerLoginSuccessTemplateConstant,
		failure:          dockerLoginFailureTemplateConstant,
		executionFailure: dockerLoginExecutionFailureTemplateConstant,
	}, []any{registryHost}, result, failure, stage)
}

func (formatter CommandMessageFormatter) renderStage(templates stageTemplates, subjects []any, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjects...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjects...)
	case messageStageFailure:
		arguments := append(append([]any{}, subjects...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, arguments...)
	case messageStageExecutionFailure:
		arguments := append(append([]any{}, subjects...), formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, arguments...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

// FormatCommandLabel renders the command line with secret values redacted.
func (formatter CommandMessageFormatter) FormatCommandLabel(command ShellCommand) string {
	return formatter.formatCommandLabel(command)
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	commandParts = append(commandParts, formatter.redactArguments(command.Arguments)...)
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) redactArguments(arguments []string) []string {
	redacted := make([]string, 0, len(arguments))
	redactNext := false
	for _, argument := range arguments {
		if redactNext {
			redacted = append(redacted, redactedValueConstant)
			redactNext = false
			continue
		}
		trimmedArgument := strings.TrimSpace(argument)
		if trimmedArgument == dockerPasswordFlagConstant || trimmedArgument == dockerPasswordShortFlagConstant {
			redactNext = true
		}
		if strings.HasPrefix(trimmedArgument, dockerPasswordFlagConstant+"=") {
			redacted = append(redacted, dockerPasswordFlagConstant+"="+redactedValueConstant)
			continue
		}
		redacted = append(redacted, argument)
	}
	return redacted
}

func (formatter CommandMessageFormatter) formatProfileSuffix(arguments []string) string {
	profileName := findFlagValue(arguments, profileFlagConstant)
	if len(profileName) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(profileSuffixTemplateConstant, profileName)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// positionalArguments drops flags together with their values. Every flag used by
// aws-login's commands takes exactly one value.
func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	skipNext := false
	for _, argument := range arguments {
		if skipNext {
			skipNext = false
			continue
		}
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, "-") {
			if !strings.Contains(trimmedArgument, "=") {
				skipNext = true
			}
			continue
		}
		positional = append(positional, trimmedArgument)
	}
	return positional
}

func (formatter CommandMessageFormatter) matchesSubcommand(positionalArguments []string, subcommands ...string) bool {
	if len(positionalArguments) < len(subcommands) {
		return false
	}
	for subcommandIndex, subcommand := range subcommands {
		if positionalArguments[subcommandIndex] != subcommand {
			return false
		}
	}
	return true
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

func findFlagValue(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag {
			return strings.TrimSpace(arguments[argumentIndex+1])
		}
	}
	return emptyStringConstant
}
