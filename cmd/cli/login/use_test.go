package login_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/aws-login/cmd/cli/login"
	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/shell"
)

const (
	useAWSConfigContent          = "[default]\nregion = us-east-1\n\n[profile staging]\nregion = eu-central-1\n"
	useUnknownProfileWarning     = "profile not found in the AWS config file"
	useScriptFileNameConstant    = "aws-login.script"
	useAWSConfigFileNameConstant = "config"
)

func writeAWSConfig(testInstance *testing.T) string {
	testInstance.Helper()
	configPath := filepath.Join(testInstance.TempDir(), useAWSConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configPath, []byte(useAWSConfigContent), 0o600))
	return configPath
}

func TestUseCommandWritesExportsToScript(testInstance *testing.T) {
	scriptPath := filepath.Join(testInstance.TempDir(), useScriptFileNameConstant)
	testInstance.Setenv(shell.ScriptPathEnvironmentVariable, scriptPath)

	core, recordedLogs := observer.New(zapcore.WarnLevel)
	builder := login.UseCommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.New(core) },
		ConfigurationProvider: func() login.CommandConfiguration {
			return login.CommandConfiguration{ShellDialect: "zsh"}
		},
		ConfigFilePath: writeAWSConfig(testInstance),
	}

	invocation := execshell.NewInvocationContext("", "eu-central-1", nil, nil)
	_, executionError := executeCommand(testInstance, buildCommand(testInstance, builder.Build), invocation, "staging")
	require.NoError(testInstance, executionError)

	scriptContent, readError := os.ReadFile(scriptPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "export AWS_PROFILE=\"staging\"\nexport AWS_REGION=\"eu-central-1\"\n", string(scriptContent))
	require.Zero(testInstance, recordedLogs.Len())
}

func TestUseCommandWarnsAboutUnknownProfile(testInstance *testing.T) {
	recorder := &environmentRecorder{}
	core, recordedLogs := observer.New(zapcore.WarnLevel)
	builder := login.UseCommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.New(core) },
		ConfigurationProvider: func() login.CommandConfiguration {
			return login.CommandConfiguration{ShellDialect: "fish"}
		},
		EnvironmentFactory: recorder.open,
		ConfigFilePath:     writeAWSConfig(testInstance),
	}

	_, executionError := executeCommand(testInstance, buildCommand(testInstance, builder.Build), nil, "sandbox")

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, 1, recordedLogs.FilterMessage(useUnknownProfileWarning).Len())
	require.Len(testInstance, recorder.environments, 1)
	require.Equal(testInstance, map[string]string{"AWS_PROFILE": "sandbox"}, recorder.environments[0].assignments)
}

func TestUseCommandRequiresScriptVariable(testInstance *testing.T) {
	testInstance.Setenv(shell.ScriptPathEnvironmentVariable, "")
	builder := login.UseCommandBuilder{
		ConfigurationProvider: func() login.CommandConfiguration {
			return login.CommandConfiguration{ShellDialect: "bash"}
		},
		ConfigFilePath: writeAWSConfig(testInstance),
	}

	_, executionError := executeCommand(testInstance, buildCommand(testInstance, builder.Build), nil, "staging")

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), shell.ScriptPathEnvironmentVariable)
}

func TestUseCommandRequiresProfileArgument(testInstance *testing.T) {
	builder := login.UseCommandBuilder{}

	_, executionError := executeCommand(testInstance, buildCommand(testInstance, builder.Build), nil)

	require.Error(testInstance, executionError)
}
