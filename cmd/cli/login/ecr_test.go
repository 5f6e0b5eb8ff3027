package login_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/aws-login/cmd/cli/login"
	"github.com/temirov/aws-login/internal/execshell"
)

const (
	ecrPasswordProbeConstant = "--region us-east-2 ecr get-login-password"
	ecrAccountProbeConstant  = "--region us-east-2 sts get-caller-identity --query Account --output text"
	ecrConfiguredRegistry    = "configured.example.com"
)

func TestECRCommandRegistrySelection(testInstance *testing.T) {
	testCases := []struct {
		name         string
		arguments    []string
		registry     string
		expectedHost string
	}{
		{
			name:         "flag_overrides_configuration",
			arguments:    []string{"--registry", "https://flag.example.com/"},
			registry:     ecrConfiguredRegistry,
			expectedHost: "flag.example.com",
		},
		{
			name:         "configured_registry",
			registry:     ecrConfiguredRegistry,
			expectedHost: ecrConfiguredRegistry,
		},
		{
			name:         "derived_registry",
			expectedHost: "111122223333.dkr.ecr.us-east-2.amazonaws.com",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			runner := &stubCommandRunner{captureOutputs: map[string]string{
				ecrPasswordProbeConstant: "secret-token\n",
				ecrAccountProbeConstant:  "111122223333\n",
			}}
			builder := login.ECRCommandBuilder{
				ConfigurationProvider: func() login.CommandConfiguration {
					return login.CommandConfiguration{Registry: testCase.registry}
				},
				CommandRunner: runner,
			}

			invocation := execshell.NewInvocationContext("", "us-east-2", nil, nil)
			_, executionError := executeCommand(testInstance, buildCommand(testInstance, builder.Build), invocation, testCase.arguments...)

			require.NoError(testInstance, executionError)
			require.Len(testInstance, runner.passedThrough, 1)
			dockerCommand := runner.passedThrough[0]
			require.Equal(testInstance, execshell.CommandDocker, dockerCommand.Name)
			require.Equal(testInstance, []string{"login", "--username", "AWS", "--password", "secret-token", testCase.expectedHost}, dockerCommand.Arguments)
		})
	}
}

func TestECRCommandFailsWithoutPassword(testInstance *testing.T) {
	runner := &stubCommandRunner{}
	builder := login.ECRCommandBuilder{CommandRunner: runner}

	_, executionError := executeCommand(testInstance, buildCommand(testInstance, builder.Build), nil)

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "could not retrieve the ECR login password")
	require.Empty(testInstance, runner.passedThrough)
}
