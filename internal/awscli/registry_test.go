package awscli_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/aws-login/internal/awscli"
	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/failure"
)

func TestRegistryLoginDerivesRegistryFromAccountAndRegion(testInstance *testing.T) {
	runner := &recordingCommandRunner{captureOutputs: map[string]string{
		"--profile dev --region eu-west-1 ecr get-login-password":                                "secret-token\n",
		"--profile dev --region eu-west-1 sts get-caller-identity --query Account --output text": "111122223333\n",
	}}
	service, serviceError := awscli.NewRegistryService(awscli.ServiceDependencies{CommandRunner: runner})
	require.NoError(testInstance, serviceError)

	invocation := execshell.NewInvocationContext("dev", "eu-west-1", nil, nil)
	registryHost, loginError := service.Login(context.Background(), invocation, awscli.RegistryOptions{})

	require.NoError(testInstance, loginError)
	require.Equal(testInstance, "111122223333.dkr.ecr.eu-west-1.amazonaws.com", registryHost)
	require.Len(testInstance, runner.passedThrough, 1)
	require.Equal(testInstance, execshell.CommandDocker, runner.passedThrough[0].Name)
	require.Equal(
		testInstance,
		[]string{"login", "--username", "AWS", "--password", "secret-token", "111122223333.dkr.ecr.eu-west-1.amazonaws.com"},
		runner.passedThrough[0].Arguments,
	)
}

func TestRegistryLoginReadsRegionFromProfile(testInstance *testing.T) {
	runner := &recordingCommandRunner{captureOutputs: map[string]string{
		"ecr get-login-password":                                "token",
		"sts get-caller-identity --query Account --output text": "444455556666",
		"configure get region":                                  "us-west-2\n",
	}}
	service, serviceError := awscli.NewRegistryService(awscli.ServiceDependencies{CommandRunner: runner})
	require.NoError(testInstance, serviceError)

	registryHost, loginError := service.Login(context.Background(), execshell.NewInvocationContext("", "", nil, nil), awscli.RegistryOptions{})

	require.NoError(testInstance, loginError)
	require.Equal(testInstance, "444455556666.dkr.ecr.us-west-2.amazonaws.com", registryHost)
	require.Len(testInstance, runner.captured, 3)
}

func TestRegistryLoginUsesConfiguredRegistry(testInstance *testing.T) {
	runner := &recordingCommandRunner{captureOutputs: map[string]string{"ecr get-login-password": "token"}}
	service, serviceError := awscli.NewRegistryService(awscli.ServiceDependencies{CommandRunner: runner})
	require.NoError(testInstance, serviceError)

	registryHost, loginError := service.Login(
		context.Background(),
		execshell.NewInvocationContext("", "", nil, nil),
		awscli.RegistryOptions{Registry: "https://public.example.com/"},
	)

	require.NoError(testInstance, loginError)
	require.Equal(testInstance, "public.example.com", registryHost)
	require.Len(testInstance, runner.captured, 1)
}

func TestRegistryLoginFailures(testInstance *testing.T) {
	testCases := []struct {
		name             string
		runner           *recordingCommandRunner
		expectedMessage  string
		expectedExitCode int
	}{
		{
			name: "password_failure",
			runner: &recordingCommandRunner{captureErrors: map[string]error{
				"ecr get-login-password": failure.New(failure.KindNonZeroExit, 254, "expired"),
			}},
			expectedMessage:  "could not retrieve the ECR login password",
			expectedExitCode: 254,
		},
		{
			name:             "empty_password",
			runner:           &recordingCommandRunner{captureOutputs: map[string]string{"ecr get-login-password": " \n"}},
			expectedMessage:  "could not retrieve the ECR login password",
			expectedExitCode: 1,
		},
		{
			name: "missing_region",
			runner: &recordingCommandRunner{
				captureOutputs: map[string]string{
					"ecr get-login-password":                                "token",
					"sts get-caller-identity --query Account --output text": "111122223333",
				},
				captureErrors: map[string]error{"configure get region": failure.New(failure.KindNonZeroExit, 1, "")},
			},
			expectedMessage:  "could not determine the AWS region",
			expectedExitCode: 1,
		},
		{
			name: "docker_failure",
			runner: &recordingCommandRunner{
				captureOutputs: map[string]string{"ecr get-login-password": "token"},
				passThroughErr: failure.New(failure.KindSpawnFailure, 1, "docker not found"),
			},
			expectedMessage:  "could not log Docker into",
			expectedExitCode: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, serviceError := awscli.NewRegistryService(awscli.ServiceDependencies{CommandRunner: testCase.runner})
			require.NoError(testInstance, serviceError)

			registryOptions := awscli.RegistryOptions{}
			if testCase.name == "docker_failure" {
				registryOptions.Registry = "registry.example.com"
			}

			_, loginError := service.Login(context.Background(), execshell.NewInvocationContext("", "", nil, nil), registryOptions)
			require.ErrorContains(testInstance, loginError, testCase.expectedMessage)
			require.Equal(testInstance, testCase.expectedExitCode, failure.ExitCode(loginError))
		})
	}
}
