package inspect_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/aws-login/cmd/cli/inspect"
	"github.com/temirov/aws-login/internal/execshell"
	"github.com/temirov/aws-login/internal/identity"
	"github.com/temirov/aws-login/internal/utils"
)

const (
	awsConfigContentConstant = "[default]\nregion = us-east-1\n\n[profile dev]\nregion = eu-west-1\nsso_session = corp\n\n[sso-session corp]\nsso_region = us-east-1\n"
	testAccountConstant      = "111122223333"
	testARNConstant          = "arn:aws:sts::111122223333:assumed-role/ReadOnly/jane"
	testUserIDConstant       = "AROAEXAMPLE:jane"
)

func executeCommand(testInstance *testing.T, command *cobra.Command, invocation *execshell.InvocationContext) (string, error) {
	testInstance.Helper()

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{})

	executionContext := context.Background()
	if invocation != nil {
		executionContext = utils.NewCommandContextAccessor().WithInvocationContext(executionContext, invocation)
	}
	command.SetContext(executionContext)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func configLookup(configPath string, environment map[string]string) inspect.EnvironmentLookup {
	return func(name string) (string, bool) {
		if name == "AWS_CONFIG_FILE" {
			return configPath, true
		}
		value, found := environment[name]
		return value, found
	}
}

func tableRows(output string) [][]string {
	rows := [][]string{}
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

func TestProfilesCommandListsProfiles(testInstance *testing.T) {
	configPath := filepath.Join(testInstance.TempDir(), "config")
	require.NoError(testInstance, os.WriteFile(configPath, []byte(awsConfigContentConstant), 0o600))

	testCases := []struct {
		name         string
		invocation   *execshell.InvocationContext
		environment  map[string]string
		expectedRows [][]string
	}{
		{
			name: "default_active",
			expectedRows: [][]string{
				{"PROFILE", "REGION", "SSO"},
				{"*", "default", "us-east-1", "no"},
				{"dev", "eu-west-1", "yes"},
			},
		},
		{
			name:       "flag_selects_active",
			invocation: execshell.NewInvocationContext("dev", "", nil, nil),
			expectedRows: [][]string{
				{"PROFILE", "REGION", "SSO"},
				{"default", "us-east-1", "no"},
				{"*", "dev", "eu-west-1", "yes"},
			},
		},
		{
			name:        "environment_selects_active",
			environment: map[string]string{"AWS_PROFILE": "dev"},
			expectedRows: [][]string{
				{"PROFILE", "REGION", "SSO"},
				{"default", "us-east-1", "no"},
				{"*", "dev", "eu-west-1", "yes"},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := inspect.ProfilesCommandBuilder{EnvironmentLookup: configLookup(configPath, testCase.environment)}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			output, executionError := executeCommand(testInstance, command, testCase.invocation)

			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedRows, tableRows(output))
		})
	}
}

func TestProfilesCommandReportsMissingConfig(testInstance *testing.T) {
	configPath := filepath.Join(testInstance.TempDir(), "missing")
	builder := inspect.ProfilesCommandBuilder{EnvironmentLookup: configLookup(configPath, nil)}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, nil)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "no profiles found in "+configPath+"\n", output)
}

type stubCallerIdentityClient struct {
	output    *sts.GetCallerIdentityOutput
	callError error
}

func (client stubCallerIdentityClient) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return client.output, client.callError
}

func TestWhoAmICommandPrintsIdentity(testInstance *testing.T) {
	var receivedProfile, receivedRegion string
	builder := inspect.WhoAmICommandBuilder{
		ClientFactory: func(_ context.Context, profile string, region string) (identity.CallerIdentityClient, error) {
			receivedProfile, receivedRegion = profile, region
			return stubCallerIdentityClient{output: &sts.GetCallerIdentityOutput{
				Account: aws.String(testAccountConstant),
				Arn:     aws.String(testARNConstant),
				UserId:  aws.String(testUserIDConstant),
			}}, nil
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output, executionError := executeCommand(testInstance, command, execshell.NewInvocationContext("dev", "eu-west-1", nil, nil))

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "dev", receivedProfile)
	require.Equal(testInstance, "eu-west-1", receivedRegion)
	require.Equal(testInstance, "Account: "+testAccountConstant+"\nARN:     "+testARNConstant+"\nUserId:  "+testUserIDConstant+"\n", output)
}

func TestWhoAmICommandSurfacesExpiredCredentials(testInstance *testing.T) {
	apiError := &smithy.GenericAPIError{Code: "ExpiredToken", Message: "The security token included in the request is expired"}
	builder := inspect.WhoAmICommandBuilder{
		ClientFactory: func(context.Context, string, string) (identity.CallerIdentityClient, error) {
			return stubCallerIdentityClient{callError: apiError}, nil
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	_, executionError := executeCommand(testInstance, command, nil)

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "aws-login sso")
	var unwrapped smithy.APIError
	require.True(testInstance, errors.As(executionError, &unwrapped))
	require.Equal(testInstance, "ExpiredToken", unwrapped.ErrorCode())
}
