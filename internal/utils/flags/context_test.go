package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindAWSFlagsUsesDefaultsAndParsesValues(t *testing.T) {
	command := &cobra.Command{}

	values := BindAWSFlags(command, AWSFlagValues{Profile: "default", Region: "us-east-1"}, DefaultAWSFlagDefinitions())

	require.NotNil(t, values)
	require.Equal(t, "default", values.Profile)
	require.Equal(t, "us-east-1", values.Region)

	parseError := command.ParseFlags([]string{"--profile", "dev", "--region", "eu-west-1"})
	require.NoError(t, parseError)
	require.Equal(t, "dev", values.Profile)
	require.Equal(t, "eu-west-1", values.Region)
	require.NotNil(t, command.PersistentFlags().Lookup(ProfileFlagName))
}

func TestBindAWSFlagsSkipsDisabledDefinitions(t *testing.T) {
	command := &cobra.Command{}

	definitions := DefaultAWSFlagDefinitions()
	definitions.Region.Enabled = false
	BindAWSFlags(command, AWSFlagValues{}, definitions)

	require.NotNil(t, command.PersistentFlags().Lookup(ProfileFlagName))
	require.Nil(t, command.PersistentFlags().Lookup(RegionFlagName))
}

func TestBindAWSFlagsToleratesNilCommand(t *testing.T) {
	values := BindAWSFlags(nil, AWSFlagValues{Profile: "fallback"}, DefaultAWSFlagDefinitions())
	require.Equal(t, "fallback", values.Profile)
}
