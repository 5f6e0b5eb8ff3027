package flags

import "github.com/spf13/cobra"

const (
	// ProfileFlagName exposes the shared AWS profile flag name.
	ProfileFlagName = "profile"
	// ProfileFlagUsage describes the shared AWS profile flag purpose.
	ProfileFlagUsage = "AWS CLI profile to use"
	// RegionFlagName exposes the shared AWS region flag name.
	RegionFlagName = "region"
	// RegionFlagUsage describes the shared AWS region flag purpose.
	RegionFlagUsage = "AWS region, overriding profile and environment settings"
	// ShellFlagName exposes the shared shell dialect flag name.
	ShellFlagName = "shell"
	// ShellFlagShorthand provides the shorthand for the shell flag.
	ShellFlagShorthand = "s"
)

// AWSFlagDefinition captures configuration for a single AWS context flag.
type AWSFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// AWSFlagDefinitions groups AWS context flag definitions.
type AWSFlagDefinitions struct {
	Profile AWSFlagDefinition
	Region  AWSFlagDefinition
}

// DefaultAWSFlagDefinitions enables both AWS context flags with their standard names.
func DefaultAWSFlagDefinitions() AWSFlagDefinitions {
	return AWSFlagDefinitions{
		Profile: AWSFlagDefinition{Name: ProfileFlagName, Usage: ProfileFlagUsage, Enabled: true},
		Region:  AWSFlagDefinition{Name: RegionFlagName, Usage: RegionFlagUsage, Enabled: true},
	}
}

// AWSFlagValues stores AWS context flag values.
type AWSFlagValues struct {
	Profile string
	Region  string
}

// BindAWSFlags attaches persistent AWS context flags to the provided command.
func BindAWSFlags(command *cobra.Command, defaults AWSFlagValues, definitions AWSFlagDefinitions) *AWSFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	persistentFlagSet := command.PersistentFlags()
	if definitions.Profile.Enabled && len(definitions.Profile.Name) > 0 {
		persistentFlagSet.StringVar(&values.Profile, definitions.Profile.Name, defaults.Profile, definitions.Profile.Usage)
	}
	if definitions.Region.Enabled && len(definitions.Region.Name) > 0 {
		persistentFlagSet.StringVar(&values.Region, definitions.Region.Name, defaults.Region, definitions.Region.Usage)
	}

	return &values
}
