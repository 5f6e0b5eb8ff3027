package inspect

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/aws-login/internal/awscli"
	"github.com/temirov/aws-login/internal/awsconfig"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const (
	profilesUseConstant           = "profiles"
	profilesShortDescription      = "List the profiles in the AWS config file"
	profilesLongDescription       = "profiles lists the profiles defined in the AWS shared config file (AWS_CONFIG_FILE or ~/.aws/config). The active profile is marked with an asterisk."
	profilesHeaderConstant        = "\tPROFILE\tREGION\tSSO\n"
	profilesRowTemplateConstant   = "%s\t%s\t%s\t%s\n"
	profilesEmptyTemplateConstant = "no profiles found in %s\n"
	activeProfileMarkerConstant   = "*"
	inactiveProfileMarkerConstant = ""
	ssoEnabledConstant            = "yes"
	ssoDisabledConstant           = "no"
	profilesReadErrorTemplate     = "could not list AWS profiles: %w"
	profilesListedMessageConstant = "profiles listed"
	logFieldConfigFileConstant    = "config_file"
	logFieldProfileCountConstant  = "profile_count"
	tableMinimumWidthConstant     = 0
	tableTabWidthConstant         = 0
	tablePaddingConstant          = 2
	tablePaddingCharacterConstant = ' '
)

// ProfilesCommandBuilder assembles the profiles command.
type ProfilesCommandBuilder struct {
	LoggerProvider    LoggerProvider
	EnvironmentLookup EnvironmentLookup
	HomeExpander      *pathutils.HomeExpander
}

// Build constructs the profiles command.
func (builder *ProfilesCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   profilesUseConstant,
		Short: profilesShortDescription,
		Long:  profilesLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *ProfilesCommandBuilder) run(command *cobra.Command, arguments []string) error {
	lookup := builder.EnvironmentLookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	reader := awsconfig.NewProfileReader(awsconfig.ResolveConfigFilePath(pathutils.EnvironmentLookup(lookup), builder.HomeExpander))
	profiles, readError := reader.Profiles()
	if readError != nil {
		return fmt.Errorf(profilesReadErrorTemplate, readError)
	}

	resolveLogger(builder.LoggerProvider).Debug(
		profilesListedMessageConstant,
		zap.String(logFieldConfigFileConstant, reader.ConfigFilePath()),
		zap.Int(logFieldProfileCountConstant, len(profiles)),
	)

	if len(profiles) == 0 {
		_, writeError := fmt.Fprintf(command.OutOrStdout(), profilesEmptyTemplateConstant, reader.ConfigFilePath())
		return writeError
	}

	activeProfile := resolveActiveProfile(resolveInvocation(command).Profile(), lookup)

	table := tabwriter.NewWriter(command.OutOrStdout(), tableMinimumWidthConstant, tableTabWidthConstant, tablePaddingConstant, tablePaddingCharacterConstant, 0)
	fmt.Fprint(table, profilesHeaderConstant)
	for _, profile := range profiles {
		marker := inactiveProfileMarkerConstant
		if profile.Name == activeProfile {
			marker = activeProfileMarkerConstant
		}
		ssoState := ssoDisabledConstant
		if profile.SSO {
			ssoState = ssoEnabledConstant
		}
		fmt.Fprintf(table, profilesRowTemplateConstant, marker, profile.Name, profile.Region, ssoState)
	}
	return table.Flush()
}

// resolveActiveProfile prefers --profile, then AWS_PROFILE, then the default profile.
func resolveActiveProfile(selectedProfile string, lookup EnvironmentLookup) string {
	if len(selectedProfile) > 0 {
		return selectedProfile
	}
	if environmentProfile, present := lookup(awscli.ProfileEnvironmentVariable); present && len(strings.TrimSpace(environmentProfile)) > 0 {
		return strings.TrimSpace(environmentProfile)
	}
	return awsconfig.DefaultProfileName
}
