package awsconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const (
	// ConfigFileEnvironmentVariable overrides the shared configuration file location.
	ConfigFileEnvironmentVariable = "AWS_CONFIG_FILE"
	// DefaultConfigFilePath is the AWS CLI's default shared configuration file.
	DefaultConfigFilePath = "~/.aws/config"
	// DefaultProfileName names the profile used when none is selected.
	DefaultProfileName = "default"

	profileSectionPrefixConstant    = "profile "
	regionKeyConstant               = "region"
	ssoSessionKeyConstant           = "sso_session"
	configLoadErrorTemplateConstant = "failed to load AWS config %s: %w"
)

// RequiredSSOSettings lists the profile settings that make a profile usable with `aws sso login`.
var RequiredSSOSettings = []string{
	"sso_account_id",
	"sso_region",
	"sso_role_name",
	"sso_start_url",
}

// Profile summarizes one profile section.
type Profile struct {
	Name       string
	Region     string
	SSOSession string
	SSO        bool
}

// ProfileReader lists profiles from a shared configuration file.
type ProfileReader struct {
	configFilePath string
}

// NewProfileReader constructs a reader for configFilePath.
func NewProfileReader(configFilePath string) *ProfileReader {
	return &ProfileReader{configFilePath: configFilePath}
}

// ResolveConfigFilePath honors AWS_CONFIG_FILE and falls back to ~/.aws/config.
func ResolveConfigFilePath(lookup pathutils.EnvironmentLookup, homeExpander *pathutils.HomeExpander) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	if configuredPath, present := lookup(ConfigFileEnvironmentVariable); present && len(strings.TrimSpace(configuredPath)) > 0 {
		return homeExpander.Expand(strings.TrimSpace(configuredPath))
	}
	return homeExpander.Expand(DefaultConfigFilePath)
}

// ConfigFilePath returns the file the reader loads.
func (reader *ProfileReader) ConfigFilePath() string {
	return reader.configFilePath
}

// Profiles returns the profiles sorted by name. A missing file yields no profiles.
func (reader *ProfileReader) Profiles() ([]Profile, error) {
	configuration, loadError := ini.Load(reader.configFilePath)
	if loadError != nil {
		if errors.Is(loadError, fs.ErrNotExist) {
			return []Profile{}, nil
		}
		return nil, fmt.Errorf(configLoadErrorTemplateConstant, reader.configFilePath, loadError)
	}

	profiles := make([]Profile, 0, len(configuration.Sections()))
	for _, section := range configuration.Sections() {
		profileName, isProfile := profileNameFromSection(section.Name())
		if !isProfile {
			continue
		}
		profiles = append(profiles, describeProfile(profileName, section))
	}

	sort.Slice(profiles, func(leftIndex int, rightIndex int) bool {
		return profiles[leftIndex].Name < profiles[rightIndex].Name
	})
	return profiles, nil
}

// Profile returns the named profile and whether it exists.
func (reader *ProfileReader) Profile(name string) (Profile, bool, error) {
	profiles, profilesError := reader.Profiles()
	if profilesError != nil {
		return Profile{}, false, profilesError
	}
	for _, profile := range profiles {
		if profile.Name == name {
			return profile, true, nil
		}
	}
	return Profile{}, false, nil
}

func profileNameFromSection(sectionName string) (string, bool) {
	switch {
	case sectionName == DefaultProfileName:
		return DefaultProfileName, true
	case strings.HasPrefix(sectionName, profileSectionPrefixConstant):
		profileName := strings.TrimSpace(strings.TrimPrefix(sectionName, profileSectionPrefixConstant))
		return profileName, len(profileName) > 0
	default:
		// ini.DefaultSection and sso-session blocks
		return "", false
	}
}

func describeProfile(name string, section *ini.Section) Profile {
	profile := Profile{
		Name:       name,
		Region:     strings.TrimSpace(section.Key(regionKeyConstant).String()),
		SSOSession: strings.TrimSpace(section.Key(ssoSessionKeyConstant).String()),
	}

	hasAllSettings := true
	for _, settingName := range RequiredSSOSettings {
		if len(strings.TrimSpace(section.Key(settingName).String())) == 0 {
			hasAllSettings = false
			break
		}
	}
	profile.SSO = hasAllSettings || len(profile.SSOSession) > 0
	return profile
}
