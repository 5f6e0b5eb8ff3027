package awsconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/aws-login/internal/awsconfig"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const testConfigContentsConstant = `[default]
region = us-east-1

[profile legacy-sso]
sso_start_url = https://example.awsapps.com/start
sso_region = us-east-1
sso_account_id = 111122223333
sso_role_name = ReadOnly
region = eu-west-1

[profile partial]
sso_start_url = https://example.awsapps.com/start
sso_region = us-east-1

[profile session-sso]
sso_session = corp
sso_account_id = 444455556666
sso_role_name = Admin

[sso-session corp]
sso_start_url = https://corp.awsapps.com/start
sso_region = us-west-2
`

func writeConfig(testInstance *testing.T, contents string) string {
	testInstance.Helper()
	configPath := filepath.Join(testInstance.TempDir(), "config")
	require.NoError(testInstance, os.WriteFile(configPath, []byte(contents), 0o600))
	return configPath
}

func TestProfilesClassifiesSSOProfiles(testInstance *testing.T) {
	reader := awsconfig.NewProfileReader(writeConfig(testInstance, testConfigContentsConstant))

	profiles, profilesError := reader.Profiles()
	require.NoError(testInstance, profilesError)
	require.Equal(testInstance, []awsconfig.Profile{
		{Name: "default", Region: "us-east-1"},
		{Name: "legacy-sso", Region: "eu-west-1", SSO: true},
		{Name: "partial"},
		{Name: "session-sso", SSOSession: "corp", SSO: true},
	}, profiles)
}

func TestProfileLookup(testInstance *testing.T) {
	reader := awsconfig.NewProfileReader(writeConfig(testInstance, testConfigContentsConstant))

	profile, found, lookupError := reader.Profile("legacy-sso")
	require.NoError(testInstance, lookupError)
	require.True(testInstance, found)
	require.Equal(testInstance, "eu-west-1", profile.Region)

	_, found, lookupError = reader.Profile("corp")
	require.NoError(testInstance, lookupError)
	require.False(testInstance, found)
}

func TestProfilesMissingFileYieldsNoProfiles(testInstance *testing.T) {
	reader := awsconfig.NewProfileReader(filepath.Join(testInstance.TempDir(), "absent"))

	profiles, profilesError := reader.Profiles()
	require.NoError(testInstance, profilesError)
	require.Empty(testInstance, profiles)
}

func TestResolveConfigFilePath(testInstance *testing.T) {
	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "/home/tester", nil
	})

	defaultPath := awsconfig.ResolveConfigFilePath(func(string) (string, bool) { return "", false }, homeExpander)
	require.Equal(testInstance, filepath.Join("/home/tester", ".aws", "config"), defaultPath)

	overriddenPath := awsconfig.ResolveConfigFilePath(func(name string) (string, bool) {
		if name == awsconfig.ConfigFileEnvironmentVariable {
			return "~/work/aws-config", true
		}
		return "", false
	}, homeExpander)
	require.Equal(testInstance, filepath.Join("/home/tester", "work", "aws-config"), overriddenPath)
}
