package shell_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/aws-login/internal/failure"
	"github.com/temirov/aws-login/internal/shell"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

func newTestSetup(testInstance *testing.T, dialect shell.Dialect, homeDirectory string, environment map[string]string) shell.Setup {
	testInstance.Helper()
	setup, setupError := shell.NewSetup(dialect, shell.SetupOptions{
		Lookup: lookupFrom(environment),
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return homeDirectory, nil
		}),
	})
	require.NoError(testInstance, setupError)
	return setup
}

func TestSetupDefaultStartupScriptPaths(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	testCases := []struct {
		name         string
		dialect      shell.Dialect
		environment  map[string]string
		expectedPath string
	}{
		{name: "fish", dialect: shell.DialectFish, expectedPath: filepath.Join(homeDirectory, ".config", "fish", "config.fish")},
		{name: "bash", dialect: shell.DialectBash, expectedPath: filepath.Join(homeDirectory, ".bashrc")},
		{name: "zsh_home", dialect: shell.DialectZsh, expectedPath: filepath.Join(homeDirectory, ".zshrc")},
		{
			name:         "zsh_zdotdir",
			dialect:      shell.DialectZsh,
			environment:  map[string]string{"ZDOTDIR": "/opt/zsh"},
			expectedPath: filepath.Join("/opt/zsh", ".zshrc"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			setup := newTestSetup(testInstance, testCase.dialect, homeDirectory, testCase.environment)
			require.Equal(testInstance, testCase.expectedPath, setup.StartupScriptPath())
			require.Equal(testInstance, testCase.dialect, setup.Dialect())
		})
	}
}

func TestSetupStartupScriptOverrideExpandsHome(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	setup, setupError := shell.NewSetup(shell.DialectBash, shell.SetupOptions{
		StartupScriptPath: "~/.bash_profile",
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return homeDirectory, nil
		}),
	})
	require.NoError(testInstance, setupError)
	require.Equal(testInstance, filepath.Join(homeDirectory, ".bash_profile"), setup.StartupScriptPath())
}

func TestSetupFailsWithoutHomeDirectory(testInstance *testing.T) {
	_, setupError := shell.NewSetup(shell.DialectFish, shell.SetupOptions{
		Lookup: lookupFrom(map[string]string{}),
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return "", os.ErrNotExist
		}),
	})

	kind, found := failure.KindOf(setupError)
	require.True(testInstance, found)
	require.Equal(testInstance, failure.KindConfigurationMissing, kind)
}

func TestGenerateScriptSubstitutesPlaceholders(testInstance *testing.T) {
	for _, dialect := range shell.SupportedDialects() {
		testInstance.Run(string(dialect), func(testInstance *testing.T) {
			setup, setupError := shell.NewSetup(dialect, shell.SetupOptions{
				BinaryName:        "aws-login-dev",
				StartupScriptPath: filepath.Join(testInstance.TempDir(), "rc"),
			})
			require.NoError(testInstance, setupError)

			script, generateError := setup.GenerateScript()
			require.NoError(testInstance, generateError)
			require.Contains(testInstance, script, "aws-login-dev")
			require.Contains(testInstance, script, "AWS_LOGIN_SHELL="+string(dialect))
			require.Contains(testInstance, script, shell.ScriptPathEnvironmentVariable)
			require.NotContains(testInstance, script, "{AWS_LOGIN}")
			require.NotContains(testInstance, script, "{AWS_LOGIN_SHELL}")
		})
	}
}

func TestInstallLifecycle(testInstance *testing.T) {
	testCases := []struct {
		name         string
		dialect      shell.Dialect
		expectedHook string
	}{
		{name: "fish", dialect: shell.DialectFish, expectedHook: "aws-login shell init --shell fish | source"},
		{name: "bash", dialect: shell.DialectBash, expectedHook: `eval "$(aws-login shell init --shell bash)"`},
		{name: "zsh", dialect: shell.DialectZsh, expectedHook: `eval "$(aws-login shell init --shell zsh)"`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			homeDirectory := testInstance.TempDir()
			setup := newTestSetup(testInstance, testCase.dialect, homeDirectory, map[string]string{})

			installed, checkError := setup.IsInstalled()
			require.NoError(testInstance, checkError)
			require.False(testInstance, installed)

			require.NoError(testInstance, setup.Install())

			installed, checkError = setup.IsInstalled()
			require.NoError(testInstance, checkError)
			require.True(testInstance, installed)

			contents, readError := os.ReadFile(setup.StartupScriptPath())
			require.NoError(testInstance, readError)
			require.Equal(testInstance, "\n"+shell.InstalledMarker+"\n"+testCase.expectedHook+"\n", string(contents))

			require.NoError(testInstance, setup.Install())

			installed, checkError = setup.IsInstalled()
			require.NoError(testInstance, checkError)
			require.True(testInstance, installed)

			contents, readError = os.ReadFile(setup.StartupScriptPath())
			require.NoError(testInstance, readError)
			require.Equal(testInstance, 2, strings.Count(string(contents), shell.InstalledMarker))
		})
	}
}

func TestInstallPreservesExistingContents(testInstance *testing.T) {
	startupScriptPath := filepath.Join(testInstance.TempDir(), ".bashrc")
	require.NoError(testInstance, os.WriteFile(startupScriptPath, []byte("alias ll='ls -l'\n"), 0o644))

	setup, setupError := shell.NewSetup(shell.DialectBash, shell.SetupOptions{StartupScriptPath: startupScriptPath})
	require.NoError(testInstance, setupError)

	installed, checkError := setup.IsInstalled()
	require.NoError(testInstance, checkError)
	require.False(testInstance, installed)

	require.NoError(testInstance, setup.Install())

	contents, readError := os.ReadFile(startupScriptPath)
	require.NoError(testInstance, readError)
	require.True(testInstance, strings.HasPrefix(string(contents), "alias ll='ls -l'\n\n"+shell.InstalledMarker))
}

func TestInstallReportsFileSystemFailure(testInstance *testing.T) {
	blockingFile := filepath.Join(testInstance.TempDir(), "not-a-directory")
	require.NoError(testInstance, os.WriteFile(blockingFile, []byte{}, 0o644))

	setup, setupError := shell.NewSetup(shell.DialectFish, shell.SetupOptions{
		StartupScriptPath: filepath.Join(blockingFile, "fish", "config.fish"),
	})
	require.NoError(testInstance, setupError)

	installError := setup.Install()
	kind, found := failure.KindOf(installError)
	require.True(testInstance, found)
	require.Equal(testInstance, failure.KindFileSystemFailure, kind)

	_, checkError := setup.IsInstalled()
	require.Error(testInstance, checkError)
}
