package shell

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/aws-login/internal/failure"
	pathutils "github.com/temirov/aws-login/internal/utils/path"
)

const (
	// DefaultBinaryName is substituted into init scripts and hook lines.
	DefaultBinaryName = "aws-login"
	// InstalledMarker is the comment whose presence in the startup script means the hook is installed.
	InstalledMarker = "# Integrate aws-login into the shell environment."

	binaryNamePlaceholderConstant             = "{AWS_LOGIN}"
	dialectNamePlaceholderConstant            = "{AWS_LOGIN_SHELL}"
	templatePathTemplateConstant              = "templates/init.%s"
	fishHookTemplateConstant                  = "%s shell init --shell fish | source"
	posixHookTemplateConstant                 = "eval \"$(%s shell init --shell %s)\""
	installedBlockTemplateConstant            = "\n%s\n%s\n"
	zshConfigurationDirectoryVariableConstant = "ZDOTDIR"
	fishDefaultStartupScriptConstant          = "~/.config/fish/config.fish"
	bashDefaultStartupScriptConstant          = "~/.bashrc"
	zshStartupScriptNameConstant              = ".zshrc"
	zshDefaultStartupScriptConstant           = "~/" + zshStartupScriptNameConstant
	startupDirectoryPermissionsConstant       = 0o755
	startupScriptPermissionsConstant          = 0o644
	homeDirectoryMissingTemplateConstant      = "unable to resolve the home directory for %s"
	startupDirectoryErrorTemplateConstant     = "could not create the directory containing %s: %w"
	startupScriptOpenErrorTemplateConstant    = "could not open %s: %w"
	startupScriptWriteErrorTemplateConstant   = "could not write the shell hook to %s: %w"
	startupScriptReadErrorTemplateConstant    = "could not read %s: %w"
	unsupportedSetupDialectTemplateConstant   = "no shell setup for dialect %q"
	homeDirectoryShortcutPrefixConstant       = "~"
)

//go:embed templates/init.fish templates/init.bash templates/init.zsh
var initTemplates embed.FS

// Setup installs aws-login into a shell's startup script.
type Setup interface {
	Dialect() Dialect
	StartupScriptPath() string
	GenerateScript() (string, error)
	IsInstalled() (bool, error)
	Install() error
}

// SetupOptions tunes Setup construction. Zero values select the defaults.
type SetupOptions struct {
	BinaryName        string
	StartupScriptPath string
	Lookup            EnvironmentLookup
	HomeExpander      *pathutils.HomeExpander
}

// NewSetup constructs the Setup for dialect.
func NewSetup(dialect Dialect, options SetupOptions) (Setup, error) {
	binaryName := strings.TrimSpace(options.BinaryName)
	if len(binaryName) == 0 {
		binaryName = DefaultBinaryName
	}
	lookup := options.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	homeExpander := options.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander().WithEnvironmentLookup(pathutils.EnvironmentLookup(lookup))
	}

	startupScriptPath := strings.TrimSpace(options.StartupScriptPath)
	if len(startupScriptPath) == 0 {
		startupScriptPath = defaultStartupScriptPath(dialect, lookup)
	}
	startupScriptPath = homeExpander.ExpandAll(startupScriptPath)
	if strings.HasPrefix(startupScriptPath, homeDirectoryShortcutPrefixConstant) {
		return nil, failure.New(failure.KindConfigurationMissing, failure.DefaultExitCode, fmt.Sprintf(homeDirectoryMissingTemplateConstant, startupScriptPath))
	}

	script := startupScript{path: startupScriptPath, binaryName: binaryName}
	switch dialect {
	case DialectFish:
		return &FishSetup{startupScript: script}, nil
	case DialectBash:
		return &BashSetup{startupScript: script}, nil
	case DialectZsh:
		return &ZshSetup{startupScript: script}, nil
	default:
		return nil, fmt.Errorf(unsupportedSetupDialectTemplateConstant, dialect)
	}
}

func defaultStartupScriptPath(dialect Dialect, lookup EnvironmentLookup) string {
	switch dialect {
	case DialectFish:
		return fishDefaultStartupScriptConstant
	case DialectZsh:
		if configurationDirectory, present := lookup(zshConfigurationDirectoryVariableConstant); present && len(strings.TrimSpace(configurationDirectory)) > 0 {
			return filepath.Join(strings.TrimSpace(configurationDirectory), zshStartupScriptNameConstant)
		}
		return zshDefaultStartupScriptConstant
	default:
		return bashDefaultStartupScriptConstant
	}
}

// FishSetup pipes the init script into `source`.
type FishSetup struct {
	startupScript
}

// Dialect reports DialectFish.
func (setup *FishSetup) Dialect() Dialect {
	return DialectFish
}

// GenerateScript renders the fish init script.
func (setup *FishSetup) GenerateScript() (string, error) {
	return setup.render(DialectFish)
}

// Install appends the fish hook.
func (setup *FishSetup) Install() error {
	return setup.appendHook(fmt.Sprintf(fishHookTemplateConstant, setup.binaryName))
}

// BashSetup evaluates the init script from ~/.bashrc.
type BashSetup struct {
	startupScript
}

// Dialect reports DialectBash.
func (setup *BashSetup) Dialect() Dialect {
	return DialectBash
}

// GenerateScript renders the bash init script.
func (setup *BashSetup) GenerateScript() (string, error) {
	return setup.render(DialectBash)
}

// Install appends the bash hook.
func (setup *BashSetup) Install() error {
	return setup.appendHook(fmt.Sprintf(posixHookTemplateConstant, setup.binaryName, DialectBash))
}

// ZshSetup evaluates the init script from .zshrc.
type ZshSetup struct {
	startupScript
}

// Dialect reports DialectZsh.
func (setup *ZshSetup) Dialect() Dialect {
	return DialectZsh
}

// GenerateScript renders the zsh init script.
func (setup *ZshSetup) GenerateScript() (string, error) {
	return setup.render(DialectZsh)
}

// Install appends the zsh hook.
func (setup *ZshSetup) Install() error {
	return setup.appendHook(fmt.Sprintf(posixHookTemplateConstant, setup.binaryName, DialectZsh))
}

type startupScript struct {
	path       string
	binaryName string
}

// StartupScriptPath returns the startup script the hook is installed into.
func (script startupScript) StartupScriptPath() string {
	return script.path
}

// IsInstalled reports whether the startup script exists and carries the installed marker.
func (script startupScript) IsInstalled() (bool, error) {
	contents, readError := os.ReadFile(script.path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return false, nil
		}
		return false, failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(startupScriptReadErrorTemplateConstant, script.path, readError))
	}
	return strings.Contains(string(contents), InstalledMarker), nil
}

func (script startupScript) render(dialect Dialect) (string, error) {
	templateContents, readError := initTemplates.ReadFile(fmt.Sprintf(templatePathTemplateConstant, dialect))
	if readError != nil {
		return "", readError
	}
	replacer := strings.NewReplacer(
		dialectNamePlaceholderConstant, string(dialect),
		binaryNamePlaceholderConstant, script.binaryName,
	)
	return replacer.Replace(string(templateContents)), nil
}

// appendHook does not check for an existing hook; calling it twice duplicates the block.
func (script startupScript) appendHook(hookLine string) error {
	if mkdirError := os.MkdirAll(filepath.Dir(script.path), startupDirectoryPermissionsConstant); mkdirError != nil {
		return failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(startupDirectoryErrorTemplateConstant, script.path, mkdirError))
	}

	file, openError := os.OpenFile(script.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, startupScriptPermissionsConstant)
	if openError != nil {
		return failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(startupScriptOpenErrorTemplateConstant, script.path, openError))
	}

	_, writeError := fmt.Fprintf(file, installedBlockTemplateConstant, InstalledMarker, hookLine)
	closeError := file.Close()
	if writeError == nil {
		writeError = closeError
	}
	if writeError != nil {
		return failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(startupScriptWriteErrorTemplateConstant, script.path, writeError))
	}
	return nil
}
