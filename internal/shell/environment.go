package shell

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/temirov/aws-login/internal/failure"
)

const (
	scriptFilePermissionsConstant          = 0o600
	scriptPathMissingMessageConstant       = ScriptPathEnvironmentVariable + " is not set; run aws-login through the shell integration (see `aws-login shell install`)"
	scriptOpenErrorTemplateConstant        = "%s: unable to open the file for writing: %w"
	setVariableErrorTemplateConstant       = "could not set environment variable %s: %w"
	invalidVariableNameTemplateConstant    = "invalid environment variable name %q"
	environmentClosedMessageConstant       = "shell environment is closed"
	fishAssignmentTemplateConstant         = "set -gx %s \"%s\"\n"
	posixAssignmentTemplateConstant        = "export %s=\"%s\"\n"
	unsupportedEnvironmentTemplateConstant = "no shell environment for dialect %q"
)

var variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var fishValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

var posixValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")

// Environment records environment-variable assignments for the parent shell to evaluate after aws-login exits.
type Environment interface {
	Dialect() Dialect
	SetVar(name string, value string) error
	Close() error
}

// NewEnvironment opens the deferred script named by AWS_LOGIN_SCRIPT for the dialect.
// It fails with a configuration-missing failure when the variable is unset.
func NewEnvironment(dialect Dialect, lookup EnvironmentLookup) (Environment, error) {
	script, openError := openScriptFile(lookup)
	if openError != nil {
		return nil, openError
	}

	switch dialect {
	case DialectFish:
		return &FishEnvironment{script: script}, nil
	case DialectBash:
		return &BashEnvironment{script: script}, nil
	case DialectZsh:
		return &ZshEnvironment{script: script}, nil
	default:
		_ = script.Close()
		return nil, failure.New(failure.KindConfigurationMissing, failure.DefaultExitCode, fmt.Sprintf(unsupportedEnvironmentTemplateConstant, dialect))
	}
}

// FishEnvironment emits `set -gx` statements.
type FishEnvironment struct {
	script *scriptFile
}

// Dialect reports DialectFish.
func (environment *FishEnvironment) Dialect() Dialect {
	return DialectFish
}

// SetVar appends `set -gx NAME "value"`.
func (environment *FishEnvironment) SetVar(name string, value string) error {
	return environment.script.appendAssignment(fishAssignmentTemplateConstant, fishValueEscaper, name, value)
}

// Close releases the deferred script.
func (environment *FishEnvironment) Close() error {
	return environment.script.Close()
}

// BashEnvironment emits `export` statements.
type BashEnvironment struct {
	script *scriptFile
}

// Dialect reports DialectBash.
func (environment *BashEnvironment) Dialect() Dialect {
	return DialectBash
}

// SetVar appends `export NAME="value"`.
func (environment *BashEnvironment) SetVar(name string, value string) error {
	return environment.script.appendAssignment(posixAssignmentTemplateConstant, posixValueEscaper, name, value)
}

// Close releases the deferred script.
func (environment *BashEnvironment) Close() error {
	return environment.script.Close()
}

// ZshEnvironment emits `export` statements.
type ZshEnvironment struct {
	script *scriptFile
}

// Dialect reports DialectZsh.
func (environment *ZshEnvironment) Dialect() Dialect {
	return DialectZsh
}

// SetVar appends `export NAME="value"`.
func (environment *ZshEnvironment) SetVar(name string, value string) error {
	return environment.script.appendAssignment(posixAssignmentTemplateConstant, posixValueEscaper, name, value)
}

// Close releases the deferred script.
func (environment *ZshEnvironment) Close() error {
	return environment.script.Close()
}

type scriptFile struct {
	writer io.WriteCloser
	mutex  sync.Mutex
}

func openScriptFile(lookup EnvironmentLookup) (*scriptFile, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	scriptPath, present := lookup(ScriptPathEnvironmentVariable)
	scriptPath = strings.TrimSpace(scriptPath)
	if !present || len(scriptPath) == 0 {
		return nil, failure.New(failure.KindConfigurationMissing, failure.DefaultExitCode, scriptPathMissingMessageConstant)
	}

	file, openError := os.OpenFile(scriptPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, scriptFilePermissionsConstant)
	if openError != nil {
		return nil, failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(scriptOpenErrorTemplateConstant, scriptPath, openError))
	}

	return &scriptFile{writer: file}, nil
}

func (script *scriptFile) appendAssignment(template string, escaper *strings.Replacer, name string, value string) error {
	if !variableNamePattern.MatchString(name) {
		return fmt.Errorf(invalidVariableNameTemplateConstant, name)
	}

	script.mutex.Lock()
	defer script.mutex.Unlock()

	if script.writer == nil {
		return failure.New(failure.KindFileSystemFailure, failure.DefaultExitCode, environmentClosedMessageConstant)
	}

	statement := fmt.Sprintf(template, name, escaper.Replace(value))
	if _, writeError := io.WriteString(script.writer, statement); writeError != nil {
		return failure.Wrap(failure.KindFileSystemFailure, failure.DefaultExitCode, fmt.Errorf(setVariableErrorTemplateConstant, name, writeError))
	}
	return nil
}

func (script *scriptFile) Close() error {
	script.mutex.Lock()
	defer script.mutex.Unlock()

	if script.writer == nil {
		return nil
	}
	closeError := script.writer.Close()
	script.writer = nil
	return closeError
}
