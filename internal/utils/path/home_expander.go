package pathutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant               = "~"
	tildeForwardSlashPrefixConstant   = "~/"
	homeDirectoryEmptyMessageConstant = "home directory is empty"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup resolves environment variables referenced from configured paths.
type EnvironmentLookup func(name string) (string, bool)

// HomeExpander resolves user-supplied file locations such as ~/.aws/config or $ZDOTDIR/.zshrc.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentLookup     EnvironmentLookup
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookups.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home directory provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider, environmentLookup: os.LookupEnv}
}

// WithEnvironmentLookup replaces the lookup used to expand $VARIABLE references.
func (expander *HomeExpander) WithEnvironmentLookup(lookup EnvironmentLookup) *HomeExpander {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	expander.environmentLookup = lookup
	return expander
}

// HomeDirectory returns the resolved home directory.
func (expander *HomeExpander) HomeDirectory() (string, error) {
	if expander == nil {
		return os.UserHomeDir()
	}
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
		if expander.homeDirectoryError == nil && len(strings.TrimSpace(expander.homeDirectory)) == 0 {
			expander.homeDirectoryError = errors.New(homeDirectoryEmptyMessageConstant)
		}
	})
	return expander.homeDirectory, expander.homeDirectoryError
}

// Expand resolves leading tilde prefixes to the user's home directory.
// Paths are returned unchanged when the home directory cannot be resolved.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil {
		return candidatePath
	}
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	resolvedHomeDirectory, homeDirectoryError := expander.HomeDirectory()
	if homeDirectoryError != nil {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return resolvedHomeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

// ExpandAll expands $VARIABLE and ${VARIABLE} references and then a leading tilde.
// Unset variables expand to an empty string.
func (expander *HomeExpander) ExpandAll(candidatePath string) string {
	if expander == nil {
		return candidatePath
	}
	lookup := expander.environmentLookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	expandedPath := os.Expand(candidatePath, func(variableName string) string {
		value, _ := lookup(variableName)
		return value
	})
	return expander.Expand(expandedPath)
}
