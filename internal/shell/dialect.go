package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ScriptPathEnvironmentVariable names the deferred script written by Environment implementations.
	ScriptPathEnvironmentVariable = "AWS_LOGIN_SCRIPT"
	// DialectEnvironmentVariable is exported by the init script so aws-login knows which dialect to emit.
	DialectEnvironmentVariable = "AWS_LOGIN_SHELL"
	// LoginShellEnvironmentVariable holds the user's login shell path.
	LoginShellEnvironmentVariable = "SHELL"

	unsupportedDialectTemplateConstant = "unsupported shell %q (supported: %s)"
	undetectedDialectMessageConstant   = "unable to detect the shell; set --shell or " + DialectEnvironmentVariable
	dialectListSeparatorConstant       = ", "
)

// Dialect identifies a supported shell.
type Dialect string

// Supported dialects.
const (
	DialectFish Dialect = "fish"
	DialectBash Dialect = "bash"
	DialectZsh  Dialect = "zsh"
)

// EnvironmentLookup resolves environment variables. os.LookupEnv satisfies it.
type EnvironmentLookup func(name string) (string, bool)

// SupportedDialects lists dialects in display order.
func SupportedDialects() []Dialect {
	return []Dialect{DialectFish, DialectBash, DialectZsh}
}

// SupportedDialectNames lists dialect names in display order.
func SupportedDialectNames() []string {
	dialects := SupportedDialects()
	names := make([]string, 0, len(dialects))
	for _, dialect := range dialects {
		names = append(names, string(dialect))
	}
	return names
}

// ParseDialect resolves a case-insensitive dialect name.
func ParseDialect(name string) (Dialect, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))
	for _, dialect := range SupportedDialects() {
		if string(dialect) == normalizedName {
			return dialect, nil
		}
	}
	return "", fmt.Errorf(unsupportedDialectTemplateConstant, name, strings.Join(SupportedDialectNames(), dialectListSeparatorConstant))
}

// DetectDialect picks the dialect from the configured value, then AWS_LOGIN_SHELL, then the basename of $SHELL.
func DetectDialect(configuredDialect string, lookup EnvironmentLookup) (Dialect, error) {
	if len(strings.TrimSpace(configuredDialect)) > 0 {
		return ParseDialect(configuredDialect)
	}

	if lookup != nil {
		if hintedDialect, hinted := lookup(DialectEnvironmentVariable); hinted && len(strings.TrimSpace(hintedDialect)) > 0 {
			return ParseDialect(hintedDialect)
		}
		if loginShell, present := lookup(LoginShellEnvironmentVariable); present && len(strings.TrimSpace(loginShell)) > 0 {
			return ParseDialect(filepath.Base(strings.TrimSpace(loginShell)))
		}
	}

	return "", errors.New(undetectedDialectMessageConstant)
}
