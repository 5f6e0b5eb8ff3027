// Package integration provides the `shell` command group that prints and
// installs the wrapper function through which aws-login updates the calling
// shell's environment.
package integration
