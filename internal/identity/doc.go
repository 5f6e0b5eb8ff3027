// Package identity resolves the AWS principal behind the active profile using STS.
package identity
