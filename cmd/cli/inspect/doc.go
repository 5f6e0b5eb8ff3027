// Package inspect provides read-only commands that report on the local AWS
// configuration and the identity behind the active credentials.
package inspect
