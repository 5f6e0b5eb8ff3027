// Package login provides the Cobra commands that authenticate against AWS
// and publish the selected profile to the calling shell.
package login
