// Package awscli drives the aws and docker executables for the login flows.
//
// Services build their invocations with execshell.ProcessRunner so global
// --profile and --region options precede the subcommand, and execute them
// through an execshell.CommandRunner so tests can substitute a recorder.
package awscli
