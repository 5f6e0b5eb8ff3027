package awscli

import (
	"github.com/temirov/aws-login/internal/execshell"
)

const (
	configureSubcommandConstant         = "configure"
	configureGetSubcommandConstant      = "get"
	configureSSOSubcommandConstant      = "sso"
	ssoSubcommandConstant               = "sso"
	ssoLoginSubcommandConstant          = "login"
	ecrSubcommandConstant               = "ecr"
	ecrLoginPasswordSubcommandConstant  = "get-login-password"
	stsSubcommandConstant               = "sts"
	stsCallerIdentitySubcommandConstant = "get-caller-identity"
	queryFlagConstant                   = "--query"
	accountQueryConstant                = "Account"
	outputFlagConstant                  = "--output"
	textOutputConstant                  = "text"
	regionSettingConstant               = "region"
	dockerLoginSubcommandConstant       = "login"
	dockerUsernameFlagConstant          = "--username"
	dockerPasswordFlagConstant          = "--password"
	ecrUsernameConstant                 = "AWS"
)

func awsCommand(options execshell.GlobalOptions, arguments ...string) execshell.ShellCommand {
	runner := execshell.NewProcessRunner(string(execshell.CommandAWS)).WithGlobalOptions(options)
	for _, argument := range arguments {
		runner.Arg(argument)
	}
	return runner.Command()
}

func configureGetCommand(options execshell.GlobalOptions, settingName string) execshell.ShellCommand {
	return awsCommand(options, configureSubcommandConstant, configureGetSubcommandConstant, settingName)
}

// dockerLoginCommand passes the password as an argument because child stdin is always inherited from the terminal.
// It is visible in the process list for the lifetime of docker login and docker warns about it; command labels redact it.
func dockerLoginCommand(password string, registryHost string) execshell.ShellCommand {
	return execshell.NewProcessRunner(string(execshell.CommandDocker)).
		Arg(dockerLoginSubcommandConstant).
		Arg(dockerUsernameFlagConstant).
		Arg(ecrUsernameConstant).
		Arg(dockerPasswordFlagConstant).
		Arg(password).
		Arg(registryHost).
		Command()
}
