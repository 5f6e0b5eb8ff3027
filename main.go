package main

import (
	"fmt"
	"os"

	"github.com/temirov/aws-login/cmd/cli"
	"github.com/temirov/aws-login/internal/failure"
)

const (
	exitErrorTemplateConstant = "aws-login: %v\n"
)

// main executes the aws-login command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		if !failure.Silent(executionError) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(failure.ExitCode(executionError))
	}
}
