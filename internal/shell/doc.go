// Package shell integrates aws-login into interactive shells.
//
// Environment implementations append variable assignments to the deferred
// script named by AWS_LOGIN_SCRIPT, which the parent shell sources and removes
// once aws-login exits. Setup implementations render the per-dialect init
// script and install a hook into the user's startup file.
package shell
