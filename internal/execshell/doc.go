// Package execshell runs external command-line tools on behalf of aws-login.
//
// ProcessRunner builds an invocation of an external program and executes it in
// one of two modes: Capture collects standard output for programmatic
// inspection, while PassThrough relays standard output and standard error live
// into the shared sinks of an InvocationContext. OSCommandRunner exposes the
// same two modes behind the CommandRunner interface so services can be tested
// with recording runners, and CommandEventObserver reports command lifecycle
// events for logging.
package execshell
