// Package ui reports the lifecycle of aws and docker subprocesses to the
// operator. ConsoleCommandEventLogger observes execshell command events and
// logs starts and successes at info level, non-zero exits as warnings, and
// launch failures as errors.
package ui
