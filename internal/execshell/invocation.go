package execshell

import (
	"io"
	"reflect"
	"strings"
)

// GlobalOptions supplies the AWS CLI options inherited by every invocation.
type GlobalOptions interface {
	Profile() string
	Region() string
}

// InvocationContext carries the global options and the output sinks of a single CLI run.
type InvocationContext struct {
	profile    string
	region     string
	errorSink  *SharedSink
	outputSink *SharedSink
}

// NewInvocationContext constructs an InvocationContext. Empty profile or region values are treated as absent.
// When both writers are the same destination, both streams share one sink and therefore one lock.
func NewInvocationContext(profile string, region string, errorWriter io.Writer, outputWriter io.Writer) *InvocationContext {
	errorSink := NewSharedSink(errorWriter)
	outputSink := errorSink
	if !sameWriter(errorWriter, outputWriter) {
		outputSink = NewSharedSink(outputWriter)
	}
	return &InvocationContext{
		profile:    strings.TrimSpace(profile),
		region:     strings.TrimSpace(region),
		errorSink:  errorSink,
		outputSink: outputSink,
	}
}

func sameWriter(firstWriter io.Writer, secondWriter io.Writer) bool {
	if firstWriter == nil || secondWriter == nil {
		return firstWriter == nil && secondWriter == nil
	}
	if reflect.TypeOf(firstWriter) != reflect.TypeOf(secondWriter) || !reflect.TypeOf(firstWriter).Comparable() {
		return false
	}
	return firstWriter == secondWriter
}

// Profile returns the selected AWS CLI profile or an empty string.
func (invocation *InvocationContext) Profile() string {
	if invocation == nil {
		return ""
	}
	return invocation.profile
}

// Region returns the selected AWS region or an empty string.
func (invocation *InvocationContext) Region() string {
	if invocation == nil {
		return ""
	}
	return invocation.region
}

// ErrorSink returns the sink receiving relayed standard error.
func (invocation *InvocationContext) ErrorSink() *SharedSink {
	if invocation == nil {
		return NewSharedSink(nil)
	}
	return invocation.errorSink
}

// OutputSink returns the sink receiving relayed standard output.
func (invocation *InvocationContext) OutputSink() *SharedSink {
	if invocation == nil {
		return NewSharedSink(nil)
	}
	return invocation.outputSink
}
