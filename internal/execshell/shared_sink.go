package execshell

import (
	"io"
	"sync"
)

// SharedSink serializes writes from concurrent producers onto a single destination and flushes it after every write.
type SharedSink struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewSharedSink wraps the provided writer. Writers that are already shared sinks are returned unchanged.
func NewSharedSink(writer io.Writer) *SharedSink {
	if existingSink, alreadyShared := writer.(*SharedSink); alreadyShared {
		return existingSink
	}
	if writer == nil {
		writer = io.Discard
	}
	return &SharedSink{writer: writer}
}

// Write delegates to the underlying writer while holding the sink lock and flushes it when possible.
func (sink *SharedSink) Write(data []byte) (int, error) {
	if sink == nil || sink.writer == nil {
		return 0, nil
	}

	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	bytesWritten, writeError := sink.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableWriter, implementsFlush := sink.writer.(interface{ Flush() error }); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
