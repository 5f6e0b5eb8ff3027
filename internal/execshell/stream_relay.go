package execshell

import (
	"errors"
	"io"

	"github.com/temirov/aws-login/internal/failure"
)

// StreamRelay copies a child process stream into a shared sink one byte at a time.
type StreamRelay struct {
	source      io.Reader
	destination *SharedSink
}

// NewStreamRelay constructs a relay from source to destination.
func NewStreamRelay(source io.Reader, destination *SharedSink) *StreamRelay {
	return &StreamRelay{source: source, destination: destination}
}

// Run relays until the source reports end of stream. Read and write errors are reported as relay failures;
// after a write failure the source is drained, after a read failure it is closed when it supports closing.
func (relay *StreamRelay) Run() error {
	if relay == nil || relay.source == nil {
		return nil
	}

	var buffer [1]byte
	for {
		bytesRead, readError := relay.source.Read(buffer[:])
		if bytesRead > 0 {
			if _, writeError := relay.destination.Write(buffer[:bytesRead]); writeError != nil {
				// keep the child from blocking on a full pipe
				_, _ = io.Copy(io.Discard, relay.source)
				return failure.Wrap(failure.KindRelayIOFailure, failure.DefaultExitCode, writeError)
			}
		}

		switch {
		case readError == nil && bytesRead == 0:
			return nil
		case readError == nil:
			continue
		case errors.Is(readError, io.EOF):
			return nil
		default:
			// the child must see a broken pipe instead of blocking on a full one
			if closer, closable := relay.source.(io.Closer); closable {
				_ = closer.Close()
			}
			return failure.Wrap(failure.KindRelayIOFailure, failure.DefaultExitCode, readError)
		}
	}
}
