package executor

import (
	"bytes"
	"io"
)

// StreamName identifies which child stream a chunk or result came from.
type StreamName string

const (
	StreamStdout StreamName = "stdout"
	StreamStderr StreamName = "stderr"
)

// ProcessResult is the outcome of one child execution: the captured text of
// the primary stream, the exit code, and which stream supplied the content.
// Exactly one ProcessResult is produced per execution.
type ProcessResult struct {
	Output   string
	ExitCode int
	Source   StreamName
}

// captureStream drains r to completion into buf, forwarding each chunk to
// onChunk when set for live observation. Output accumulates unbounded in
// memory; expected transcript scale is tens of KB to a few MB. Pathological
// volumes would need spill-to-disk, which this does not do.
func captureStream(r io.Reader, buf *bytes.Buffer, name StreamName, onChunk func(StreamName, string)) error {
	chunk := make([]byte, 32*1024)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if onChunk != nil {
				onChunk(name, string(chunk[:n]))
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
