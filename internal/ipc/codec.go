package ipc

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// maxFrameBytes bounds a single message so a malformed or adversarial child
// process cannot make the host allocate unbounded memory reading a length
// prefix.
const maxFrameBytes = 64 << 20

// Writer sends Messages as length-prefixed JSON frames: a big-endian uint32
// byte count, followed by that many bytes of JSON. One writer is meant for one
// direction of one pipe; callers serialize their own writes, but Writer also
// guards with a mutex since log forwarding and state updates can
// originate from different goroutines in the worker process.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w for framed Message writes.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) writeFrame(msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("ipc: marshal %s: %w", msg.Kind, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if _, err := w.w.Write(prefix[:]); err != nil {
		return fmt.Errorf("ipc: write length prefix: %w", err)
	}
	if _, err := w.w.Write(body); err != nil {
		return fmt.Errorf("ipc: write frame body: %w", err)
	}
	return nil
}

// Update sends a state-update notification.
func (w *Writer) Update(message *string, progress *float64) error {
	return w.writeFrame(updateMessage(message, progress))
}

// Log forwards one captured log line.
func (w *Writer) Log(entry jobapi.LogEntry) error {
	return w.writeFrame(logMessage(entry))
}

// Complete signals the model's entrypoint returned normally.
func (w *Writer) Complete(stats jobapi.Stats) error {
	return w.writeFrame(completeMessage(stats))
}

// Fail signals the model raised, or the harness synthesized, an exception.
func (w *Writer) Fail(exc jobapi.Exception, stats jobapi.Stats) error {
	return w.writeFrame(failMessage(exc, stats))
}

// Results sends the assembled output-port results.
func (w *Writer) Results(results map[string]json.RawMessage) error {
	return w.writeFrame(resultsMessage(results))
}

// Reader reads length-prefixed Message frames from a byte stream (spec.md §4.5
// "one-way, ordered byte stream"), such as the read end of the pipe the host
// holds for a worker subprocess's stdout-adjacent IPC file descriptor.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r for framed Message reads.
func NewReader(r io.Reader) *Reader { return &Reader{br: bufio.NewReader(r)} }

// Next reads the next frame, blocking until one arrives. It returns io.EOF when
// the underlying stream closes cleanly between frames — the host's signal that
// the worker process has exited.
func (r *Reader) Next() (Message, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r.br, prefix[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Message{}, fmt.Errorf("ipc: truncated length prefix: %w", io.ErrUnexpectedEOF)
		}
		return Message{}, err
	}

	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxFrameBytes {
		return Message{}, fmt.Errorf("ipc: frame of %d bytes exceeds %d byte limit", n, maxFrameBytes)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r.br, body); err != nil {
		return Message{}, fmt.Errorf("ipc: read frame body: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("ipc: unmarshal frame: %w", err)
	}
	return msg, nil
}
