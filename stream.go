package linestream

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// Mode describes how a resource is opened, following the conventional
// "r"/"w"/"a" compositions with an optional "b" binary marker.
type Mode string

const (
	ModeRead         Mode = "r"
	ModeWrite        Mode = "w"
	ModeAppend       Mode = "a"
	ModeReadBinary   Mode = "rb"
	ModeWriteBinary  Mode = "wb"
	ModeAppendBinary Mode = "ab"
)

// ErrInvalidMode is returned by Open for a mode outside the standard
// read/write/append compositions.
var ErrInvalidMode = errors.New("invalid open mode")

// IsBinary reports whether the mode carries the binary marker.
func (m Mode) IsBinary() bool {
	return strings.ContainsRune(string(m), 'b')
}

// openFlags translates the mode into flags for os.OpenFile.
func (m Mode) openFlags() (int, error) {
	switch strings.TrimSuffix(string(m), "b") {
	case "r":
		return os.O_RDONLY, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	}

	return 0, ErrInvalidMode
}

type aliasKey struct {
	name string
	mode Mode
}

// stdStreams maps well-known (alias, mode) pairs to the process's standard
// streams. It is populated once and never mutated; entries are shared
// process-wide and are never closed by this package.
var stdStreams = map[aliasKey]*os.File{
	{"1", ModeWrite}:        os.Stdout,
	{"2", ModeWrite}:        os.Stderr,
	{"", ModeRead}:          os.Stdin,
	{"", ModeWrite}:         os.Stdout,
	{"-", ModeRead}:         os.Stdin,
	{"-", ModeWrite}:        os.Stdout,
	{"<stdin>", ModeRead}:   os.Stdin,
	{"<stdout>", ModeWrite}: os.Stdout,
	{"<stderr>", ModeWrite}: os.Stderr,
}

// Stream is a handle around one underlying readable resource.
// The handle records whether it owns the resource; Close releases only
// owned resources, so a Stream around a shared standard stream can always
// be closed safely.
type Stream struct {
	r      io.Reader
	br     *bufio.Reader
	name   string
	mode   Mode
	owned  bool
	closed bool
}

// Open returns a Stream for the named resource.
//
// If (name, mode) matches a well-known alias, the returned Stream wraps the
// corresponding standard stream and does not own it. Otherwise name is
// opened as a path with the given mode; the returned Stream owns the file
// and Close will release it. Open failures propagate unchanged.
func Open(name string, mode Mode) (*Stream, error) {
	if f, ok := stdStreams[aliasKey{name, mode}]; ok {
		return &Stream{r: f, name: f.Name(), mode: mode}, nil
	}

	flags, err := mode.openFlags()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(name, flags, 0o644)
	if err != nil {
		return nil, err
	}

	return &Stream{r: f, name: name, mode: mode, owned: true}, nil
}

// Wrap returns a Stream over an in-memory buffer.
// A string becomes a text buffer, a []byte a binary buffer, and any other
// value is converted to its textual representation first.
func Wrap(content any) *Stream {
	switch c := content.(type) {
	case string:
		return &Stream{r: strings.NewReader(c), mode: ModeRead, owned: true}

	case []byte:
		return &Stream{r: bytes.NewReader(c), mode: ModeReadBinary, owned: true}

	default:
		return &Stream{r: strings.NewReader(fmt.Sprint(c)), mode: ModeRead, owned: true}
	}
}

// NewStream wraps a caller-owned reader directly.
// The Stream does not own the resource and its mode is unknown.
func NewStream(r io.Reader) *Stream {
	return &Stream{r: r}
}

// Mode returns the mode the resource was opened with, or "" if unknown.
func (s *Stream) Mode() Mode {
	return s.mode
}

// Name returns the resource's name, or "" if it has none.
func (s *Stream) Name() string {
	return s.name
}

// IsBinary reports whether the underlying resource is in binary mode.
// If the mode is unknown, known is false and the result is indeterminate.
func (s *Stream) IsBinary() (binary bool, known bool) {
	if s.mode == "" {
		return false, false
	}

	return s.mode.IsBinary(), true
}

func (s *Stream) reader() *bufio.Reader {
	if s.br == nil {
		s.br = bufio.NewReader(s.r)
	}

	return s.br
}

// ReadLine returns the next raw line, including its trailing line
// separator. At the end of the resource it returns the final unterminated
// line (if any) together with io.EOF.
func (s *Stream) ReadLine() (string, error) {
	return s.reader().ReadString('\n')
}

// ReadAll returns the remaining contents of the resource.
func (s *Stream) ReadAll() ([]byte, error) {
	return io.ReadAll(s.reader())
}

// Close releases the underlying resource if this Stream owns it, and is a
// no-op otherwise. It is safe to call multiple times.
func (s *Stream) Close() error {
	if !s.owned || s.closed {
		return nil
	}

	s.closed = true

	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

// All returns the raw lines of the resource, in order, as a lazy sequence.
// The sequence is finite, forward-only, and not restartable: it advances
// the underlying resource, and a second iteration after exhaustion yields
// nothing. A read failure is yielded as the final element.
func (s *Stream) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := s.ReadLine()

			if line != "" {
				if !yield(line, nil) {
					return
				}
			}

			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield("", err)
				}

				return
			}
		}
	}
}

// Lines reads the remaining raw lines into a slice, preserving order.
func (s *Stream) Lines() ([]string, error) {
	var lines []string

	for line, err := range s.All() {
		if err != nil {
			return lines, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}
