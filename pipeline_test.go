package linestream

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestPipe_EmptyChain(t *testing.T) {
	is := is.New(t)

	lines, err := Pipe(Wrap("a\nb\n\nc")).Lines()
	is.NoErr(err)

	is.Equal(lines, []string{"a\n", "b\n", "\n", "c"})
}

func TestPipeline_Copy(t *testing.T) {
	is := is.New(t)

	p := Pipe(Wrap("")).TrimNewline().Strip()

	q := p.Copy().Replace("a", "b")

	is.Equal(len(p.filters), 2)
	is.Equal(len(q.filters), 3)
}

func TestPipeline_CopySharesStream(t *testing.T) {
	is := is.New(t)

	p := Pipe(Wrap("a\nb\n")).TrimNewline()
	q := p.Copy()

	lines, err := p.Lines()
	is.NoErr(err)
	is.Equal(lines, []string{"a", "b"})

	// the copy reads from the same single-pass resource
	lines, err = q.Lines()
	is.NoErr(err)
	is.Equal(len(lines), 0)
}

func TestPipeline_ShortCircuit(t *testing.T) {
	is := is.New(t)

	seen := []string{}

	p := Pipe(Wrap("keep\ndrop\n")).TrimNewline()

	p.Attach(func(line string) (Result, error) {
		if line == "drop" {
			return Drop(), nil
		}

		return Keep(line), nil
	})

	p.Attach(func(line string) (Result, error) {
		seen = append(seen, line)
		return Keep(line), nil
	})

	lines, err := p.Lines()
	is.NoErr(err)

	is.Equal(lines, []string{"keep"})
	is.Equal(seen, []string{"keep"})
}

func TestPipeline_Apply(t *testing.T) {
	is := is.New(t)

	lines, err := Pipe(Wrap("a\nb\n")).TrimNewline().Apply(strings.ToUpper).Lines()
	is.NoErr(err)

	is.Equal(lines, []string{"A", "B"})
}

func TestPipeline_TryApply(t *testing.T) {
	is := is.New(t)

	errBoom := errors.New("boom")

	p := Pipe(Wrap("a\nb\nc\n")).TrimNewline()

	p.TryApply(func(line string) (string, error) {
		if line == "b" {
			return "", errBoom
		}

		return line, nil
	})

	lines, err := p.Lines()
	is.True(errors.Is(err, errBoom))

	// output yielded before the failure remains valid
	is.Equal(lines, []string{"a"})
}

func TestPipeline_LatchedError(t *testing.T) {
	is := is.New(t)

	p := Pipe(Wrap("a\n")).Grep("(")

	lines, err := p.Lines()
	is.True(err != nil)
	is.Equal(len(lines), 0)
}

func TestPipeline_Each(t *testing.T) {
	is := is.New(t)

	lines := []string{}

	err := Pipe(Wrap("a\nb\n")).TrimNewline().Each(func(line string) error {
		lines = append(lines, line)
		return nil
	})
	is.NoErr(err)

	is.Equal(lines, []string{"a", "b"})
}

func TestPipeline_EachStops(t *testing.T) {
	is := is.New(t)

	errStop := errors.New("stop")

	lines := []string{}

	err := Pipe(Wrap("a\nb\nc\n")).TrimNewline().Each(func(line string) error {
		lines = append(lines, line)

		if line == "b" {
			return errStop
		}

		return nil
	})

	is.True(errors.Is(err, errStop))
	is.Equal(lines, []string{"a", "b"})
}

func TestPipeline_EarlyAbandon(t *testing.T) {
	is := is.New(t)

	p := Pipe(Wrap("a\nb\nc\n")).TrimNewline()

	for line, err := range p.All() {
		is.NoErr(err)
		is.Equal(line, "a")

		break
	}

	// abandoning leaves the resource at the position it had reached
	lines, err := p.Lines()
	is.NoErr(err)
	is.Equal(lines, []string{"b", "c"})
}
