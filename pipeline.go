package linestream

import (
	"iter"

	"golang.org/x/exp/slices"
)

// Result is the outcome of applying a filter to a line: either a (possibly
// modified) line to keep, or a drop signal excluding the line from output.
type Result struct {
	line string
	drop bool
}

// Keep returns a Result carrying line onward through the chain.
func Keep(line string) Result {
	return Result{line: line}
}

// Drop returns the Result that excludes the current line from output and
// skips the remaining filters in the chain.
func Drop() Result {
	return Result{drop: true}
}

// FilterFunc transforms one line. Returning Drop excludes the line; a
// non-nil error aborts the whole iteration at that line.
type FilterFunc func(line string) (Result, error)

// Pipeline is a Stream plus an ordered chain of line filters.
// Iterating the Pipeline lazily applies every filter to each raw line in
// attachment order, short-circuiting the line out of the output the moment
// a filter drops it.
type Pipeline struct {
	src     *Stream
	filters []FilterFunc
	err     error
}

// Pipe returns a Pipeline over s with the given initial filter chain.
func Pipe(s *Stream, filters ...FilterFunc) *Pipeline {
	return &Pipeline{src: s, filters: filters}
}

// Copy returns a new Pipeline over the same underlying stream with an
// independent copy of the current filter chain. Appending to the copy does
// not affect the original, but both still read from the same single-pass
// resource and must not be iterated concurrently.
func (p *Pipeline) Copy() *Pipeline {
	return &Pipeline{src: p.src, filters: slices.Clone(p.filters), err: p.err}
}

// Attach appends the given filters to the end of the chain.
func (p *Pipeline) Attach(filters ...FilterFunc) *Pipeline {
	p.filters = append(p.filters, filters...)
	return p
}

// Apply appends a filter that replaces each line with fn(line).
func (p *Pipeline) Apply(fn func(line string) string) *Pipeline {
	return p.Attach(func(line string) (Result, error) {
		return Keep(fn(line)), nil
	})
}

// TryApply appends a filter that replaces each line with fn(line).
// A non-nil error from fn aborts the iteration at that line.
func (p *Pipeline) TryApply(fn func(line string) (string, error)) *Pipeline {
	return p.Attach(func(line string) (Result, error) {
		out, err := fn(line)
		if err != nil {
			return Result{}, err
		}

		return Keep(out), nil
	})
}

// fail latches the first construction error. It surfaces from the next
// iteration before any output is produced.
func (p *Pipeline) fail(err error) *Pipeline {
	if p.err == nil {
		p.err = err
	}

	return p
}

// apply runs the filter chain over line, left to right, stopping at the
// first Drop or error.
func (p *Pipeline) apply(line string) (Result, error) {
	res := Keep(line)

	for _, filter := range p.filters {
		var err error

		res, err = filter(res.line)
		if err != nil {
			return Result{}, err
		}

		if res.drop {
			break
		}
	}

	return res, nil
}

// All returns the transformed lines as a lazy sequence, in the order the
// underlying resource produces them. The first read or transform failure is
// yielded as the final element and halts the iteration; lines already
// yielded remain valid. Like the Stream itself, the sequence is finite,
// forward-only, and not restartable.
func (p *Pipeline) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if p.err != nil {
			yield("", p.err)
			return
		}

		for line, err := range p.src.All() {
			if err != nil {
				yield("", err)
				return
			}

			res, err := p.apply(line)
			if err != nil {
				yield("", err)
				return
			}

			if res.drop {
				continue
			}

			if !yield(res.line, nil) {
				return
			}
		}
	}
}

// Lines materializes the lazy sequence into a slice, preserving order.
// On failure it returns the lines produced so far together with the error.
func (p *Pipeline) Lines() ([]string, error) {
	var lines []string

	for line, err := range p.All() {
		if err != nil {
			return lines, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// Each calls fn for each transformed line, in order. If fn returns a
// non-nil error, iteration stops and Each returns that error.
func (p *Pipeline) Each(fn func(line string) error) error {
	for line, err := range p.All() {
		if err != nil {
			return err
		}

		if err := fn(line); err != nil {
			return err
		}
	}

	return nil
}
