package linestream

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// ErrBinaryStream is the error used by Quote to reject a stream that is
// opened in binary mode.
var ErrBinaryStream = errors.New("stream is opened in binary mode")

// A GroupError is returned as a transform error by a GrepGroup filter whose
// group index is outside the pattern's capture groups.
type GroupError struct {
	// Pattern is the pattern the group was requested from.
	Pattern string

	// Group is the requested capture group index.
	Group int
}

// Error implements error.
func (e *GroupError) Error() string {
	return fmt.Sprintf("pattern %q has no capture group %d", e.Pattern, e.Group)
}

// A TemplateError is returned as a transform error by a SplitFormat filter
// whose template contains a placeholder that cannot be resolved.
type TemplateError struct {
	// Template is the offending format template.
	Template string

	// Placeholder is the placeholder content that could not be resolved.
	Placeholder string
}

// Error implements error.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("cannot resolve placeholder %q in template %q", e.Placeholder, e.Template)
}

// TrimNewline appends a filter that strips one trailing line separator
// ("\n" or "\r\n") from the line, followed by any extra filters.
func (p *Pipeline) TrimNewline(extra ...FilterFunc) *Pipeline {
	p.Apply(trimNewline)
	return p.Attach(extra...)
}

// NonBlank appends a filter that drops a line whose whitespace-stripped
// content is empty, and passes the stripped content through otherwise,
// followed by any extra filters.
func (p *Pipeline) NonBlank(extra ...FilterFunc) *Pipeline {
	p.Attach(func(line string) (Result, error) {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			return Drop(), nil
		}

		return Keep(stripped), nil
	})

	return p.Attach(extra...)
}

// Strip appends a filter that trims characters from both ends of the line:
// the characters of the given cutset, or whitespace if none is given.
func (p *Pipeline) Strip(cutset ...string) *Pipeline {
	if len(cutset) == 0 {
		return p.Apply(strings.TrimSpace)
	}

	chars := cutset[0]

	return p.Apply(func(line string) string {
		return strings.Trim(line, chars)
	})
}

// Replace appends a filter that replaces all literal occurrences of old
// with new.
func (p *Pipeline) Replace(old, new string) *Pipeline {
	return p.Apply(func(line string) string {
		return strings.ReplaceAll(line, old, new)
	})
}

// Grep appends a filter that drops every line the pattern does not match,
// and passes matching lines through unchanged. Flags go inline in the
// pattern ("(?i)" and friends).
func (p *Pipeline) Grep(pattern string) *Pipeline {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return p.fail(err)
	}

	return p.Attach(func(line string) (Result, error) {
		if re.MatchString(line) {
			return Keep(line), nil
		}

		return Drop(), nil
	})
}

// GrepGroup appends a filter that drops every line the pattern does not
// match, and replaces matching lines with the text of the given capture
// group. A group index outside the pattern's groups is a transform error.
func (p *Pipeline) GrepGroup(pattern string, group int) *Pipeline {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return p.fail(err)
	}

	return p.Attach(func(line string) (Result, error) {
		match := re.FindStringSubmatch(line)
		if match == nil {
			return Drop(), nil
		}

		if group < 0 || group >= len(match) {
			return Result{}, &GroupError{Pattern: pattern, Group: group}
		}

		return Keep(match[group]), nil
	})
}

// Ungrep appends a filter that drops every line the pattern matches, and
// passes the rest through unchanged.
func (p *Pipeline) Ungrep(pattern string) *Pipeline {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return p.fail(err)
	}

	return p.Attach(func(line string) (Result, error) {
		if re.MatchString(line) {
			return Drop(), nil
		}

		return Keep(line), nil
	})
}

// Sub appends a filter that replaces all matches of the pattern with repl.
// Capture group references ("$1") in repl are expanded.
func (p *Pipeline) Sub(pattern, repl string) *Pipeline {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return p.fail(err)
	}

	return p.Apply(func(line string) string {
		return re.ReplaceAllString(line, repl)
	})
}

// SplitFormat appends a filter that splits the line on sep and formats the
// parts into the template's positional placeholders ("{}", "{0}", "{1}").
// An empty sep splits on runs of whitespace. maxSplit limits the number of
// splits; a negative value means unlimited. The parts are padded with empty
// strings so that a template with more placeholders than the line has parts
// formats cleanly instead of failing.
func (p *Pipeline) SplitFormat(template, sep string, maxSplit int) *Pipeline {
	return p.Attach(func(line string) (Result, error) {
		var parts []string
		if sep == "" {
			parts = splitSpace(line, maxSplit)
		} else {
			parts = splitSep(line, sep, maxSplit)
		}

		out, err := formatParts(template, parts)
		if err != nil {
			return Result{}, err
		}

		return Keep(out), nil
	})
}

// SplitFormatPattern is SplitFormat with a pattern-based split instead of a
// plain separator.
func (p *Pipeline) SplitFormatPattern(template, pattern string, maxSplit int) *Pipeline {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return p.fail(err)
	}

	return p.Attach(func(line string) (Result, error) {
		count := -1
		if maxSplit >= 0 {
			count = maxSplit + 1
		}

		out, err := formatParts(template, re.Split(line, count))
		if err != nil {
			return Result{}, err
		}

		return Keep(out), nil
	})
}

// Quote appends a filter that rewrites the line so that it evaluates to
// exactly the original text on a POSIX shell command line. If strip is
// true, a whitespace Strip is chained first. Quote fails with
// ErrBinaryStream if the underlying stream is known to be in binary mode;
// the error surfaces before any output is produced.
func (p *Pipeline) Quote(strip bool) *Pipeline {
	if binary, known := p.src.IsBinary(); known && binary {
		return p.fail(ErrBinaryStream)
	}

	if strip {
		p.Strip()
	}

	return p.Apply(shellescape.Quote)
}

func trimNewline(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

const spaceCutset = " \t\n\v\f\r"

// splitSpace splits on runs of whitespace, discarding leading and trailing
// whitespace. After maxSplit splits the remainder is kept as one part.
func splitSpace(line string, maxSplit int) []string {
	if maxSplit < 0 {
		return strings.Fields(line)
	}

	parts := []string{}
	rest := line

	for ; maxSplit > 0; maxSplit-- {
		rest = strings.TrimLeft(rest, spaceCutset)
		if rest == "" {
			return parts
		}

		i := strings.IndexAny(rest, spaceCutset)
		if i < 0 {
			return append(parts, rest)
		}

		parts = append(parts, rest[:i])
		rest = rest[i:]
	}

	rest = strings.TrimLeft(rest, spaceCutset)
	if rest != "" {
		parts = append(parts, rest)
	}

	return parts
}

func splitSep(line, sep string, maxSplit int) []string {
	if maxSplit < 0 {
		return strings.Split(line, sep)
	}

	return strings.SplitN(line, sep, maxSplit+1)
}

// templateSlots is the minimum number of positional parts a template is
// formatted with; shorter part lists are padded with empty strings.
const templateSlots = 8

// formatParts resolves the template's "{}"/"{N}" placeholders against
// parts, padded with empty strings up to max(count of '{', templateSlots)
// so every placeholder a padded template can name resolves. "{{" and "}}"
// are literal braces.
func formatParts(template string, parts []string) (string, error) {
	slots := strings.Count(template, "{")
	if slots < templateSlots {
		slots = templateSlots
	}

	for len(parts) < slots {
		parts = append(parts, "")
	}

	var b strings.Builder

	next := 0

	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++

				continue
			}

			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", &TemplateError{Template: template, Placeholder: template[i:]}
			}

			name := template[i+1 : i+1+end]

			idx := next
			if name == "" {
				next++
			} else {
				n, err := strconv.Atoi(name)
				if err != nil {
					return "", &TemplateError{Template: template, Placeholder: name}
				}

				idx = n
			}

			if idx < 0 || idx >= len(parts) {
				return "", &TemplateError{Template: template, Placeholder: name}
			}

			b.WriteString(parts[idx])

			i += end + 1

		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i++

				continue
			}

			return "", &TemplateError{Template: template, Placeholder: "}"}

		default:
			b.WriteByte(template[i])
		}
	}

	return b.String(), nil
}
