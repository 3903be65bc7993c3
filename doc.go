// Package linestream wraps readable resources and layers chainable line
// filters on top of them, producing lazily-evaluated sequences of processed
// lines.
//
// A Stream is a handle around one underlying resource: a file opened by the
// package, one of the process's standard streams resolved from a well-known
// alias ("1", "2", "", "-", "<stdin>", "<stdout>", "<stderr>"), or an
// in-memory buffer. The handle knows whether it owns the resource; Close
// releases only resources the package opened itself, so closing a handle
// around a shared standard stream is always safe.
//
// A Pipeline attaches an ordered chain of filters to a Stream. Each filter
// maps a line to either Keep(line) or Drop; the first Drop excludes the line
// and skips the remaining filters. Fluent constructors cover the common
// shell-like transforms: TrimNewline, NonBlank, Strip, Replace, Grep,
// Ungrep, Sub, SplitFormat, Quote.
//
// Iteration is demand-driven and strictly ordered: lines are pulled from the
// underlying resource one at a time, transformed, and yielded. Stopping
// consumption at any point halts the pipeline.
//
//	s, err := linestream.Open("access.log", linestream.ModeRead)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	lines, err := linestream.Pipe(s).
//		TrimNewline().
//		NonBlank().
//		Grep(`GET /api/`).
//		SplitFormat("{0} {6}", "", -1).
//		Lines()
package linestream
