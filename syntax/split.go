// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package syntax

import "strings"

// RawSegment is one pipeline's unparsed source text. Connector describes
// how this segment was joined to the previous one (ConnNone for the
// first). Background is true when this segment was itself terminated by a
// bare unquoted '&' (the pipeline it becomes should run detached).
type RawSegment struct {
	Connector  Connector
	Text       string
	Background bool
}

// SplitTopLevel splits a logical line into its top-level pipeline segments
// at ';', '&&', '||' and '&', honoring quoting (a connector byte inside
// '…' or "…" does not split). It does not look inside '|' pipe sequences,
// which stay within one segment.
//
// Splitting happens on the raw, not-yet-variable-expanded line. This lets
// callers (see package interp) expand variables and execute one segment
// at a time, so that an assignment in an earlier segment of the same line
// is visible to variable expansion in a later segment — e.g. in
// "FOO=bar; echo $FOO", "echo $FOO" must see the assignment that already
// ran.
func SplitTopLevel(s string) []RawSegment {
	var segs []RawSegment
	nextConn := ConnNone
	start := 0
	i := 0
	inSingle, inDouble := false, false

	flush := func(end int, background bool) {
		text := strings.TrimSpace(s[start:end])
		if text == "" {
			return
		}
		segs = append(segs, RawSegment{Connector: nextConn, Text: text, Background: background})
		nextConn = ConnNone
	}

	for i < len(s) {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
			i++
		case inDouble:
			if c == '"' {
				inDouble = false
			}
			i++
		case c == '\'':
			inSingle = true
			i++
		case c == '"':
			inDouble = true
			i++
		case c == ';':
			flush(i, false)
			nextConn = ConnSemi
			i++
			start = i
		case c == '&' && i+1 < len(s) && s[i+1] == '&':
			flush(i, false)
			nextConn = ConnAnd
			i += 2
			start = i
		case c == '|' && i+1 < len(s) && s[i+1] == '|':
			flush(i, false)
			nextConn = ConnOr
			i += 2
			start = i
		case c == '&':
			// Bare '&': the segment just ended runs detached, and also
			// acts as the connector ('always run next') for whatever
			// follows.
			flush(i, true)
			nextConn = ConnAmp
			i++
			start = i
		default:
			i++
		}
	}
	flush(len(s), false)

	return segs
}
