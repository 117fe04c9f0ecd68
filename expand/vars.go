// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

// Package expand implements cerf's word-expansion stages: variable
// substitution, tilde expansion, alias expansion and glob expansion. Each
// stage is a small, independent function so that package interp can apply
// them in the order spec.md §4.2 requires.
package expand

import "strings"

// Lookup retrieves the value of an environment or shell variable by name,
// reporting whether it is set. An unset variable expands to the empty
// string, matching the POSIX default (no "nounset" mode).
type Lookup func(name string) (string, bool)

// Vars expands variable references in s:
//
//	$$         -> a literal $
//	$VAR       -> the value of VAR (identifier: [A-Za-z_][A-Za-z0-9_]*)
//	${VAR}     -> same, brace-delimited
//	bare $     -> kept as-is, when not followed by an identifier or '{'
//
// Unset variables expand to the empty string. Vars does not recurse into
// its own output, so a variable whose value contains '$' is not expanded
// again.
//
// Vars runs on the raw, not-yet-parsed segment text (see
// syntax.SplitTopLevel), so it tracks quoting itself: a '$' inside a
// single-quoted span is left untouched, matching POSIX quoting rules,
// while one inside a double-quoted span or bare still expands.
func Vars(s string, lookup Lookup) string {
	var b strings.Builder
	b.Grow(len(s))

	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && !inSingle {
			inDouble = !inDouble
			b.WriteByte(c)
			continue
		}
		if c == '\'' && !inSingle && !inDouble {
			inSingle = true
			b.WriteByte(c)
			continue
		}
		if c == '\'' && inSingle {
			inSingle = false
			b.WriteByte(c)
			continue
		}
		if inSingle {
			b.WriteByte(c)
			continue
		}
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte('$')
			break
		}
		next := s[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				// Unterminated ${...}; keep the rest verbatim rather than
				// silently dropping it.
				b.WriteString(s[i:])
				return b.String()
			}
			name := s[i+2 : i+2+end]
			b.WriteString(valueOf(name, lookup))
			i += 2 + end
		case isIdentStart(next):
			j := i + 2
			for j < len(s) && isIdentCont(s[j]) {
				j++
			}
			name := s[i+1 : j]
			b.WriteString(valueOf(name, lookup))
			i = j - 1
		default:
			b.WriteByte('$')
		}
	}
	return b.String()
}

func valueOf(name string, lookup Lookup) string {
	if lookup == nil {
		return ""
	}
	v, _ := lookup(name)
	return v
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
