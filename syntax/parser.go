// Copyright (c) 2026, cerf authors
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"strings"
)

// ParseError is returned by Parser.Parse on malformed input. It carries the
// byte offset where parsing failed, counted in the (already
// variable-expanded) line after leading and trailing whitespace is trimmed.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Parser parses one logical input line into a list of Entry values. A
// Parser holds no state between calls and is safe to reuse or share.
type Parser struct{}

// NewParser returns a ready-to-use Parser.
func NewParser() *Parser { return &Parser{} }

// Parse parses input (which must already have had variable expansion
// applied — see package expand) into a command list.
//
// It returns (nil, nil) for an empty line, a comment line (leading '#'
// after trimming), or a line that consists solely of ';' separators — all
// three are no-ops per spec. Any other malformed input returns a
// *ParseError.
func (p *Parser) Parse(input string) ([]*Entry, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}
	if isOnlySemicolons(trimmed) {
		return nil, nil
	}

	st := &parseState{src: trimmed}

	var entries []*Entry
	first, err := st.parsePipeline()
	if err != nil {
		return nil, err
	}
	entries = append(entries, &Entry{Connector: ConnNone, Pipeline: first})

	for {
		conn, ok := st.parseConnector()
		if !ok {
			break
		}
		st.skipSpaces()
		if st.atEnd() {
			// Trailing connector with nothing after it (e.g. "cmd ;" or
			// "cmd &&") is fine for ';' and '&' (background already
			// applied) but an error for '&&'/'||', which require a
			// right-hand pipeline.
			if conn == ConnAnd || conn == ConnOr {
				return nil, &ParseError{Offset: st.pos, Msg: "expected command after " + conn.String()}
			}
			break
		}
		pl, err := st.parsePipeline()
		if err != nil {
			return nil, err
		}
		entries = append(entries, &Entry{Connector: conn, Pipeline: pl})
	}

	return entries, nil
}

func isOnlySemicolons(s string) bool {
	for _, r := range s {
		if r != ';' && r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}

// parseState is the shared mutable cursor used while parsing one line.
type parseState struct {
	src string
	pos int
}

func (st *parseState) atEnd() bool { return st.pos >= len(st.src) }

func (st *parseState) rest() string { return st.src[st.pos:] }

func (st *parseState) peekByte() byte {
	if st.atEnd() {
		return 0
	}
	return st.src[st.pos]
}

func (st *parseState) skipSpaces() {
	for !st.atEnd() {
		c := st.src[st.pos]
		if c == ' ' || c == '\t' {
			st.pos++
			continue
		}
		break
	}
}

// parseConnector consumes a connector token (with any leading whitespace)
// and reports whether one was found.
func (st *parseState) parseConnector() (Connector, bool) {
	save := st.pos
	st.skipSpaces()
	if st.atEnd() {
		st.pos = save
		return ConnNone, false
	}
	switch {
	case strings.HasPrefix(st.rest(), "&&"):
		st.pos += 2
		return ConnAnd, true
	case strings.HasPrefix(st.rest(), "||"):
		st.pos += 2
		return ConnOr, true
	case st.peekByte() == ';':
		st.pos++
		return ConnSemi, true
	case st.peekByte() == '&':
		st.pos++
		return ConnAmp, true
	default:
		st.pos = save
		return ConnNone, false
	}
}

// parsePipeline parses: ['!'] command ('|' command)*
// A trailing unquoted '&' at the pipeline's end sets Background; the '&'
// itself is left in place for parseConnector to consume as ConnAmp.
func (st *parseState) parsePipeline() (*Pipeline, error) {
	st.skipSpaces()

	negated := false
	if st.peekByte() == '!' {
		after := byte(0)
		if st.pos+1 < len(st.src) {
			after = st.src[st.pos+1]
		}
		if after == 0 || after == ' ' || after == '\t' {
			negated = true
			st.pos++
			st.skipSpaces()
			if st.atEnd() || isConnectorOrPipeAhead(st.rest()) {
				return nil, &ParseError{Offset: st.pos, Msg: "expected command after '!'"}
			}
		}
	}

	pl := &Pipeline{Negated: negated}

	for {
		cmd, err := st.parseCommand()
		if err != nil {
			return nil, err
		}
		pl.Commands = append(pl.Commands, cmd)

		save := st.pos
		st.skipSpaces()
		if st.peekByte() == '|' && !strings.HasPrefix(st.rest(), "||") {
			st.pos++
			st.skipSpaces()
			if st.atEnd() || isConnectorAhead(st.rest()) {
				return nil, &ParseError{Offset: st.pos, Msg: "expected command after '|'"}
			}
			continue
		}
		st.pos = save
		break
	}

	// Trailing unquoted '&' (not '&&') backgrounds this pipeline. It is
	// only consumed here when it is not part of a connector sequence the
	// caller will see as ConnAmp; both readings are equivalent, so we let
	// parseConnector (called by Parse) handle the actual consumption and
	// merely peek here to decide Background.
	save := st.pos
	st.skipSpaces()
	if st.peekByte() == '&' && !strings.HasPrefix(st.rest(), "&&") {
		pl.Background = true
	}
	st.pos = save

	return pl, nil
}

func isConnectorOrPipeAhead(s string) bool {
	return isConnectorAhead(s) || strings.HasPrefix(s, "|")
}

func isConnectorAhead(s string) bool {
	return strings.HasPrefix(s, ";") || strings.HasPrefix(s, "&&") ||
		strings.HasPrefix(s, "||") || strings.HasPrefix(s, "&")
}

// parseCommand parses: assignment* [word (word | redirect)*]
func (st *parseState) parseCommand() (*Command, error) {
	cmd := &Command{}

	for {
		st.skipSpaces()
		if st.atEnd() || isConnectorAhead(st.rest()) || st.peekByte() == '|' {
			break
		}
		name, value, ok := st.tryParseAssignment()
		if !ok {
			break
		}
		cmd.Assignments = append(cmd.Assignments, Assignment{Name: name, Value: value})
	}

	for {
		st.skipSpaces()
		if st.atEnd() || isConnectorAhead(st.rest()) || st.peekByte() == '|' {
			break
		}

		if kind, ok := peekRedirectOp(st.rest()); ok {
			st.pos += len(kind.String())
			st.skipSpaces()
			if st.atEnd() || isConnectorAhead(st.rest()) || st.peekByte() == '|' {
				return nil, &ParseError{Offset: st.pos, Msg: "expected filename after redirect"}
			}
			word, err := st.parseWord()
			if err != nil {
				return nil, err
			}
			cmd.Redirects = append(cmd.Redirects, Redirect{Kind: kind, File: word.Value})
			continue
		}

		word, err := st.parseWord()
		if err != nil {
			return nil, err
		}
		if !cmd.HasName {
			cmd.Name = word.Value
			cmd.HasName = true
		} else {
			cmd.Args = append(cmd.Args, word)
		}
	}

	if len(cmd.Assignments) == 0 && !cmd.HasName && len(cmd.Redirects) == 0 {
		return nil, &ParseError{Offset: st.pos, Msg: "expected a command"}
	}

	return cmd, nil
}

// tryParseAssignment looks for a raw (unquoted) NAME= prefix at the current
// position. Assignment detection only honors an unquoted identifier: the
// characters up to and including '=' must not come from a quoted segment.
func (st *parseState) tryParseAssignment() (name, value string, ok bool) {
	s := st.rest()
	i := 0
	if i >= len(s) || !isIdentStart(s[i]) {
		return "", "", false
	}
	i++
	for i < len(s) && isIdentCont(s[i]) {
		i++
	}
	if i >= len(s) || s[i] != '=' {
		return "", "", false
	}
	name = s[:i]
	st.pos += i + 1 // consume NAME=; no space is permitted before the value

	if st.atEnd() || isConnectorAhead(st.rest()) || st.peekByte() == '|' ||
		st.peekByte() == ' ' || st.peekByte() == '\t' {
		return name, "", true
	}
	word, err := st.parseWord()
	if err != nil {
		return name, "", true
	}
	return name, word.Value, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func peekRedirectOp(s string) (RedirectKind, bool) {
	switch {
	case strings.HasPrefix(s, ">>"):
		return StdoutAppend, true
	case strings.HasPrefix(s, ">"):
		return StdoutOverwrite, true
	case strings.HasPrefix(s, "<"):
		return StdinFrom, true
	default:
		return 0, false
	}
}

// excludedUnquotedBytes are the bytes that terminate an unquoted segment.
const excludedUnquotedBytes = " \t\"';&|><"

// parseWord parses: segment+  where segment := dquoted | squoted | unquoted
func (st *parseState) parseWord() (Arg, error) {
	var b strings.Builder
	segments := 0
	soleQuoted := false

	for {
		if st.atEnd() {
			break
		}
		c := st.peekByte()
		switch c {
		case '"':
			seg, err := st.parseDquoted()
			if err != nil {
				return Arg{}, err
			}
			b.WriteString(seg)
			segments++
			soleQuoted = segments == 1
		case '\'':
			seg, err := st.parseSquoted()
			if err != nil {
				return Arg{}, err
			}
			b.WriteString(seg)
			segments++
			soleQuoted = segments == 1
		default:
			if strings.ContainsRune(excludedUnquotedBytes, rune(c)) {
				goto done
			}
			seg := st.parseUnquoted()
			if seg == "" {
				goto done
			}
			b.WriteString(seg)
			segments++
			soleQuoted = false
		}
		continue
	done:
		break
	}

	if segments == 0 {
		return Arg{}, &ParseError{Offset: st.pos, Msg: "expected a word"}
	}

	return Arg{Value: b.String(), Quoted: segments == 1 && soleQuoted}, nil
}

func (st *parseState) parseDquoted() (string, error) {
	start := st.pos
	st.pos++ // consume opening quote
	i := strings.IndexByte(st.rest(), '"')
	if i < 0 {
		return "", &ParseError{Offset: start, Msg: "unterminated double-quoted string"}
	}
	content := st.rest()[:i]
	st.pos += i + 1
	return content, nil
}

func (st *parseState) parseSquoted() (string, error) {
	start := st.pos
	st.pos++ // consume opening quote
	i := strings.IndexByte(st.rest(), '\'')
	if i < 0 {
		return "", &ParseError{Offset: start, Msg: "unterminated single-quoted string"}
	}
	content := st.rest()[:i]
	st.pos += i + 1
	return content, nil
}

func (st *parseState) parseUnquoted() string {
	s := st.rest()
	i := strings.IndexAny(s, excludedUnquotedBytes)
	if i < 0 {
		st.pos += len(s)
		return s
	}
	st.pos += i
	return s[:i]
}
