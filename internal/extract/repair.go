package extract

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Repair turns a possibly fenced, truncated JSON reply into valid compact
// JSON. It tries, in order: the text with code fences removed; the text
// with an open string and open brackets closed; the text cut back to its
// last complete value. ErrUnrecoverableResponse is returned when nothing
// parses.
func Repair(text string) ([]byte, error) {
	s := stripFences(text)
	if s == "" {
		return nil, ErrUnrecoverableResponse
	}
	if out, ok := compact(s); ok {
		return out, nil
	}

	st := scan(s)

	closed := s
	if st.inString {
		if st.escaped {
			closed = closed[:len(closed)-1]
		}
		closed += `"`
	}
	for i := len(st.stack) - 1; i >= 0; i-- {
		closed += string(st.stack[i])
	}
	if out, ok := compact(closed); ok {
		return out, nil
	}

	if st.lastTop > 0 {
		if out, ok := compact(s[:st.lastTop]); ok {
			return out, nil
		}
	}
	if st.lastElem > 0 && st.outer != 0 {
		if out, ok := compact(s[:st.lastElem] + string(st.outer)); ok {
			return out, nil
		}
	}
	return nil, ErrUnrecoverableResponse
}

func stripFences(text string) string {
	s := strings.ReplaceAll(text, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func compact(s string) ([]byte, bool) {
	if !json.Valid([]byte(s)) {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

// scanState is what a single pass over the text learns about its nesting
type scanState struct {
	inString bool
	escaped  bool
	// stack holds the closer expected for every open bracket
	stack []byte
	// outer is the closer of the outermost bracket
	outer byte
	// lastTop is the offset just past the last bracket closing at depth 0
	lastTop int
	// lastElem is the offset just past the last bracket closing back to depth 1
	lastElem int
}

func scan(s string) scanState {
	var st scanState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.inString {
			switch {
			case st.escaped:
				st.escaped = false
			case c == '\\':
				st.escaped = true
			case c == '"':
				st.inString = false
			}
			continue
		}

		switch c {
		case '"':
			st.inString = true
		case '{', '[':
			closer := byte('}')
			if c == '[' {
				closer = ']'
			}
			if len(st.stack) == 0 {
				st.outer = closer
			}
			st.stack = append(st.stack, closer)
		case '}', ']':
			n := len(st.stack)
			if n == 0 || st.stack[n-1] != c {
				continue
			}
			st.stack = st.stack[:n-1]
			switch len(st.stack) {
			case 0:
				st.lastTop = i + 1
			case 1:
				st.lastElem = i + 1
			}
		}
	}
	return st
}
