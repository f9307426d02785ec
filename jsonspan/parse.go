package jsonspan

import (
	"fmt"

	"github.com/tlscontext/webtranscript/span"
	"github.com/tlscontext/webtranscript/transcript"
)

// Parser is a single-pass recursive-descent JSON parser that recognizes a
// contiguous run of Sentinel bytes anywhere a value, string, or key is
// expected as a Redacted node, including mid-literal (e.g. "12*" parses as
// one Redacted spanning all three bytes, not a Number followed by a
// Redacted). It deliberately does not use encoding/json: byte-exact span
// tracking through redacted regions requires owning the scan position.
type Parser struct {
	// Sentinel is the byte value treated as a redaction marker. Defaults to
	// transcript.DefaultSentinel ('*') via NewParser.
	Sentinel byte
}

// NewParser creates a Parser using the default sentinel byte.
func NewParser() *Parser {
	return &Parser{Sentinel: transcript.DefaultSentinel}
}

// Parse parses data as a single JSON value tolerant of sentinel runs.
func Parse(data []byte) (Value, error) {
	return NewParser().Parse(data)
}

// Parse parses data using p's configured sentinel byte.
func (p *Parser) Parse(data []byte) (Value, error) {
	st := &state{src: data, sentinel: p.Sentinel}
	v, err := st.parseValue()
	if err != nil {
		return nil, err
	}
	st.skipWS()
	if st.pos != len(data) {
		return nil, transcript.NewMalformed(st.pos, "trailing bytes after JSON value")
	}
	return v, nil
}

type state struct {
	src      []byte
	pos      int
	sentinel byte
}

func isJSONWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (s *state) skipWS() {
	for s.pos < len(s.src) && isJSONWhitespace(s.src[s.pos]) {
		s.pos++
	}
}

// mk builds a span.Span over [start, end) of the parser's source buffer.
func (s *state) mk(start, end int) span.Span {
	return span.New(s.src, uint64(start), uint64(end))
}

func (s *state) parseValue() (Value, error) {
	s.skipWS()
	if s.pos >= len(s.src) {
		return nil, transcript.NewUnexpectedEnd("expected a JSON value")
	}
	b := s.src[s.pos]
	switch {
	case b == '{':
		return s.parseObject()
	case b == '[':
		return s.parseArray()
	case b == '"':
		return s.parseStringValue()
	case b == 't' || b == 'f':
		return s.parseBoolOrRedacted()
	case b == 'n':
		return s.parseNullOrRedacted()
	case b == '-' || isDigit(b):
		return s.parseNumberOrRedacted()
	case b == s.sentinel:
		return s.parseRedacted()
	default:
		return nil, transcript.NewMalformed(s.pos, fmt.Sprintf("unexpected byte %q", b))
	}
}

func (s *state) parseRedacted() (Value, error) {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
		s.pos++
	}
	return Redacted{span: s.mk(start, s.pos)}, nil
}

// matchLiteralOrRedacted advances past literal starting at the current
// position, or, if a sentinel byte is found before literal completes,
// consumes the maximal sentinel run starting from literal's first byte and
// reports the match as redacted.
func (s *state) matchLiteralOrRedacted(literal string) (redacted bool, err error) {
	for i := 0; i < len(literal); i++ {
		if s.pos >= len(s.src) {
			return false, transcript.NewUnexpectedEnd("truncated literal")
		}
		b := s.src[s.pos]
		if b == s.sentinel {
			for s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
				s.pos++
			}
			return true, nil
		}
		if b != literal[i] {
			return false, transcript.NewMalformed(s.pos, "invalid literal")
		}
		s.pos++
	}
	return false, nil
}

func (s *state) parseBoolOrRedacted() (Value, error) {
	start := s.pos
	literal := "true"
	if s.src[s.pos] == 'f' {
		literal = "false"
	}
	redacted, err := s.matchLiteralOrRedacted(literal)
	if err != nil {
		return nil, err
	}
	if redacted {
		return Redacted{span: s.mk(start, s.pos)}, nil
	}
	return Bool{span: s.mk(start, s.pos)}, nil
}

func (s *state) parseNullOrRedacted() (Value, error) {
	start := s.pos
	redacted, err := s.matchLiteralOrRedacted("null")
	if err != nil {
		return nil, err
	}
	if redacted {
		return Redacted{span: s.mk(start, s.pos)}, nil
	}
	return Null{span: s.mk(start, s.pos)}, nil
}

func (s *state) parseNumberOrRedacted() (Value, error) {
	start := s.pos
	consumeDigits := func() int {
		n := 0
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
			n++
		}
		return n
	}
	redactedFrom := func() (Value, error) {
		for s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
			s.pos++
		}
		return Redacted{span: s.mk(start, s.pos)}, nil
	}

	if s.pos < len(s.src) && s.src[s.pos] == '-' {
		s.pos++
	}
	if s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
		return redactedFrom()
	}
	if consumeDigits() == 0 {
		return nil, transcript.NewMalformed(s.pos, "expected digits")
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		if s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
			return redactedFrom()
		}
		if consumeDigits() == 0 {
			return nil, transcript.NewMalformed(s.pos, "expected digits after decimal point")
		}
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		if s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
			return redactedFrom()
		}
		if consumeDigits() == 0 {
			return nil, transcript.NewMalformed(s.pos, "expected digits in exponent")
		}
	}
	if s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
		return redactedFrom()
	}
	return Number{span: s.mk(start, s.pos)}, nil
}

// parseStringSpan scans a quoted string starting at s.pos (which must be
// '"') and returns the content span, excluding the quotes.
func (s *state) parseStringSpan() (start, end int, err error) {
	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		return 0, 0, transcript.NewMalformed(s.pos, "expected '\"'")
	}
	s.pos++
	contentStart := s.pos
	for {
		if s.pos >= len(s.src) {
			return 0, 0, transcript.NewUnexpectedEnd("unterminated string")
		}
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		if c == '"' {
			break
		}
		s.pos++
	}
	contentEnd := s.pos
	s.pos++ // consume closing quote
	return contentStart, contentEnd, nil
}

func (s *state) parseStringValue() (Value, error) {
	start, end, err := s.parseStringSpan()
	if err != nil {
		return nil, err
	}
	return JString{span: s.mk(start, end)}, nil
}

func (s *state) parseKey() (JsonKey, error) {
	if s.pos >= len(s.src) {
		return JsonKey{}, transcript.NewUnexpectedEnd("expected object key")
	}
	b := s.src[s.pos]
	if b == '"' {
		start, end, err := s.parseStringSpan()
		if err != nil {
			return JsonKey{}, err
		}
		return JsonKey{span: s.mk(start, end)}, nil
	}
	if b == s.sentinel {
		start := s.pos
		for s.pos < len(s.src) && s.src[s.pos] == s.sentinel {
			s.pos++
		}
		return JsonKey{span: s.mk(start, s.pos), Redacted: true}, nil
	}
	return JsonKey{}, transcript.NewMalformed(s.pos, "expected object key")
}

func (s *state) parseObject() (Value, error) {
	start := s.pos
	s.pos++ // consume '{'
	s.skipWS()
	var elems []KeyValue
	if s.pos < len(s.src) && s.src[s.pos] == '}' {
		s.pos++
		return Object{span: s.mk(start, s.pos)}, nil
	}
	for {
		s.skipWS()
		kvStart := s.pos
		key, err := s.parseKey()
		if err != nil {
			return nil, err
		}
		s.skipWS()
		if s.pos >= len(s.src) {
			return nil, transcript.NewUnexpectedEnd("expected ':'")
		}
		if s.src[s.pos] != ':' {
			return nil, transcript.NewMalformed(s.pos, "expected ':'")
		}
		s.pos++
		s.skipWS()
		value, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, KeyValue{span: s.mk(kvStart, s.pos), Key: key, Value: value})
		s.skipWS()
		if s.pos >= len(s.src) {
			return nil, transcript.NewUnexpectedEnd("expected ',' or '}'")
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
			continue
		case '}':
			s.pos++
			return Object{span: s.mk(start, s.pos), Elems: elems}, nil
		default:
			return nil, transcript.NewMalformed(s.pos, "expected ',' or '}'")
		}
	}
}

func (s *state) parseArray() (Value, error) {
	start := s.pos
	s.pos++ // consume '['
	s.skipWS()
	var elems []Value
	if s.pos < len(s.src) && s.src[s.pos] == ']' {
		s.pos++
		return Array{span: s.mk(start, s.pos)}, nil
	}
	for {
		v, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		s.skipWS()
		if s.pos >= len(s.src) {
			return nil, transcript.NewUnexpectedEnd("expected ',' or ']'")
		}
		switch s.src[s.pos] {
		case ',':
			s.pos++
			continue
		case ']':
			s.pos++
			return Array{span: s.mk(start, s.pos), Elems: elems}, nil
		default:
			return nil, transcript.NewMalformed(s.pos, "expected ',' or ']'")
		}
	}
}
