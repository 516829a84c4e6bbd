package markerfeed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// objectScanner turns a JavaScript object literal, as written by hand in page
// scripts, into JSON. It understands unquoted keys, single-quoted strings,
// comments, trailing commas and bare identifiers. Identifiers found in vars
// become their value; the others become their own name as a string.
type objectScanner struct {
	src  string
	pos  int
	vars map[string]string
	out  strings.Builder
}

// relaxObject converts the object literal that starts at src[0] and returns
// the JSON text together with the number of bytes consumed.
func relaxObject(src string, vars map[string]string) ([]byte, int, error) {
	s := &objectScanner{src: src, vars: vars}
	s.skipSpace()
	if s.peek() != '{' {
		return nil, 0, fmt.Errorf("expected '{' at offset %d", s.pos)
	}
	if err := s.value(); err != nil {
		return nil, 0, err
	}
	return []byte(s.out.String()), s.pos, nil
}

func (s *objectScanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *objectScanner) errorf(format string, args ...any) error {
	return fmt.Errorf("options literal at offset %d: %s", s.pos, fmt.Sprintf(format, args...))
}

// skipSpace skips whitespace and comments without emitting them.
func (s *objectScanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		case strings.HasPrefix(s.src[s.pos:], "//"):
			end := strings.IndexByte(s.src[s.pos:], '\n')
			if end == -1 {
				s.pos = len(s.src)
				return
			}
			s.pos += end + 1
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end == -1 {
				s.pos = len(s.src)
				return
			}
			s.pos += end + 4
		default:
			return
		}
	}
}

func (s *objectScanner) value() error {
	s.skipSpace()
	c := s.peek()
	switch {
	case c == '{':
		return s.composite('{', '}', true)
	case c == '[':
		return s.composite('[', ']', false)
	case c == '"' || c == '\'':
		str, err := s.str()
		if err != nil {
			return err
		}
		return s.emitString(str)
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return s.number()
	case isIdentStart(c):
		ident := s.ident()
		switch ident {
		case "true", "false", "null":
			s.out.WriteString(ident)
			return nil
		case "undefined":
			s.out.WriteString("null")
			return nil
		}
		if v, ok := s.vars[ident]; ok {
			return s.emitString(v)
		}
		return s.emitString(ident)
	case c == 0:
		return s.errorf("unexpected end of input")
	default:
		return s.errorf("unexpected character %q", c)
	}
}

func (s *objectScanner) composite(open, closing byte, object bool) error {
	s.pos++
	s.out.WriteByte(open)
	first := true
	for {
		s.skipSpace()
		if s.peek() == closing {
			s.pos++
			s.out.WriteByte(closing)
			return nil
		}
		if !first {
			if s.peek() != ',' {
				return s.errorf("expected ',' or %q", closing)
			}
			s.pos++
			s.skipSpace()
			// trailing comma
			if s.peek() == closing {
				continue
			}
			s.out.WriteByte(',')
		}
		first = false
		if object {
			if err := s.key(); err != nil {
				return err
			}
			s.skipSpace()
			if s.peek() != ':' {
				return s.errorf("expected ':'")
			}
			s.pos++
			s.out.WriteByte(':')
		}
		if err := s.value(); err != nil {
			return err
		}
	}
}

func (s *objectScanner) key() error {
	c := s.peek()
	switch {
	case c == '"' || c == '\'':
		str, err := s.str()
		if err != nil {
			return err
		}
		return s.emitString(str)
	case isIdentStart(c):
		return s.emitString(s.ident())
	case c >= '0' && c <= '9':
		start := s.pos
		for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
			s.pos++
		}
		return s.emitString(s.src[start:s.pos])
	default:
		return s.errorf("expected key")
	}
}

func (s *objectScanner) emitString(v string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.out.Write(b)
	return nil
}

func (s *objectScanner) str() (string, error) {
	quote := s.src[s.pos]
	s.pos++
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == quote:
			s.pos++
			return b.String(), nil
		case c == '\\':
			if s.pos+1 >= len(s.src) {
				return "", s.errorf("unterminated escape")
			}
			e := s.src[s.pos+1]
			s.pos += 2
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u':
				if s.pos+4 > len(s.src) {
					return "", s.errorf("short unicode escape")
				}
				r, err := strconv.ParseUint(s.src[s.pos:s.pos+4], 16, 32)
				if err != nil {
					return "", s.errorf("invalid unicode escape")
				}
				b.WriteRune(rune(r))
				s.pos += 4
			case '\n':
				// line continuation
			default:
				b.WriteByte(e)
			}
		case c == '\n':
			return "", s.errorf("newline in string")
		default:
			_, size := utf8.DecodeRuneInString(s.src[s.pos:])
			b.WriteString(s.src[s.pos : s.pos+size])
			s.pos += size
		}
	}
	return "", s.errorf("unterminated string")
}

func (s *objectScanner) number() error {
	start := s.pos
	for s.pos < len(s.src) && strings.IndexByte("+-.0123456789eExXabcdefABCDEF", s.src[s.pos]) >= 0 {
		s.pos++
	}
	tok := s.src[start:s.pos]
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		v, err := strconv.ParseInt(tok[2:], 16, 64)
		if err != nil {
			return s.errorf("invalid number %q", tok)
		}
		s.out.WriteString(strconv.FormatInt(v, 10))
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return s.errorf("invalid number %q", tok)
	}
	tok = strings.TrimPrefix(tok, "+")
	if strings.ContainsAny(tok, "eE") || strings.HasPrefix(tok, ".") || strings.HasPrefix(tok, "-.") || strings.HasSuffix(tok, ".") {
		tok = strconv.FormatFloat(v, 'f', -1, 64)
	}
	s.out.WriteString(tok)
	return nil
}

func (s *objectScanner) ident() string {
	start := s.pos
	for s.pos < len(s.src) && (isIdentStart(s.src[s.pos]) || (s.src[s.pos] >= '0' && s.src[s.pos] <= '9') || s.src[s.pos] == '.') {
		s.pos++
	}
	return s.src[start:s.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
