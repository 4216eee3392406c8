package junitxml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError is a fatal tokenizer failure. Malformed documents abort the
// whole parse instead of yielding a partial report.
type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.msg
}

// IsSyntaxError reports whether err is a tokenizer failure.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

const errTagNotClosed = "tag not closed: `>` not found before end of input"

type eventKind int

const (
	eventEOF eventKind = iota
	eventStart
	eventEnd
	eventEmpty
	eventText
	eventCData
)

type xmlAttr struct {
	name  string
	value string
}

type xmlEvent struct {
	kind  eventKind
	name  string
	attrs []xmlAttr
	text  string
}

func (e *xmlEvent) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// tokenizer is a minimal pull tokenizer for JUnit XML documents. It is
// deliberately lax: multiple root elements and bare fragments are fine,
// but an unterminated tag is a hard error.
type tokenizer struct {
	data []byte
	pos  int
}

func newTokenizer(data []byte) *tokenizer {
	return &tokenizer{data: data}
}

func (t *tokenizer) next() (xmlEvent, error) {
	for t.pos < len(t.data) {
		if t.data[t.pos] != '<' {
			text := t.readText()
			if strings.TrimSpace(text) == "" {
				continue
			}
			return xmlEvent{kind: eventText, text: text}, nil
		}

		switch {
		case t.hasPrefix("<!--"):
			if err := t.skipUntil("-->"); err != nil {
				return xmlEvent{}, err
			}
		case t.hasPrefix("<![CDATA["):
			content, err := t.readUntil("<![CDATA[", "]]>")
			if err != nil {
				return xmlEvent{}, err
			}
			return xmlEvent{kind: eventCData, text: content}, nil
		case t.hasPrefix("<!"):
			if err := t.skipUntil(">"); err != nil {
				return xmlEvent{}, err
			}
		case t.hasPrefix("<?"):
			if err := t.skipUntil("?>"); err != nil {
				return xmlEvent{}, err
			}
		case t.hasPrefix("</"):
			raw, err := t.readUntil("</", ">")
			if err != nil {
				return xmlEvent{}, err
			}
			return xmlEvent{kind: eventEnd, name: strings.TrimSpace(raw)}, nil
		default:
			return t.readStartTag()
		}
	}
	return xmlEvent{kind: eventEOF}, nil
}

func (t *tokenizer) readText() string {
	start := t.pos
	for t.pos < len(t.data) && t.data[t.pos] != '<' {
		t.pos++
	}
	return string(t.data[start:t.pos])
}

func (t *tokenizer) hasPrefix(prefix string) bool {
	return bytes.HasPrefix(t.data[t.pos:], []byte(prefix))
}

func (t *tokenizer) skipUntil(end string) error {
	idx := bytes.Index(t.data[t.pos:], []byte(end))
	if idx < 0 {
		return &SyntaxError{msg: errTagNotClosed}
	}
	t.pos += idx + len(end)
	return nil
}

func (t *tokenizer) readUntil(open, close string) (string, error) {
	t.pos += len(open)
	idx := bytes.Index(t.data[t.pos:], []byte(close))
	if idx < 0 {
		return "", &SyntaxError{msg: errTagNotClosed}
	}
	content := string(t.data[t.pos : t.pos+idx])
	t.pos += idx + len(close)
	return content, nil
}

// readStartTag scans to the closing '>' of a start tag, honoring quoted
// attribute values that may contain '>'.
func (t *tokenizer) readStartTag() (xmlEvent, error) {
	start := t.pos + 1
	i := start
	var quote byte
	for i < len(t.data) {
		c := t.data[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
		} else if c == '"' || c == '\'' {
			quote = c
		} else if c == '>' {
			break
		}
		i++
	}
	if i >= len(t.data) {
		return xmlEvent{}, &SyntaxError{msg: errTagNotClosed}
	}

	raw := string(t.data[start:i])
	t.pos = i + 1

	kind := eventStart
	if strings.HasSuffix(raw, "/") {
		kind = eventEmpty
		raw = raw[:len(raw)-1]
	}

	name, rest := splitTagName(raw)
	attrs, err := parseAttrs(rest)
	if err != nil {
		return xmlEvent{}, err
	}
	return xmlEvent{kind: kind, name: name, attrs: attrs}, nil
}

func splitTagName(raw string) (string, string) {
	for i := 0; i < len(raw); i++ {
		if isSpace(raw[i]) {
			return raw[:i], raw[i:]
		}
	}
	return raw, ""
}

func parseAttrs(raw string) ([]xmlAttr, error) {
	var attrs []xmlAttr
	i := 0
	for i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) {
			break
		}

		eq := strings.IndexByte(raw[i:], '=')
		if eq < 0 {
			// Attribute without a value; tolerated and dropped.
			break
		}
		name := strings.TrimSpace(raw[i : i+eq])
		i += eq + 1
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) {
			break
		}

		quote := raw[i]
		if quote != '"' && quote != '\'' {
			return nil, &SyntaxError{msg: fmt.Sprintf("unquoted attribute value at %q", raw[i:])}
		}
		i++
		end := strings.IndexByte(raw[i:], quote)
		if end < 0 {
			return nil, &SyntaxError{msg: errTagNotClosed}
		}
		attrs = append(attrs, xmlAttr{name: name, value: unescape(raw[i : i+end])})
		i += end + 1
	}
	return attrs, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// unescape resolves the predefined XML entities and numeric references.
// Unknown entities pass through verbatim.
func unescape(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		entity := s[i+1 : i+end]
		switch {
		case entity == "lt":
			b.WriteByte('<')
		case entity == "gt":
			b.WriteByte('>')
		case entity == "amp":
			b.WriteByte('&')
		case entity == "quot":
			b.WriteByte('"')
		case entity == "apos":
			b.WriteByte('\'')
		case strings.HasPrefix(entity, "#x") || strings.HasPrefix(entity, "#X"):
			if code, err := strconv.ParseInt(entity[2:], 16, 32); err == nil {
				b.WriteRune(rune(code))
			} else {
				b.WriteString(s[i : i+end+1])
			}
		case strings.HasPrefix(entity, "#"):
			if code, err := strconv.ParseInt(entity[1:], 10, 32); err == nil {
				b.WriteRune(rune(code))
			} else {
				b.WriteString(s[i : i+end+1])
			}
		default:
			b.WriteString(s[i : i+end+1])
		}
		i += end + 1
	}
	return b.String()
}
