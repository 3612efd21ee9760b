package shape

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/wippyai/interop/errors"
)

type tokenType int

const (
	tokIdent tokenType = iota
	tokNumber
	tokPunct
	tokEllipsis
)

type token struct {
	value string
	typ   tokenType
	pos   int
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '.':
			if i+2 < len(runes) && runes[i+1] == '.' && runes[i+2] == '.' {
				tokens = append(tokens, token{"...", tokEllipsis, i})
				i += 2
				continue
			}
			return nil, errors.InvalidInput(errors.PhaseShape, fmt.Sprintf("offset %d: unexpected '.'", i))
		case r == '<' || r == '>' || r == ',' || r == '?' || r == '{' || r == '}' || r == '/' || r == ':':
			tokens = append(tokens, token{string(r), tokPunct, i})
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			tokens = append(tokens, token{string(runes[start:i]), tokNumber, start})
			i--
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{string(runes[start:i]), tokIdent, start})
			i--
		default:
			return nil, errors.InvalidInput(errors.PhaseShape, fmt.Sprintf("offset %d: unexpected %q", i, r))
		}
	}
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

// Parse reads a shape from its text form:
//
//	bool int8 int16 int32 int64 float32 float64 char string number
//	any object host proxy native
//	list<T>  map<K,V>  func  iface  iface{name/arity, new make/2, log/1...:string}
//
// A trailing '?' makes the shape nullable. The result is validated.
func Parse(text string) (Shape, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return Shape{}, err
	}
	p := &parser{tokens: tokens}
	s, err := p.parseShape()
	if err != nil {
		return Shape{}, err
	}
	if t := p.peek(); t != nil {
		return Shape{}, p.errorf(t, "unexpected %q after shape", t.value)
	}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// MustParse is Parse that panics on error.
func MustParse(text string) Shape {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

func (p *parser) peek() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t *token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if t != nil {
		msg = fmt.Sprintf("offset %d: %s", t.pos, msg)
	}
	return errors.InvalidInput(errors.PhaseShape, msg)
}

func (p *parser) expect(typ tokenType, value string) (*token, error) {
	t := p.next()
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseShape, "unexpected end of input")
	}
	if t.typ != typ || (value != "" && t.value != value) {
		want := value
		if want == "" {
			want = "identifier"
		}
		return nil, p.errorf(t, "expected %q, got %q", want, t.value)
	}
	return t, nil
}

func (p *parser) acceptPunct(value string) bool {
	if t := p.peek(); t != nil && t.typ == tokPunct && t.value == value {
		p.pos++
		return true
	}
	return false
}

var scalarKinds = map[string]Kind{
	"bool":    KindBoolean,
	"int8":    KindInt8,
	"int16":   KindInt16,
	"int32":   KindInt32,
	"int64":   KindInt64,
	"float32": KindFloat32,
	"float64": KindFloat64,
	"char":    KindChar,
	"string":  KindString,
	"number":  KindNumber,
	"any":     KindAny,
	"object":  KindObject,
	"host":    KindHost,
	"proxy":   KindProxy,
	"native":  KindNative,
}

func (p *parser) parseShape() (Shape, error) {
	s, err := p.parseBase()
	if err != nil {
		return Shape{}, err
	}
	if p.acceptPunct("?") {
		s.Nullable = true
	}
	return s, nil
}

func (p *parser) parseBase() (Shape, error) {
	t, err := p.expect(tokIdent, "")
	if err != nil {
		return Shape{}, err
	}
	if k, ok := scalarKinds[t.value]; ok {
		return Shape{Kind: k}, nil
	}

	switch t.value {
	case "list":
		if _, err := p.expect(tokPunct, "<"); err != nil {
			return Shape{}, err
		}
		elem, err := p.parseShape()
		if err != nil {
			return Shape{}, err
		}
		if _, err := p.expect(tokPunct, ">"); err != nil {
			return Shape{}, err
		}
		return ListOf(elem), nil
	case "map":
		if _, err := p.expect(tokPunct, "<"); err != nil {
			return Shape{}, err
		}
		key, err := p.parseShape()
		if err != nil {
			return Shape{}, err
		}
		if _, err := p.expect(tokPunct, ","); err != nil {
			return Shape{}, err
		}
		value, err := p.parseShape()
		if err != nil {
			return Shape{}, err
		}
		if _, err := p.expect(tokPunct, ">"); err != nil {
			return Shape{}, err
		}
		return MapOf(key, value), nil
	case "func":
		return Function, nil
	case "iface":
		if !p.acceptPunct("{") {
			return Empty, nil
		}
		return p.parseMethods()
	}
	return Shape{}, p.errorf(t, "unknown shape %q", t.value)
}

func (p *parser) parseMethods() (Shape, error) {
	iface := &Interface{}
	if p.acceptPunct("}") {
		return Shape{Kind: KindInterface, Interface: iface}, nil
	}
	for {
		m, err := p.parseMethod()
		if err != nil {
			return Shape{}, err
		}
		iface.Methods = append(iface.Methods, m)
		if p.acceptPunct("}") {
			break
		}
		if _, err := p.expect(tokPunct, ","); err != nil {
			return Shape{}, err
		}
	}
	return Shape{Kind: KindInterface, Interface: iface}, nil
}

func (p *parser) parseMethod() (Method, error) {
	name, err := p.expect(tokIdent, "")
	if err != nil {
		return Method{}, err
	}
	var m Method
	if name.value == "new" {
		if t := p.peek(); t != nil && t.typ == tokIdent {
			m.Construct = true
			name = p.next()
		}
	}
	m.Name = name.value

	if _, err := p.expect(tokPunct, "/"); err != nil {
		return Method{}, err
	}
	arity, err := p.expect(tokNumber, "")
	if err != nil {
		return Method{}, err
	}
	n, err := strconv.Atoi(arity.value)
	if err != nil {
		return Method{}, p.errorf(arity, "bad arity %q", arity.value)
	}
	m.Arity = n

	if t := p.peek(); t != nil && t.typ == tokEllipsis {
		p.pos++
		m.Variadic = true
	}
	if p.acceptPunct(":") {
		ret, err := p.parseShape()
		if err != nil {
			return Method{}, err
		}
		m.Returns = &ret
	}
	return m, nil
}
