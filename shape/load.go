package shape

import (
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/interop/errors"
)

type descriptorFile struct {
	Interfaces []interfaceDescriptor `yaml:"interfaces"`
}

type interfaceDescriptor struct {
	Name    string             `yaml:"name"`
	Methods []methodDescriptor `yaml:"methods"`
}

type methodDescriptor struct {
	Name      string `yaml:"name"`
	Returns   string `yaml:"returns"`
	Arity     int    `yaml:"arity"`
	Variadic  bool   `yaml:"variadic"`
	Construct bool   `yaml:"construct"`
}

// Interfaces is a set of named interface shapes loaded from a descriptor file.
type Interfaces struct {
	byName map[string]Shape
	names  []string
}

// Get returns the interface shape with the given name.
func (is *Interfaces) Get(name string) (Shape, bool) {
	s, ok := is.byName[name]
	return s, ok
}

// Names returns the interface names in file order.
func (is *Interfaces) Names() []string {
	return append([]string(nil), is.names...)
}

func (is *Interfaces) Len() int { return len(is.names) }

// LoadInterfaces reads YAML interface descriptors:
//
//	interfaces:
//	  - name: Counter
//	    methods:
//	      - {name: inc, arity: 1, returns: int32}
//	      - {name: reset, arity: 0}
//
// Unknown fields, duplicate interface names and malformed methods are errors.
func LoadInterfaces(r io.Reader) (*Interfaces, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file descriptorFile
	if err := dec.Decode(&file); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Load("decode interface descriptors", err)
	}

	is := &Interfaces{byName: make(map[string]Shape, len(file.Interfaces))}
	for _, d := range file.Interfaces {
		if d.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseShape, "interface without name")
		}
		if _, dup := is.byName[d.Name]; dup {
			return nil, errors.IllegalState(errors.PhaseShape, fmt.Sprintf("duplicate interface %q", d.Name))
		}
		methods := make([]Method, 0, len(d.Methods))
		for _, md := range d.Methods {
			m := Method{
				Name:      md.Name,
				Arity:     md.Arity,
				Variadic:  md.Variadic,
				Construct: md.Construct,
			}
			if md.Returns != "" {
				ret, err := Parse(md.Returns)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseShape, errors.KindInvalidInput, err,
						fmt.Sprintf("%s.%s returns", d.Name, md.Name))
				}
				m.Returns = &ret
			}
			methods = append(methods, m)
		}
		s, err := InterfaceOf(d.Name, methods...)
		if err != nil {
			return nil, err
		}
		is.byName[d.Name] = s
		is.names = append(is.names, d.Name)
	}
	return is, nil
}
