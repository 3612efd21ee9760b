package yaegiguest

import (
	"context"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/host"
)

// Config holds configuration for interpreter creation.
type Config struct {
	// Binder exposes results. Defaults to host.New().
	Binder *host.Binder
	// AllowedImports restricts the packages source may import.
	// Nil allows every standard library package.
	AllowedImports []string
}

// Interpreter evaluates Go source with yaegi. Declarations persist across
// calls. It is not safe for concurrent use.
type Interpreter struct {
	i       *interp.Interpreter
	binder  *host.Binder
	allowed map[string]bool
}

// New creates an interpreter with the standard library loaded.
func New() (*Interpreter, error) {
	return NewWithConfig(nil)
}

// NewWithConfig creates an interpreter with custom configuration.
func NewWithConfig(cfg *Config) (*Interpreter, error) {
	in := &Interpreter{i: interp.New(interp.Options{})}
	if cfg != nil {
		in.binder = cfg.Binder
		if cfg.AllowedImports != nil {
			in.allowed = make(map[string]bool, len(cfg.AllowedImports))
			for _, p := range cfg.AllowedImports {
				in.allowed[p] = true
			}
		}
	}
	if in.binder == nil {
		in.binder = host.New()
	}
	if err := in.i.Use(stdlib.Symbols); err != nil {
		return nil, errors.Load("load stdlib symbols", err)
	}
	return in, nil
}

// Use makes Go symbols importable. Keys are "import/path/name".
func (in *Interpreter) Use(exports interp.Exports) error {
	if err := in.i.Use(exports); err != nil {
		return errors.Load("use symbols", err)
	}
	if in.allowed != nil {
		for key := range exports {
			if i := strings.LastIndex(key, "/"); i > 0 {
				in.allowed[key[:i]] = true
			}
		}
	}
	return nil
}

// Eval evaluates src and exposes its result. Declarations and statements
// without a value yield null.
func (in *Interpreter) Eval(src string) (interop.Value, error) {
	return in.EvalContext(context.Background(), src)
}

// EvalContext is Eval with cancellation.
func (in *Interpreter) EvalContext(ctx context.Context, src string) (interop.Value, error) {
	if err := in.checkImports(src); err != nil {
		return nil, err
	}
	Logger().Debug("eval", zap.Int("bytes", len(src)))
	res, err := in.i.EvalWithContext(ctx, src)
	if err != nil {
		return nil, errors.Load("eval", err)
	}
	if !res.IsValid() || !res.CanInterface() {
		return in.binder.ValueOf(nil), nil
	}
	return in.binder.ValueOf(res.Interface()), nil
}

// Symbol looks up a declared name, such as "main.Add".
func (in *Interpreter) Symbol(name string) (interop.Value, error) {
	res, err := in.i.Eval(name)
	if err != nil {
		return nil, errors.NotFound(errors.PhaseGuest, "symbol", name)
	}
	if !res.IsValid() {
		return in.binder.ValueOf(nil), nil
	}
	return in.binder.ValueOf(res.Interface()), nil
}

// checkImports rejects imports outside the allow list. Source that does not
// parse is left for yaegi to report.
func (in *Interpreter) checkImports(src string) error {
	if in.allowed == nil {
		return nil
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, parser.ImportsOnly)
	if err != nil {
		f, err = parser.ParseFile(fset, "", "package main\n"+src, parser.ImportsOnly)
		if err != nil {
			return nil
		}
	}
	var forbidden []string
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !in.allowed[p] {
			forbidden = append(forbidden, imp.Path.Value)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(forbidden).
			Detail("forbidden imports").
			Build()
	}
	return nil
}
