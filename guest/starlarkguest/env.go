package starlarkguest

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.uber.org/zap"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/host"
)

// Config configures an Env.
type Config struct {
	// Logger receives print output. Defaults to the package logger.
	Logger *zap.Logger
	// Binder exposes Go values handed to scripts. Defaults to host.New().
	Binder *host.Binder
	// Predeclared names visible to every script, converted with Env.ToStarlark.
	Predeclared map[string]any
}

// Env is a Starlark interpreter state: one thread plus the globals
// accumulated by Exec. An Env must not be used from more than one goroutine
// at a time.
type Env struct {
	thread  *starlark.Thread
	globals starlark.StringDict
	binder  *host.Binder
	log     *zap.Logger
}

// New creates an environment with the default configuration.
func New(name string) *Env {
	env, _ := NewWithConfig(name, nil)
	return env
}

// NewWithConfig creates an environment with custom configuration.
func NewWithConfig(name string, cfg *Config) (*Env, error) {
	e := &Env{
		globals: starlark.StringDict{
			"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
			"module": starlark.NewBuiltin("module", starlarkstruct.MakeModule),
		},
		binder: nil,
		log:    Logger(),
	}
	if cfg != nil {
		if cfg.Logger != nil {
			e.log = cfg.Logger
		}
		e.binder = cfg.Binder
	}
	if e.binder == nil {
		e.binder = host.New()
	}
	e.thread = &starlark.Thread{
		Name: name,
		Print: func(t *starlark.Thread, msg string) {
			e.log.Info(msg, zap.String("thread", t.Name))
		},
	}
	if cfg != nil {
		for k, x := range cfg.Predeclared {
			if err := e.Predeclare(k, x); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

// Predeclare makes x visible to later scripts under name.
func (e *Env) Predeclare(name string, x any) error {
	v, err := e.ToStarlark(x)
	if err != nil {
		return err
	}
	e.globals[name] = v
	return nil
}

// Exec runs a Starlark file and returns its globals as a MEMBERS value.
// The globals stay mutable and are visible to later Exec and Eval calls.
func (e *Env) Exec(filename string, src any) (interop.Value, error) {
	_, prog, err := starlark.SourceProgram(filename, src, e.globals.Has)
	if err != nil {
		return nil, errors.Load("compile "+filename, err)
	}
	globals, err := prog.Init(e.thread, e.globals)
	if err != nil {
		return nil, errors.Load("execute "+filename, err)
	}
	for k, v := range globals {
		e.globals[k] = v
	}
	e.log.Debug("executed module", zap.String("file", filename), zap.Int("globals", len(globals)))
	return e.ValueOf(&starlarkstruct.Module{Name: filename, Members: globals}), nil
}

// Eval evaluates one expression against the accumulated globals.
func (e *Env) Eval(expr string) (interop.Value, error) {
	v, err := starlark.Eval(e.thread, "<eval>", expr, e.globals)
	if err != nil {
		return nil, errors.Load("eval", err)
	}
	return e.ValueOf(v), nil
}

// Globals returns the accumulated globals as a MEMBERS value.
func (e *Env) Globals() interop.Value {
	return e.ValueOf(&starlarkstruct.Module{Name: e.thread.Name, Members: e.globals})
}
