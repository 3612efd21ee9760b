package wasmguest

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/host"
)

// Config holds configuration for runtime creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// NewRuntime creates a wazero runtime with default configuration.
func NewRuntime(ctx context.Context) wazero.Runtime {
	return NewRuntimeWithConfig(ctx, nil)
}

// NewRuntimeWithConfig creates a wazero runtime with custom configuration.
func NewRuntimeWithConfig(ctx context.Context, cfg *Config) wazero.Runtime {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	return wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
}

// Load compiles and instantiates a core wasm module and returns it as a
// MEMBERS value. Calls made through the module use ctx; the module lives
// until Close or until the runtime is closed.
func Load(ctx context.Context, r wazero.Runtime, wasm []byte) (*Module, error) {
	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	inst, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Load("instantiate module", err)
	}

	m := &Module{
		ctx:    ctx,
		inst:   inst,
		binder: host.New(),
	}
	for name := range compiled.ExportedFunctions() {
		m.exports = append(m.exports, name)
	}
	for name := range compiled.ExportedMemories() {
		m.exports = append(m.exports, name)
	}
	sort.Strings(m.exports)

	Logger().Debug("module loaded",
		zap.Int("exports", len(m.exports)),
		zap.Int("bytes", len(wasm)))
	return m, nil
}
