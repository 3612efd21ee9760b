package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/guest/starlarkguest"
	"github.com/wippyai/interop/guest/wasmguest"
)

// target is a loaded file whose top-level value has members.
type target struct {
	root  interop.Value
	close func()
}

func openTarget(ctx context.Context, log *zap.Logger, path string) (*target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".star", ".bzl", ".sky":
		env := starlarkguest.New(filepath.Base(path))
		root, err := env.Exec(path, data)
		if err != nil {
			return nil, err
		}
		log.Debug("starlark module loaded", zap.String("path", path))
		return &target{root: root, close: func() {}}, nil

	case ".wasm":
		r := wasmguest.NewRuntime(ctx)
		mod, err := wasmguest.Load(ctx, r, data)
		if err != nil {
			_ = r.Close(ctx)
			return nil, err
		}
		log.Debug("wasm module loaded", zap.String("path", path))
		return &target{root: mod, close: func() { _ = r.Close(ctx) }}, nil

	default:
		return nil, fmt.Errorf("unsupported file type %q (want .star or .wasm)", ext)
	}
}

func (t *target) member(name string) (interop.Value, error) {
	return t.root.GetMember(name)
}
