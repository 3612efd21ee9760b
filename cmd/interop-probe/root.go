package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/interop/callable"
	"github.com/wippyai/interop/coerce"
	"github.com/wippyai/interop/guest/starlarkguest"
	"github.com/wippyai/interop/guest/wasmguest"
	"github.com/wippyai/interop/shape"
)

// settings are resolved from flags, INTEROP_* environment variables and an
// optional config file, in that order of precedence.
type settings struct {
	MaxDepth   int    `mapstructure:"max-depth"`
	LogLevel   string `mapstructure:"log-level"`
	Interfaces string `mapstructure:"interfaces"`
}

// app carries what every subcommand needs once settings are resolved.
type app struct {
	v          *viper.Viper
	cfg        settings
	log        *zap.Logger
	engine     *coerce.Engine
	interfaces *shape.Interfaces
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	var configFile string

	root := &cobra.Command{
		Use:           "interop-probe",
		Short:         "Inspect foreign values from Starlark scripts and wasm modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, configFile)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.Int("max-depth", coerce.DefaultMaxDepth, "recursion cap for nested values")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("interfaces", "", "YAML file of named interface descriptors")

	root.AddCommand(
		newProbeCommand(a),
		newCallCommand(a),
		newExploreCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, configFile string) error {
	a.v.SetEnvPrefix("INTEROP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if configFile != "" {
		a.v.SetConfigFile(configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return err
		}
	}
	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return err
	}

	log, err := newLogger(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = log
	coerce.SetLogger(log)
	callable.SetLogger(log)
	starlarkguest.SetLogger(log)
	wasmguest.SetLogger(log)

	a.engine = coerce.NewWithConfig(&coerce.Config{Logger: log, MaxDepth: a.cfg.MaxDepth})

	if a.cfg.Interfaces != "" {
		f, err := os.Open(a.cfg.Interfaces)
		if err != nil {
			return err
		}
		defer f.Close()
		if a.interfaces, err = shape.LoadInterfaces(f); err != nil {
			return err
		}
		log.Debug("interfaces loaded", zap.Int("count", a.interfaces.Len()))
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// resolveShape accepts shape text or the name of a loaded interface.
func (a *app) resolveShape(text string) (shape.Shape, error) {
	if a.interfaces != nil {
		if s, ok := a.interfaces.Get(text); ok {
			return s, nil
		}
	}
	return shape.Parse(text)
}
