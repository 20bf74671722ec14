// Command vsgo inspects VapourSynth scripts and streams their frames.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/obinnaokechukwu/vsgo"
	"github.com/obinnaokechukwu/vsgo/internal/config"
)

var version = "dev"

// engineFactory returns the engine every command evaluates scripts with.
var engineFactory = nativeEngine

func nativeEngine(cfg config.Config, log *zap.Logger) (vsgo.Engine, error) {
	if cfg.LibraryPath != "" {
		vsgo.SetLibraryPath(cfg.LibraryPath)
	}
	e, err := vsgo.NativeEngine()
	if err != nil {
		return nil, err
	}
	if err := vsgo.SetMessageHandler(vsgo.ZapMessageHandler(log)); err != nil {
		log.Warn("core messages not forwarded", zap.Error(err))
	}
	return e, nil
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vsgo:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "vsgo",
		Usage:     "Inspect VapourSynth scripts and stream their frames.",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "library",
				Usage:   "path to the VSScript library",
				EnvVars: []string{"VAPOURSYNTH_LIB"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			infoCommand(),
			pipeCommand(),
			snapshotCommand(),
			versionCommand(),
		},
	}
}

// loadConfig reads the configuration file, if any, and applies flags on
// top of it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("library") {
		cfg.LibraryPath = c.String("library")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("lookahead") {
		cfg.Lookahead = c.Int("lookahead")
	}
	if c.IsSet("raw") {
		cfg.Y4M = !c.Bool("raw")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	return cfg, cfg.Validate()
}

// newLogger writes human-readable logs to a terminal and JSON otherwise.
func newLogger(cfg config.Config, w io.Writer) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if isTerminal(w) {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level)), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setup loads the configuration and builds the logger for a command.
func setup(c *cli.Context) (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return cfg, nil, err
	}
	log, err := newLogger(cfg, c.App.ErrWriter)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// openScript evaluates the script named by the first argument.
func openScript(c *cli.Context, cfg config.Config, log *zap.Logger, opts ...vsgo.Option) (*vsgo.Source, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected one script argument, got %d", c.NArg())
	}
	path, err := filepath.Abs(c.Args().First())
	if err != nil {
		return nil, err
	}
	script, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	engine, err := engineFactory(cfg, log)
	if err != nil {
		return nil, err
	}
	opts = append([]vsgo.Option{
		vsgo.WithEngine(engine),
		vsgo.WithLogger(log),
		vsgo.WithWorkers(cfg.Workers),
	}, opts...)
	return vsgo.Open(script, path, opts...)
}
