package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"projector/internal/config"
	"projector/internal/diag"
	"projector/internal/diagfmt"
	"projector/internal/driver"
	"projector/internal/model"
	"projector/internal/modelio"
	"projector/internal/observ"
	"projector/internal/prof"
	"projector/internal/testkit"
	"projector/internal/trace"
)

const (
	configFileName = config.FileName
	bagLimit       = 4096
)

// app is what every projecting command works with: a session, the bag its
// diagnostics land in and a tracer.
type app struct {
	cmd     *cobra.Command
	opts    *rootOptions
	session *driver.Session
	bag     *diag.Bag
	ctx     context.Context
	timer   *observ.Timer
	prof    *prof.Profiler
	cleanup func(failed bool)
}

// phase times fn when --timings is set.
func (a *app) phase(name string, fn func() (string, error)) error {
	stop := a.timer.Start(name)
	note, err := fn()
	stop(note)
	return err
}

func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	switch opts.diagFormat {
	case "pretty", "json":
	default:
		return nil, fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", opts.diagFormat)
	}

	p, err := prof.Start(prof.Options{CPU: opts.cpuProfile, Mem: opts.memProfile, Trace: opts.rtTrace})
	if err != nil {
		return nil, err
	}
	a := &app{
		cmd:     cmd,
		opts:    opts,
		bag:     diag.NewBag(bagLimit),
		prof:    p,
		cleanup: func(bool) {},
	}
	if opts.timings {
		a.timer = observ.NewTimer()
	}
	fail := func(err error) (*app, error) {
		a.close(err)
		return nil, err
	}

	var cfg *config.Config
	if err := a.phase("config", func() (note string, err error) {
		cfg, err = loadConfig(opts)
		return opts.configPath, err
	}); err != nil {
		return fail(err)
	}
	var m *model.Model
	if err := a.phase("snapshot", func() (note string, err error) {
		m, err = loadModel(opts.snapshot)
		if opts.snapshot == "" {
			return "built-in sample", err
		}
		return opts.snapshot, err
	}); err != nil {
		return fail(err)
	}

	tracer, cleanup, err := setupTracing(opts, cmd.ErrOrStderr())
	if err != nil {
		return fail(err)
	}
	a.cleanup = cleanup
	a.ctx = trace.WithTracer(cmd.Context(), tracer)

	if err := a.phase("session", func() (string, error) {
		a.session, err = driver.NewSession(m, cfg, diag.NewBagReporter(a.bag))
		return cfg.Scope.Namespace, err
	}); err != nil {
		return fail(err)
	}
	a.session.WithTracer(tracer)
	return a, nil
}

// loadConfig reads --config, or ./projector.toml when it exists, and
// applies the scope flags on top.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if _, err := os.Stat(configFileName); err == nil {
			path = configFileName
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if opts.namespace != "" {
		cfg.Scope.Namespace = opts.namespace
	}
	cfg.Scope.Usings = append(cfg.Scope.Usings, opts.usings...)
	if opts.jobs >= 0 {
		cfg.Jobs = opts.jobs
	}
	return cfg, nil
}

func loadModel(path string) (*model.Model, error) {
	if path == "" {
		return testkit.NewSample().M, nil
	}
	return modelio.LoadFile(path)
}

// close prints collected diagnostics and releases the tracer. err is the
// command's result; it only decides whether a trace ring is dumped.
func (a *app) close(err error) {
	errOut := a.cmd.ErrOrStderr()
	if a.bag.Len() > 0 {
		a.bag.Sort()
		if a.opts.diagFormat == "json" {
			if jerr := diagfmt.JSON(errOut, a.bag, diagfmt.JSONOpts{Max: a.opts.maxDiagnostics, IncludeNotes: true}); jerr != nil {
				fmt.Fprintf(errOut, "diagnostics: %v\n", jerr)
			}
		} else {
			diagfmt.Pretty(errOut, a.bag, diagfmt.PrettyOpts{
				Color:     !color.NoColor,
				ShowNotes: true,
				Max:       a.opts.maxDiagnostics,
			})
		}
	}
	a.cleanup(err != nil)
	if a.timer != nil {
		fmt.Fprint(errOut, a.timer.Summary())
	}
	if perr := a.prof.Stop(); perr != nil {
		fmt.Fprintf(errOut, "profile: %v\n", perr)
	}
}
