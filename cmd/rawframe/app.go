package main

import (
	"log/slog"
	"path/filepath"

	"github.com/milk9111/rawframe/config"
	"github.com/milk9111/rawframe/demo"
	"github.com/milk9111/rawframe/frame"
	"github.com/milk9111/rawframe/host"
	"github.com/milk9111/rawframe/overlay"
	"github.com/milk9111/rawframe/script"
)

type options struct {
	configPath string
	demo       string
	script     string
	debug      bool
	watch      bool
}

// configApplier is the part of the host a config reload touches.
type configApplier interface {
	ApplyConfig(cfg *config.Config) error
}

// rendererSwitcher is the part of the loop a config reload touches.
type rendererSwitcher interface {
	SetRenderer(r frame.Renderer)
	SetTitleFormat(format string)
}

// app wires the loop together and applies file changes between frames.
type app struct {
	opts     options
	cfg      *config.Config
	host     configApplier
	loop     rendererSwitcher
	overlay  *overlay.Overlay
	renderer frame.Renderer
	script   *script.Renderer
	watcher  *config.Watcher
	logger   *slog.Logger

	configAbs string
	scriptAbs string
}

func run(opts options, logger *slog.Logger) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	h, err := host.New(cfg, logger)
	if err != nil {
		return err
	}

	a := &app{opts: opts, cfg: cfg, host: h, logger: logger, overlay: overlay.New()}
	a.overlay.Enabled = cfg.Diagnostics.Overlay

	if err := a.buildRenderer(); err != nil {
		return err
	}

	loop, err := frame.New(h, a.renderer,
		frame.WithLogger(logger),
		frame.WithInitialSize(cfg.Window.Width, cfg.Window.Height),
		frame.WithTitleFormat(cfg.Diagnostics.TitleFormat),
		frame.WithTitleInterval(cfg.Diagnostics.TitleInterval),
		frame.WithHook(a.overlay.Hook()),
	)
	if err != nil {
		return err
	}
	a.loop = loop

	if opts.watch {
		if err := a.startWatcher(); err != nil {
			logger.Warn("file watching disabled", "err", err)
		}
		if a.watcher != nil {
			defer a.watcher.Close()
			h.BeforeFrame = a.applyChanges
		}
	}

	logger.Info("starting", "width", cfg.Window.Width, "height", cfg.Window.Height, "renderer", a.rendererName())
	return h.Run(loop)
}

// loadConfig reads the config file and lets the command line override it.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.demo != "" {
		cfg.Demo = opts.demo
		cfg.Script = ""
	}
	if opts.script != "" {
		cfg.Script = opts.script
	}
	if opts.debug {
		cfg.Diagnostics.Overlay = true
	}
	return cfg, nil
}

func (a *app) buildRenderer() error {
	if a.cfg.Script != "" {
		sr, err := script.Load(a.cfg.Script, a.logger)
		if err != nil {
			return err
		}
		a.script = sr
		a.renderer = sr
		return nil
	}
	r, err := demo.New(a.cfg.Demo)
	if err != nil {
		return err
	}
	a.renderer = r
	return nil
}

func (a *app) rendererName() string {
	if a.script != nil {
		return "script:" + a.script.Name()
	}
	return "demo:" + a.cfg.Demo
}

// startWatcher watches the config file and a disk-backed script. With
// neither there is nothing to reload and a.watcher stays nil.
func (a *app) startWatcher() error {
	var files []string
	if a.opts.configPath != "" {
		abs, err := filepath.Abs(a.opts.configPath)
		if err != nil {
			return err
		}
		a.configAbs = abs
		files = append(files, abs)
	}
	if a.script != nil && !script.IsBuiltin(a.script.Name()) {
		abs, err := filepath.Abs(a.script.Name())
		if err != nil {
			return err
		}
		a.scriptAbs = abs
		files = append(files, abs)
	}
	if len(files) == 0 {
		a.logger.Debug("no config or script file to watch")
		return nil
	}

	w, err := config.NewWatcher(files...)
	if err != nil {
		return err
	}
	a.watcher = w
	return nil
}

// applyChanges runs on the game thread before each frame.
func (a *app) applyChanges() {
	for {
		name, ok := a.watcher.Poll()
		if !ok {
			break
		}
		switch name {
		case a.configAbs:
			a.reloadConfig()
		case a.scriptAbs:
			a.reloadScript()
		}
	}

	select {
	case err, ok := <-a.watcher.Errors:
		if ok {
			a.logger.Warn("file watcher error", "err", err)
		}
	default:
	}
}

func (a *app) reloadConfig() {
	cfg, err := loadConfig(a.opts)
	if err != nil {
		a.logger.Warn("config reload failed, keeping previous config", "err", err)
		return
	}
	if err := a.host.ApplyConfig(cfg); err != nil {
		a.logger.Warn("config reload failed, keeping previous config", "err", err)
		return
	}

	a.loop.SetTitleFormat(cfg.Diagnostics.TitleFormat)
	a.overlay.Enabled = cfg.Diagnostics.Overlay

	if cfg.Script != a.cfg.Script {
		a.logger.Info("script path changes take effect on restart", "script", cfg.Script)
		cfg.Script = a.cfg.Script
	}
	if a.script == nil && cfg.Demo != a.cfg.Demo {
		r, err := demo.New(cfg.Demo)
		if err != nil {
			a.logger.Warn("demo switch failed", "err", err)
			cfg.Demo = a.cfg.Demo
		} else {
			a.renderer = r
			a.loop.SetRenderer(r)
		}
	}
	a.cfg = cfg
	a.logger.Info("config reloaded", "path", a.configAbs)
}

func (a *app) reloadScript() {
	src, err := script.Source(a.scriptAbs)
	if err != nil {
		a.logger.Warn("script reload failed", "err", err)
		return
	}
	if err := a.script.Reload(src); err != nil {
		a.logger.Warn("script reload failed, keeping previous script", "err", err)
	}
}
