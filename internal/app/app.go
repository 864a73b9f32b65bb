package app

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/notedown/internal/config"
	"github.com/dshills/notedown/internal/event"
	"github.com/dshills/notedown/internal/plugin/lua"
	"github.com/dshills/notedown/internal/renderer"
	"github.com/dshills/notedown/internal/scheduler"
	"github.com/dshills/notedown/internal/theme"
)

// Application wires the formatting engine together: configuration,
// theming, the event bus and open sessions.
type Application struct {
	mu sync.RWMutex

	cfg      *config.Config
	cfgPath  string
	watcher  *config.Watcher
	logger   *Logger
	logFile  io.Closer
	bus      *event.Bus
	themes   *theme.Registry
	renderer *renderer.Renderer
	sessions map[uuid.UUID]*Session
	dispatch scheduler.DispatchFunc
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty runs on defaults without
	// live reload.
	ConfigPath string

	// Dispatch routes plan application through the host's interactive
	// context. Nil applies plans on the analysis goroutine.
	Dispatch scheduler.DispatchFunc

	// LogOutput overrides the configured log destination.
	LogOutput io.Writer
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		cfgPath:  opts.ConfigPath,
		themes:   theme.NewRegistry(),
		sessions: make(map[uuid.UUID]*Session),
		dispatch: opts.Dispatch,
	}

	if err := app.bootstrap(opts); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap(opts Options) error {
	cfg, err := config.Load(app.cfgPath)
	if err != nil {
		return err
	}
	app.cfg = cfg

	if err := app.initLogger(opts.LogOutput); err != nil {
		return err
	}

	app.bus = event.NewBus(event.WithPanicFunc(func(topic event.Topic, recovered any) {
		app.logger.Error("event handler panicked", "topic", string(topic), "panic", recovered)
	}))

	if err := app.applyThemeConfig(cfg); err != nil {
		return err
	}

	mode, err := renderer.ParseMode(app.cfg.Editor.Mode)
	if err != nil {
		return err
	}
	app.renderer = renderer.New(app.themes.Current(),
		renderer.WithMode(mode),
		renderer.WithLogger(app.logger.WithComponent("renderer")))

	if app.cfgPath != "" {
		w, err := config.NewWatcher(app.cfgPath, app.onConfigReload,
			config.WithErrorFunc(func(err error) {
				app.logger.Warn("config reload failed", "error", err)
			}))
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		app.watcher = w
	}

	app.logger.Info("application ready",
		"theme", app.themes.Current().Name,
		"mode", mode.String(),
		"debounce", app.cfg.Debounce())
	return nil
}

func (app *Application) initLogger(override io.Writer) error {
	lcfg := DefaultLoggerConfig()
	lcfg.Level = ParseLogLevel(app.cfg.Log.Level)

	switch {
	case override != nil:
		lcfg.Output = override
	case app.cfg.Log.Path != "":
		f, err := os.OpenFile(app.cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		app.logFile = f
		lcfg.Output = f
	default:
		lcfg.Output = io.Discard
	}

	app.logger = NewLogger(lcfg)
	return nil
}

// applyThemeConfig resolves the configured theme, runs the style hook
// and activates the result.
func (app *Application) applyThemeConfig(cfg *config.Config) error {
	var active *theme.Theme

	if path := cfg.Theme.Path; path != "" {
		t, err := theme.Load(path)
		if err != nil {
			return err
		}
		app.themes.Register(t)
		active = t
	} else {
		name := cfg.Theme.Name
		t, ok := app.themes.Get(name)
		if !ok {
			return fmt.Errorf("unknown theme %q", name)
		}
		active = t
	}

	if hook := cfg.Theme.StyleHook; hook != "" {
		adjusted := active.Clone()
		if err := lua.NewStyleHook(hook).Apply(adjusted); err != nil {
			return err
		}
		app.themes.Register(adjusted)
		active = adjusted
	}

	app.themes.SetCurrent(active.Name)
	return nil
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Bus returns the application event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Themes returns the theme registry.
func (app *Application) Themes() *theme.Registry {
	return app.themes
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// OpenSession creates a session for the given text.
func (app *Application) OpenSession(text string) *Session {
	app.mu.Lock()
	defer app.mu.Unlock()

	s := NewSession(app.renderer,
		WithInitialText(text),
		WithDebounce(app.cfg.Debounce()),
		WithDispatch(app.dispatch),
		WithBus(app.bus),
		WithSessionLogger(app.logger),
		WithNormalizeNewlines(app.cfg.Editor.NormalizeNewlines),
	)
	app.sessions[s.ID()] = s

	app.logger.Info("session opened", "session", s.ID(), "length", len(text))
	return s
}

// Session returns an open session by id.
func (app *Application) Session(id uuid.UUID) (*Session, bool) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	s, ok := app.sessions[id]
	return s, ok
}

// CloseSession tears down one session.
func (app *Application) CloseSession(id uuid.UUID) {
	app.mu.Lock()
	s, ok := app.sessions[id]
	delete(app.sessions, id)
	app.mu.Unlock()

	if ok {
		s.Close()
		app.logger.Info("session closed", "session", id)
	}
}

// SetTheme activates a registered theme and repaints open sessions.
func (app *Application) SetTheme(name string) error {
	if !app.themes.SetCurrent(name) {
		return fmt.Errorf("unknown theme %q", name)
	}
	app.renderer.SetStyles(app.themes.Current())

	app.mu.RLock()
	sessions := app.sessionsLocked()
	app.mu.RUnlock()

	for _, s := range sessions {
		s.Refresh()
	}
	return nil
}

// onConfigReload applies a freshly loaded settings file to the
// running application.
func (app *Application) onConfigReload(cfg *config.Config) {
	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))

	if err := app.applyThemeConfig(cfg); err != nil {
		app.logger.Warn("config reload: theme rejected", "error", err)
	} else {
		app.renderer.SetStyles(app.themes.Current())
	}

	mode, err := renderer.ParseMode(cfg.Editor.Mode)
	if err != nil {
		app.logger.Warn("config reload: mode rejected", "error", err)
		mode = app.renderer.Mode()
	}
	app.renderer.SetMode(mode)

	app.mu.RLock()
	sessions := app.sessionsLocked()
	app.mu.RUnlock()

	for _, s := range sessions {
		s.Refresh()
	}

	app.logger.Info("configuration reloaded", "path", app.cfgPath)
	app.publish(event.TopicConfigReloaded, event.ConfigReloaded{Path: app.cfgPath})
}

func (app *Application) sessionsLocked() []*Session {
	out := make([]*Session, 0, len(app.sessions))
	for _, s := range app.sessions {
		out = append(out, s)
	}
	return out
}

func (app *Application) publish(topic event.Topic, ev any) {
	if err := app.bus.Publish(topic, ev); err != nil {
		app.logger.Debug("event dropped", "topic", string(topic), "error", err)
	}
}

// Shutdown closes all sessions and background machinery. Safe to call
// on a partially constructed application.
func (app *Application) Shutdown() {
	app.mu.Lock()
	sessions := app.sessionsLocked()
	app.sessions = make(map[uuid.UUID]*Session)
	app.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.bus != nil {
		app.bus.Close()
	}
	if app.logger != nil {
		app.logger.Info("application stopped")
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}
