// Package main is the entry point for the notedown note viewer, a
// terminal front end for the live markdown formatting engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/notedown/internal/app"
	"github.com/dshills/notedown/internal/dispatcher"
	"github.com/dshills/notedown/internal/event"
	"github.com/dshills/notedown/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath, file := parseFlags()

	// All render results apply on one goroutine so attribute updates
	// never race terminal painting.
	loop := dispatcher.NewLoop()
	loop.Start()
	defer loop.Stop()

	application, err := app.New(app.Options{ConfigPath: configPath, Dispatch: loop.Post})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	var text string
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		text = string(data)
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()
	term.SetBackground(application.Themes().Current().Background)

	session := application.OpenSession(text)

	// Background analysis finishes off the event loop; wake it so the
	// fresh attributes get painted.
	application.Bus().Subscribe(event.TopicAttributesApplied, func(any) {
		term.Wake()
	})

	var quit atomic.Bool
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		quit.Store(true)
		term.Wake()
	}()

	for {
		draw(term, session)

		switch ev := term.PollEvent().(type) {
		case *tcell.EventKey:
			if !handleKey(session, ev) {
				return 0
			}
		case *tcell.EventInterrupt:
			if quit.Load() {
				return 0
			}
		case *tcell.EventResize:
		case nil:
			return 0
		}
	}
}

// handleKey applies one keystroke to the session. Returns false to
// quit.
func handleKey(session *app.Session, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyCtrlS:
		session.Flush()
	case tcell.KeyEnter:
		_ = session.Insert("\n")
	case tcell.KeyTab:
		_ = session.Insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if off := session.Cursor().Offset(); off > 0 {
			_ = session.Delete(off-1, off)
		}
	case tcell.KeyLeft:
		session.SetCursor(session.Cursor().Offset() - 1)
	case tcell.KeyRight:
		session.SetCursor(session.Cursor().Offset() + 1)
	case tcell.KeyRune:
		_ = session.Insert(string(ev.Rune()))
	}
	return true
}

func draw(term *backend.Terminal, session *app.Session) {
	text := session.Text()

	term.Clear()
	term.DrawText(0, 0, text, session.Attributes())
	x, y := backend.CursorCell(text, session.Cursor().Offset())
	term.ShowCursor(x, y)
	term.Show()
}

func parseFlags() (configPath, file string) {
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "notedown - live markdown note viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: notedown [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("notedown %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return configPath, flag.Arg(0)
}
