package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/intake/internal/event"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	bus     *event.Bus
}

// New creates a new TUI application. Notices published on bus are shown in
// the status line.
func New(ctx context.Context, deps Deps, bus *event.Bus) *App {
	return &App{
		model: NewModel(ctx, deps),
		bus:   bus,
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	if a.bus != nil {
		id := a.bus.Subscribe(event.TypeNotice, func(e event.Event) {
			if n, ok := e.(event.NoticeEvent); ok {
				a.program.Send(noticeMsg{text: n.Text, severity: n.Severity})
			}
		})
		defer a.bus.Unsubscribe(id)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		if _, ok := <-sigChan; ok && a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	return err
}
