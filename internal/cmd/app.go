package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/intake/internal/config"
	"github.com/Iron-Ham/intake/internal/editsession"
	"github.com/Iron-Ham/intake/internal/errors"
	"github.com/Iron-Ham/intake/internal/event"
	"github.com/Iron-Ham/intake/internal/gateway"
	"github.com/Iron-Ham/intake/internal/goals"
	"github.com/Iron-Ham/intake/internal/ledger"
	"github.com/Iron-Ham/intake/internal/logging"
)

const dateLayout = "2006-01-02"

// app is the wired set of components one command invocation works with.
type app struct {
	cfg         *config.Config
	token       string
	logger      *logging.Logger
	bus         *event.Bus
	gateway     *gateway.Client
	store       *ledger.Store
	tracker     *goals.Tracker
	coordinator *editsession.Coordinator
}

// newApp loads the configuration and wires the ledger components. Notices
// are printed to the command's stderr. When fileLog is set and no log
// directory is configured, logs go to the config directory instead of
// stderr.
func newApp(cmd *cobra.Command, fileLog bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg, fileLog)
	if err != nil {
		return nil, err
	}

	basis, err := ledger.ParseBasis(cfg.Ledger.Scaling)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	bus := event.NewBus()
	bus.SetLogger(logger)

	gw := gateway.NewClient(cfg.API.BaseURL,
		gateway.WithTimeout(cfg.API.Timeout()),
		gateway.WithLogger(logger),
	)
	store := ledger.NewStore(gw, ledger.NewScaler(basis),
		ledger.WithPublisher(bus),
		ledger.WithLogger(logger),
	)
	tracker := goals.NewTracker(gw,
		goals.WithPublisher(bus),
		goals.WithLogger(logger),
	)
	coordinator := editsession.NewCoordinator(gw, store, tracker,
		editsession.WithPublisher(bus),
		editsession.WithLogger(logger),
	)

	a := &app{
		cfg:         cfg,
		token:       cfg.API.Token,
		logger:      logger,
		bus:         bus,
		gateway:     gw,
		store:       store,
		tracker:     tracker,
		coordinator: coordinator,
	}
	if !fileLog {
		a.printNotices(cmd.ErrOrStderr())
	}
	return a, nil
}

func newLogger(stderr io.Writer, cfg *config.Config, fileLog bool) (*logging.Logger, error) {
	dir := cfg.Logging.Dir
	if dir == "" && fileLog {
		dir = config.ConfigDir()
	}
	if dir == "" {
		return logging.NewWriterLogger(stderr, cfg.Logging.Level), nil
	}
	logger, err := logging.NewLogger(dir, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// printNotices writes every published notice to w.
func (a *app) printNotices(w io.Writer) {
	a.bus.Subscribe(event.TypeNotice, func(e event.Event) {
		n, ok := e.(event.NoticeEvent)
		if !ok {
			return
		}
		fmt.Fprintf(w, "%s: %s\n", n.Severity, n.Text)
	})
}

// notify publishes err as a notice. Used for calls made on the gateway
// directly, which do not publish on their own.
func (a *app) notify(err error) error {
	if err != nil {
		a.bus.Publish(event.NewErrorNotice(err))
	}
	return err
}

func (a *app) Close() {
	a.bus.Clear()
	_ = a.logger.Close()
}

// dateFlag validates a --date value, defaulting to today.
func dateFlag(value string) (string, error) {
	if value == "" {
		return time.Now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", errors.NewValidationError("date must be YYYY-MM-DD").
			WithField("date").
			WithValue(value).
			WithCause(err)
	}
	return value, nil
}
