// Package event provides a synchronous pub-sub bus used to surface
// user-facing notices and ledger changes without coupling the ledger,
// goal tracker and edit sessions to a particular front end.
//
// The CLI subscribes to [NoticeEvent] and prints the text to stderr; the TUI
// subscribes to every event and shows the latest notice in its status line.
//
// Events are informational only. Refreshes are always explicit method calls
// on the ledger store and goal tracker; nothing in this package triggers one.
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeNotice, func(e event.Event) {
//	    n := e.(event.NoticeEvent)
//	    fmt.Fprintln(os.Stderr, n.Text)
//	})
package event
