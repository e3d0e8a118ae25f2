// Package toast implements a transient notification queue for server-driven
// user interfaces.
//
// A Manager owns the ordered collection of active notifications. Each
// notification with a finite lifetime gets exactly one countdown timer that
// ticks at a fixed interval, publishes the remaining percentage on every
// tick, and dismisses the notification once its lifetime has elapsed.
// Notifications can be paused (for example while the pointer hovers them),
// which halts the countdown without stopping the ticker.
//
// # Basic Usage
//
//	m := toast.New(toast.WithMaxVisible(3))
//	defer m.Close()
//
//	id := m.Enqueue("Project deleted", toast.WithType(toast.TypeSuccess))
//	m.Pause(id)   // pointer entered
//	m.Resume(id)  // pointer left
//	m.Dismiss(id) // close button
//
//	for _, n := range m.Visible() {
//	    fmt.Println(n.ID, n.Message, n.Progress)
//	}
//
// A duration of zero keeps the notification until it is dismissed:
//
//	m.Enqueue("Connection lost", toast.WithType(toast.TypeError), toast.WithDuration(0))
//
// # Reactive Updates
//
// Every mutation (enqueue, dismiss, progress tick, pause, resume, close)
// synchronously notifies subscribers before the mutating call returns:
//
//	unsubscribe := m.Subscribe(func(ev toast.Event) {
//	    render(ev.Snapshot)
//	})
//	defer unsubscribe()
//
// Subscribers run while the manager is locked. They receive a complete
// snapshot and must not call back into the Manager from the same goroutine.
//
// # Context Helpers
//
// Handlers that only hold a context.Context use the typed helpers:
//
//	ctx = toast.NewContext(ctx, m)
//	toast.Success(ctx, "Changes saved!")
//
// The helpers panic when ctx carries no Manager; a missing queue is an
// integration bug that must fail loudly.
//
// # Time
//
// The Manager schedules through a Clock. SystemClock uses time.Ticker;
// package toasttest provides a manual clock for deterministic tests.
package toast
