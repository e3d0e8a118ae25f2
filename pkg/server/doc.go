// Package server exposes a toast.Manager over HTTP and WebSocket.
//
// # Endpoints
//
//	GET    /toasts             visible snapshot
//	POST   /toasts             enqueue; body {message, type, title, duration, dismissible, action}
//	GET    /toasts/{id}        one toast, visible or not
//	DELETE /toasts/{id}        dismiss (409 when the toast is not dismissible)
//	POST   /toasts/{id}/pause  suspend the countdown
//	POST   /toasts/{id}/resume continue the countdown
//	GET    /toasts/stream      WebSocket stream of snapshots
//	GET    /healthz            liveness
//	GET    /metrics            Prometheus, when Config.Gatherer is set
//
// Durations are milliseconds; a duration of 0 keeps the toast until it is
// dismissed.
//
// # Stream Protocol
//
// On connect the client receives {"kind":"snapshot", ...}, then one message
// per change with the same shape as toast.Payload. Messages carry a
// version; a client keeps the highest one it has seen. Clients may send
// commands:
//
//	{"op":"pause","id":"..."}    pointer entered
//	{"op":"resume","id":"..."}   pointer left
//	{"op":"dismiss","id":"..."}  close button
//
// # Usage
//
//	m := toast.New(cfg.ManagerOptions()...)
//	srv := server.New(m, server.Config{Address: ":3100", Logger: logger})
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
