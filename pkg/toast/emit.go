package toast

import "context"

// EventName is the event name dispatched to presentation surfaces.
// Client-side code should listen for this event.
const EventName = "toast:update"

// Emitter delivers named events to a client, such as a WebSocket session.
type Emitter interface {
	Emit(name string, data any)
}

// Bridge forwards every Event of m to e as an EventName event and returns
// a func that stops forwarding.
//
// The client receives:
//   - event.detail.kind: "enqueued", "progress", "paused", "resumed", "dismissed" or "closed"
//   - event.detail.id: the affected toast (empty for "closed")
//   - event.detail.reason: set for "dismissed"
//   - event.detail.version: increases with every change
//   - event.detail.position, event.detail.toasts: the visible snapshot
//
// Emit runs with m locked, so e must not call back into m.
func Bridge(m *Manager, e Emitter) (stop func()) {
	return m.Subscribe(func(ev Event) {
		e.Emit(EventName, Payload(ev))
	})
}

// Payload converts ev to the map sent by Bridge.
func Payload(ev Event) map[string]any {
	data := map[string]any{
		"kind":       ev.Kind.String(),
		"version":    ev.Snapshot.Version,
		"id":         ev.Notification.ID,
		"position":   string(ev.Snapshot.Position),
		"maxVisible": ev.Snapshot.MaxVisible,
		"total":      ev.Snapshot.Total,
		"paused":     ev.Snapshot.Paused,
		"toasts":     ev.Snapshot.Items,
	}
	if ev.Reason != "" {
		data["reason"] = string(ev.Reason)
	}
	return data
}

// Show enqueues a toast on the Manager carried by ctx and returns its id.
// It panics when ctx has no Manager.
func Show(ctx context.Context, level Type, message string, opts ...Option) string {
	opts = append([]Option{WithType(level)}, opts...)
	return Use(ctx).Enqueue(message, opts...)
}

// Success shows a success toast.
//
//	toast.Success(ctx, "Changes saved!")
func Success(ctx context.Context, message string, opts ...Option) string {
	return Show(ctx, TypeSuccess, message, opts...)
}

// Error shows an error toast.
//
//	toast.Error(ctx, "Failed to delete item")
func Error(ctx context.Context, message string, opts ...Option) string {
	return Show(ctx, TypeError, message, opts...)
}

// Warning shows a warning toast.
//
//	toast.Warning(ctx, "This action cannot be undone")
func Warning(ctx context.Context, message string, opts ...Option) string {
	return Show(ctx, TypeWarning, message, opts...)
}

// Info shows an info toast.
//
//	toast.Info(ctx, "New features available")
func Info(ctx context.Context, message string, opts ...Option) string {
	return Show(ctx, TypeInfo, message, opts...)
}

// Dismiss dismisses id on the Manager carried by ctx.
// It panics when ctx has no Manager.
func Dismiss(ctx context.Context, id string) {
	Use(ctx).Dismiss(id)
}
