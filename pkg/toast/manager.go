package toast

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/vango-dev/toast/internal/errors"
)

// Manager owns the ordered collection of active notifications, their
// timers and the pause set. It is safe for concurrent use; all mutations
// are serialized.
type Manager struct {
	cfg    Config
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger

	mu      sync.Mutex
	items   []*Notification // insertion order
	index   map[string]*Notification
	issued  map[string]struct{} // nil when ids cannot repeat
	timers  map[string]*timer
	paused  pauseSet
	closed  bool
	retries uint64
	version uint64

	subMu   sync.Mutex
	subs    []subscriber
	nextSub uint64
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// New creates a Manager.
//
// Example:
//
//	m := toast.New(
//	    toast.WithMaxVisible(3),
//	    toast.WithPosition(toast.PositionBottomRight),
//	)
//	defer m.Close()
func New(opts ...ManagerOption) *Manager {
	mc := managerConfig{Config: DefaultConfig()}
	for _, opt := range opts {
		opt(&mc)
	}
	mc.normalize()

	m := &Manager{
		cfg:    mc.Config,
		clock:  mc.clock,
		ids:    mc.ids,
		logger: mc.logger,
		index:  make(map[string]*Notification),
		timers: make(map[string]*timer),
		paused: make(pauseSet),
	}
	if _, ok := mc.ids.(distinct); !ok {
		m.issued = make(map[string]struct{})
	}
	return m
}

// Config returns the effective settings.
func (m *Manager) Config() Config {
	return m.cfg
}

// Enqueue appends a notification and returns its id.
// Unless WithDuration(0) is given, a countdown starts immediately.
func (m *Manager) Enqueue(message string, opts ...Option) string {
	req := request{
		typ:         TypeInfo,
		duration:    m.cfg.DefaultDuration,
		dismissible: true,
	}
	for _, opt := range opts {
		opt(&req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.uniqueID()
	if m.closed {
		m.logger.Debug("toast discarded", "id", id, "err", errors.New("T002"))
		return id
	}

	n := &Notification{
		ID:          id,
		Message:     message,
		Title:       req.title,
		Type:        req.typ,
		Action:      req.action,
		Duration:    req.duration,
		Dismissible: req.dismissible,
		CreatedAt:   m.clock.Now(),
	}
	if !n.Persistent() {
		n.Progress = 100
	}

	m.items = append(m.items, n)
	m.index[id] = n

	if !n.Persistent() {
		m.startTimer(id, n.Duration)
	}

	m.logger.Debug("toast enqueued",
		"id", id,
		"type", string(n.Type),
		"duration", n.Duration,
	)
	m.notify(Event{Kind: EventEnqueued, Notification: *n})
	return id
}

// uniqueID asks the generator for an id this Manager has not handed out.
// A generator that repeats itself gets a numeric suffix appended.
func (m *Manager) uniqueID() string {
	base := m.ids.NewID()
	id := base
	for m.taken(id) {
		m.retries++
		id = base + "." + strconv.FormatUint(m.retries, 10)
	}
	if m.issued != nil {
		m.issued[id] = struct{}{}
	}
	return id
}

// taken reports whether id is live or, for generators that may repeat,
// was ever issued.
func (m *Manager) taken(id string) bool {
	if _, live := m.index[id]; live {
		return true
	}
	_, seen := m.issued[id]
	return seen
}

// startTimer must be called with m.mu held.
func (m *Manager) startTimer(id string, lifetime time.Duration) {
	t := &timer{
		id:       id,
		lifetime: lifetime,
		interval: m.cfg.TickInterval,
	}
	m.timers[id] = t
	t.stop = m.clock.Every(t.interval, func() { m.tick(t) })
}

// tick runs one countdown step for t.
func (m *Manager) tick(t *timer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// A tick delivered after cancellation, or for a replaced timer.
	if m.timers[t.id] != t {
		return
	}
	if m.paused.has(t.id) {
		return
	}

	expired := t.advance()
	n := m.index[t.id]
	n.Progress = t.remainingPercent()
	m.notify(Event{Kind: EventProgress, Notification: m.view(n)})

	if expired {
		m.remove(t.id, ReasonExpired)
	}
}

// Dismiss removes the notification with id. Unknown ids are ignored, so
// repeated calls are harmless.
func (m *Manager) Dismiss(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(id, ReasonManual)
}

// remove must be called with m.mu held.
func (m *Manager) remove(id string, reason DismissReason) bool {
	n, ok := m.index[id]
	if !ok {
		return false
	}

	if t, ok := m.timers[id]; ok {
		t.cancel()
		delete(m.timers, id)
	}
	delete(m.index, id)
	m.paused.remove(id)

	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}

	m.logger.Debug("toast dismissed", "id", id, "reason", string(reason))
	m.notify(Event{Kind: EventDismissed, Notification: *n, Reason: reason})
	return true
}

// Pause suspends the countdown of id. Ids without a running timer
// (unknown or persistent) are ignored.
func (m *Manager) Pause(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.timers[id]; !ok {
		return
	}
	if m.paused.add(id) {
		m.notify(Event{Kind: EventPaused, Notification: m.view(m.index[id])})
	}
}

// Resume continues the countdown of id. Ids that are not paused are ignored.
func (m *Manager) Resume(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paused.remove(id) {
		if n, ok := m.index[id]; ok {
			m.notify(Event{Kind: EventResumed, Notification: m.view(n)})
		}
	}
}

// IsPaused reports whether the countdown of id is suspended.
func (m *Manager) IsPaused(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused.has(id)
}

// Get returns the notification with id, visible or not.
func (m *Manager) Get(id string) (Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.index[id]
	if !ok {
		return Notification{}, false
	}
	return m.view(n), true
}

// Len returns the number of active notifications, including those beyond
// the visible cap.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Visible returns at most MaxVisible notifications: the most recently
// enqueued ones, oldest first.
func (m *Manager) Visible() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible()
}

// Snapshot returns the visible projection together with presentation
// settings.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) visible() []Notification {
	start := len(m.items) - m.cfg.MaxVisible
	if start < 0 {
		start = 0
	}
	out := make([]Notification, 0, len(m.items)-start)
	for _, n := range m.items[start:] {
		out = append(out, m.view(n))
	}
	return out
}

func (m *Manager) snapshot() Snapshot {
	return Snapshot{
		Version:    m.version,
		Position:   m.cfg.Position,
		MaxVisible: m.cfg.MaxVisible,
		Total:      len(m.items),
		Paused:     len(m.paused),
		Items:      m.visible(),
	}
}

// view copies n with its pause flag filled in.
func (m *Manager) view(n *Notification) Notification {
	v := *n
	v.Paused = m.paused.has(n.ID)
	return v
}

// Close cancels every timer and drops every notification. Subscribers see
// one EventDismissed per notification (ReasonClosed) followed by
// EventClosed. Enqueue after Close stores nothing.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for _, t := range m.timers {
		t.cancel()
	}
	m.timers = make(map[string]*timer)

	for len(m.items) > 0 {
		m.remove(m.items[0].ID, ReasonClosed)
	}

	m.logger.Debug("toast manager closed")
	m.notify(Event{Kind: EventClosed})
}

// Closed reports whether Close has been called.
func (m *Manager) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Subscribe registers fn for every subsequent Event and returns a func
// that removes it. fn runs synchronously in the goroutine that mutated the
// Manager, with the Manager locked; it may unsubscribe but must not call
// other Manager methods.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subMu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			defer m.subMu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// notify must be called with m.mu held, once per state change.
func (m *Manager) notify(ev Event) {
	m.version++

	m.subMu.Lock()
	subs := m.subs
	m.subMu.Unlock()

	if len(subs) == 0 {
		return
	}
	ev.Snapshot = m.snapshot()
	for _, s := range subs {
		s.fn(ev)
	}
}
