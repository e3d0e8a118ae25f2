package toast

import (
	"io"
	"log/slog"
	"time"
)

const (
	// DefaultMaxVisible is the default cap on projected notifications.
	DefaultMaxVisible = 5

	// DefaultDuration is the lifetime of a toast enqueued without WithDuration.
	DefaultDuration = 5 * time.Second

	// DefaultTickInterval is the countdown tick interval.
	DefaultTickInterval = 100 * time.Millisecond
)

// Config holds the construction-time settings of a Manager.
type Config struct {
	// MaxVisible caps Visible(). Default: 5.
	MaxVisible int

	// Position is reported to presentation surfaces. Default: top-right.
	Position Position

	// DefaultDuration applies when Enqueue gets no WithDuration.
	// Zero makes toasts persistent by default. Default: 5s.
	DefaultDuration time.Duration

	// TickInterval is the countdown granularity. Default: 100ms.
	TickInterval time.Duration
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() Config {
	return Config{
		MaxVisible:      DefaultMaxVisible,
		Position:        PositionTopRight,
		DefaultDuration: DefaultDuration,
		TickInterval:    DefaultTickInterval,
	}
}

type managerConfig struct {
	Config
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

// WithConfig replaces all settings at once. Invalid fields fall back to
// their defaults.
func WithConfig(cfg Config) ManagerOption {
	return func(c *managerConfig) {
		c.Config = cfg
	}
}

// WithMaxVisible sets the visible cap. Values below 1 are ignored.
func WithMaxVisible(n int) ManagerOption {
	return func(c *managerConfig) {
		if n > 0 {
			c.MaxVisible = n
		}
	}
}

// WithPosition sets the presentation position. Invalid values are ignored.
func WithPosition(p Position) ManagerOption {
	return func(c *managerConfig) {
		if p.Valid() {
			c.Position = p
		}
	}
}

// WithDefaultDuration sets the lifetime used when Enqueue gets no
// WithDuration. Zero makes toasts persistent by default; negative values
// are ignored.
func WithDefaultDuration(d time.Duration) ManagerOption {
	return func(c *managerConfig) {
		if d >= 0 {
			c.DefaultDuration = d
		}
	}
}

// WithTickInterval sets the countdown tick interval. Non-positive values
// are ignored.
func WithTickInterval(d time.Duration) ManagerOption {
	return func(c *managerConfig) {
		if d > 0 {
			c.TickInterval = d
		}
	}
}

// WithClock sets the clock used for timestamps and tickers.
func WithClock(clock Clock) ManagerOption {
	return func(c *managerConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithIDGenerator sets the id generator.
func WithIDGenerator(gen IDGenerator) ManagerOption {
	return func(c *managerConfig) {
		if gen != nil {
			c.ids = gen
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(c *managerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func (c *managerConfig) normalize() {
	def := DefaultConfig()
	if c.MaxVisible < 1 {
		c.MaxVisible = def.MaxVisible
	}
	if !c.Position.Valid() {
		c.Position = def.Position
	}
	if c.DefaultDuration < 0 {
		c.DefaultDuration = def.DefaultDuration
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.ids == nil {
		c.ids = UUIDs()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// request collects per-toast settings.
type request struct {
	typ         Type
	title       string
	action      *Action
	duration    time.Duration
	dismissible bool
}

// Option configures a single Enqueue call.
type Option func(*request)

// WithType sets the toast type. Unknown types fall back to info.
func WithType(t Type) Option {
	return func(r *request) {
		if t.Valid() {
			r.typ = t
		}
	}
}

// WithDuration sets the lifetime. Zero (or negative) persists the toast
// until it is dismissed.
func WithDuration(d time.Duration) Option {
	return func(r *request) {
		if d < 0 {
			d = 0
		}
		r.duration = d
	}
}

// WithDismissible controls whether a close affordance is offered.
func WithDismissible(dismissible bool) Option {
	return func(r *request) {
		r.dismissible = dismissible
	}
}

// WithTitle adds a title above the message.
func WithTitle(title string) Option {
	return func(r *request) {
		r.title = title
	}
}

// WithAction adds an action button.
//
//	m.Enqueue("Item deleted", toast.WithAction("Undo", "undo-123"))
func WithAction(label, actionID string) Option {
	return func(r *request) {
		r.action = &Action{Label: label, ID: actionID}
	}
}
