package toast

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type represents the toast notification type.
// It affects presentation only, never queue behavior.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// Valid reports whether t is one of the four known types.
func (t Type) Valid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}

// ParseType parses a type name. The empty string yields TypeInfo.
func ParseType(s string) (Type, error) {
	if s == "" {
		return TypeInfo, nil
	}
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("toast: unknown type %q", s)
	}
	return t, nil
}

// Position is the screen corner the presentation layer stacks toasts in.
type Position string

const (
	PositionTopRight    Position = "top-right"
	PositionTopLeft     Position = "top-left"
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
)

// Valid reports whether p is one of the four screen corners.
func (p Position) Valid() bool {
	switch p {
	case PositionTopRight, PositionTopLeft, PositionBottomRight, PositionBottomLeft:
		return true
	}
	return false
}

// ParsePosition parses a position name. The empty string yields PositionTopRight.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return PositionTopRight, nil
	}
	p := Position(s)
	if !p.Valid() {
		return "", fmt.Errorf("toast: unknown position %q", s)
	}
	return p, nil
}

// Action is an optional button rendered inside a toast.
type Action struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// Notification is one queued toast.
//
// Everything except Progress and Paused is fixed at creation.
type Notification struct {
	ID          string
	Message     string
	Title       string
	Type        Type
	Action      *Action
	Duration    time.Duration // 0 means persistent
	Dismissible bool
	CreatedAt   time.Time

	// Progress is the remaining lifetime in percent, as published by the
	// last unpaused tick. Starts at 100; always 0 for persistent toasts.
	Progress float64

	// Paused is true while the countdown is suspended.
	Paused bool
}

// Persistent reports whether the notification stays until dismissed.
func (n Notification) Persistent() bool {
	return n.Duration <= 0
}

// HasProgress reports whether Progress carries a meaningful value.
func (n Notification) HasProgress() bool {
	return !n.Persistent()
}

type notificationJSON struct {
	ID          string   `json:"id"`
	Message     string   `json:"message"`
	Title       string   `json:"title,omitempty"`
	Type        Type     `json:"type"`
	Action      *Action  `json:"action,omitempty"`
	Duration    int64    `json:"duration"`
	Dismissible bool     `json:"dismissible"`
	CreatedAt   int64    `json:"createdAt"`
	Progress    *float64 `json:"progressPercent,omitempty"`
	Paused      bool     `json:"paused,omitempty"`
}

// MarshalJSON encodes durations in milliseconds and omits progressPercent
// for persistent toasts.
func (n Notification) MarshalJSON() ([]byte, error) {
	v := notificationJSON{
		ID:          n.ID,
		Message:     n.Message,
		Title:       n.Title,
		Type:        n.Type,
		Action:      n.Action,
		Duration:    n.Duration.Milliseconds(),
		Dismissible: n.Dismissible,
		CreatedAt:   n.CreatedAt.UnixMilli(),
		Paused:      n.Paused,
	}
	if n.HasProgress() {
		p := n.Progress
		v.Progress = &p
	}
	return json.Marshal(v)
}
