package toast

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"", TypeInfo, false},
		{"info", TypeInfo, false},
		{"success", TypeSuccess, false},
		{"warning", TypeWarning, false},
		{"error", TypeError, false},
		{"fatal", "", true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"", PositionTopRight, false},
		{"top-left", PositionTopLeft, false},
		{"bottom-right", PositionBottomRight, false},
		{"bottom-left", PositionBottomLeft, false},
		{"center", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePosition(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNotificationJSON(t *testing.T) {
	created := time.UnixMilli(1700000000000)

	timed := Notification{
		ID:          "toast-1",
		Message:     "Saved",
		Type:        TypeSuccess,
		Duration:    5 * time.Second,
		Dismissible: true,
		CreatedAt:   created,
		Progress:    42.5,
	}
	data, err := json.Marshal(timed)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["duration"] != float64(5000) {
		t.Errorf("duration = %v, want 5000", got["duration"])
	}
	if got["progressPercent"] != 42.5 {
		t.Errorf("progressPercent = %v", got["progressPercent"])
	}
	if got["createdAt"] != float64(1700000000000) {
		t.Errorf("createdAt = %v", got["createdAt"])
	}
	if _, ok := got["title"]; ok {
		t.Error("empty title should be omitted")
	}

	persistent := timed
	persistent.Duration = 0
	persistent.Progress = 0
	data, _ = json.Marshal(persistent)
	got = nil
	_ = json.Unmarshal(data, &got)
	if _, ok := got["progressPercent"]; ok {
		t.Error("persistent toast should omit progressPercent")
	}
}
