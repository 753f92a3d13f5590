package ui

import (
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5K"},
		{2500000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		b    uint64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{2048, "2.0KB"},
		{3 * 1024 * 1024, "3.0MB"},
		{5 * 1024 * 1024 * 1024, "5.0GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.b); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "unlimited"},
		{500 * time.Millisecond, "500ms"},
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{90 * 24 * time.Hour, "90d"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	if got := formatAge(time.Time{}); got != "never" {
		t.Errorf("zero time = %q, want never", got)
	}
	if got := formatAge(time.Now().Add(-30 * time.Second)); got != "30s ago" {
		t.Errorf("30s = %q", got)
	}
	if got := formatAge(time.Now().Add(-5 * time.Minute)); got != "5m ago" {
		t.Errorf("5m = %q", got)
	}
	if got := formatAge(time.Now().Add(-3 * 24 * time.Hour)); got != "3d ago" {
		t.Errorf("3d = %q", got)
	}

	old := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := formatAge(old); got != "2026-01-15" {
		t.Errorf("old timestamp = %q", got)
	}
}

func TestParseByteString(t *testing.T) {
	tests := []struct {
		s    string
		want uint64
	}{
		{"unlimited", 0},
		{"Unlimited", 0},
		{"1024", 1024},
		{"2KB", 2048},
		{"3MB", 3 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseByteString(tt.s); got != tt.want {
			t.Errorf("parseByteString(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestFormatBytesToString(t *testing.T) {
	tests := []struct {
		b    uint64
		want string
	}{
		{0, "unlimited"},
		{500, "500"},
		{2048, "2KB"},
		{3 * 1024 * 1024, "3MB"},
		{1024 * 1024 * 1024, "1GB"},
	}
	for _, tt := range tests {
		if got := formatBytesToString(tt.b); got != tt.want {
			t.Errorf("formatBytesToString(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is far too long", 10, "this is..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}
