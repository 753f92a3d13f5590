package chat

import (
	"testing"
	"time"

	"github.com/natter-io/natter/internal/models"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"dev", "dev", true},
		{"dev", "dev-ops", false},
		{"dev*", "dev-ops", true},
		{"dev*", "ops-dev", false},
		{"*ops*", "dev-ops-eu", true},
	}

	for _, tt := range tests {
		re, err := compilePattern(tt.pattern)
		if err != nil {
			t.Fatalf("compilePattern(%q) error: %v", tt.pattern, err)
		}
		if got := re.MatchString(tt.name); got != tt.want {
			t.Errorf("pattern %q against %q = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestCompilePatternMatchAll(t *testing.T) {
	for _, pattern := range []string{"", "*"} {
		re, err := compilePattern(pattern)
		if err != nil {
			t.Fatalf("compilePattern(%q) error: %v", pattern, err)
		}
		if re != nil {
			t.Errorf("compilePattern(%q) should return nil (match all)", pattern)
		}
	}
}

func TestSearchQueryMatches(t *testing.T) {
	msg := &models.Message{
		Sender: "Ava",
		Body:   "Deploying v2.4.1 to prod",
		Time:   time.Now().Add(-2 * time.Hour),
	}

	tests := []struct {
		name string
		q    SearchQuery
		want bool
	}{
		{"empty query matches", SearchQuery{}, true},
		{"sender case-insensitive", SearchQuery{Sender: "ava"}, true},
		{"sender mismatch", SearchQuery{Sender: "ben"}, false},
		{"contains case-insensitive", SearchQuery{Contains: "DEPLOY"}, true},
		{"contains mismatch", SearchQuery{Contains: "rollback"}, false},
		{"within matches recent", SearchQuery{AgeOp: "within", Age: 3 * time.Hour}, true},
		{"within rejects old", SearchQuery{AgeOp: "within", Age: time.Hour}, false},
		{"older matches old", SearchQuery{AgeOp: "older", Age: time.Hour}, true},
		{"older rejects recent", SearchQuery{AgeOp: "older", Age: 3 * time.Hour}, false},
		{"any ignores age", SearchQuery{AgeOp: "any", Age: time.Nanosecond}, true},
		{"zero age ignores op", SearchQuery{AgeOp: "within"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.matches(msg); got != tt.want {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
		})
	}
}
