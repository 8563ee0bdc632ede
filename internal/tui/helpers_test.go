package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncStr(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hell…"},
		{"empty string", "", 5, ""},
		{"single char over", "ab", 1, "…"},
		{"zero width", "ab", 0, ""},
		{"CJK chars", "你好世界", 3, "你好…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncStr(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncStr(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateToHeightLimitsLines(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	result := truncateToHeight(input, 3)

	if lines := strings.Count(result, "\n"); lines > 3 {
		t.Errorf("truncateToHeight(5 lines, 3) produced %d newlines, want <= 3", lines)
	}
	if strings.Contains(result, "line4") {
		t.Errorf("truncateToHeight result should not contain line4: %q", result)
	}
}

func TestTruncateToHeightNonPositiveMaxReturnsAll(t *testing.T) {
	input := "line1\nline2\n"
	for _, n := range []int{0, -1} {
		if got := truncateToHeight(input, n); got != input {
			t.Errorf("truncateToHeight(%d) = %q, want input unchanged", n, got)
		}
	}
}

func TestFormatRecorded(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"legacy entry", time.Time{}, ""},
		{"seconds ago", now.Add(-10 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3 hours ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRecorded(tt.t, now); got != tt.want {
				t.Errorf("formatRecorded() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCenterLine(t *testing.T) {
	got := centerLine("abcd", 10)
	if got != "   abcd" {
		t.Errorf("centerLine = %q", got)
	}
	if got := centerLine("abcdef", 4); got != "abcdef" {
		t.Errorf("overlong line should not be padded, got %q", got)
	}
	if w := lipgloss.Width(centerLine(accentStyle.Render("x"), 9)); w != 5 {
		t.Errorf("styled line width = %d, want 5", w)
	}
}
