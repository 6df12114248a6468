package format

import (
	"testing"
	"time"
)

func TestAge(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "now"},
		{"under a minute", 59 * time.Second, "now"},
		{"minutes", 30 * time.Minute, "30m"},
		{"hours", 12 * time.Hour, "12h"},
		{"days", 3 * 24 * time.Hour, "3d"},
		{"weeks", 14 * 24 * time.Hour, "2w"},
		{"months", 90 * 24 * time.Hour, "3mo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.duration); got != tt.expected {
				t.Errorf("Age(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"plain", 5},
		{"", 0},
		{"\x1b[31mred\x1b[0m", 3},
		{"中文", 4},
	}

	for _, tt := range tests {
		if got := DisplayWidth(tt.input); got != tt.expected {
			t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "short", 10, "short"},
		{"exact fit", "exactly10!", 10, "exactly10!"},
		{"truncated", "a longer string here", 10, "a longe..."},
		{"wide runes cut on boundary", "中文字符串", 7, "中文..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, width := TruncateToWidth(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("TruncateToWidth(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
			if width > tt.maxWidth {
				t.Errorf("reported width %d exceeds max %d", width, tt.maxWidth)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 2, 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 6, 5); got != "abcdef" {
		t.Errorf("PadRight should not trim: %q", got)
	}
}
