package styles

import (
	"testing"

	"github.com/Iron-Ham/intake/internal/config"
	"github.com/Iron-Ham/intake/internal/errors"
)

func TestProgressColor(t *testing.T) {
	tests := []struct {
		name     string
		percent  float64
		hasGoal  bool
		expected string // Expected color hex value
	}{
		{"no goal", 50, false, "#6B7280"},
		{"no goal ignores percent", 500, false, "#6B7280"},
		{"under", 40, true, "#60A5FA"},
		{"just under met", 89.9, true, "#60A5FA"},
		{"met low", 90, true, "#10B981"},
		{"met exact", 100, true, "#10B981"},
		{"met high", 110, true, "#10B981"},
		{"over", 110.1, true, "#F87171"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressColor(tt.percent, tt.hasGoal)
			if string(got) != tt.expected {
				t.Errorf("ProgressColor(%v, %v) = %q, want %q", tt.percent, tt.hasGoal, got, tt.expected)
			}
		})
	}
}

func TestNoticeIcon(t *testing.T) {
	tests := []struct {
		sev      errors.Severity
		expected string
	}{
		{errors.SeverityError, "✗"},
		{errors.SeverityWarning, "!"},
		{errors.SeverityInfo, "●"},
	}

	for _, tt := range tests {
		t.Run(tt.sev.String(), func(t *testing.T) {
			if got := NoticeIcon(tt.sev); got != tt.expected {
				t.Errorf("NoticeIcon(%v) = %q, want %q", tt.sev, got, tt.expected)
			}
		})
	}
}

func TestNoticeStyle(t *testing.T) {
	if got := NoticeStyle(errors.SeverityError).GetForeground(); got != ErrorColor {
		t.Errorf("error notice foreground = %v, want %v", got, ErrorColor)
	}
	if got := NoticeStyle(errors.SeverityWarning).GetForeground(); got != WarningColor {
		t.Errorf("warning notice foreground = %v, want %v", got, WarningColor)
	}
	if got := NoticeStyle(errors.SeverityInfo).GetForeground(); got != BlueColor {
		t.Errorf("info notice foreground = %v, want %v", got, BlueColor)
	}
}

func TestApplyTheme(t *testing.T) {
	t.Cleanup(func() { _ = ApplyTheme("default") })

	if err := ApplyTheme("nord"); err != nil {
		t.Fatalf("ApplyTheme(nord) error = %v", err)
	}
	if PrimaryColor != NordPalette().Primary {
		t.Errorf("PrimaryColor = %v, want %v", PrimaryColor, NordPalette().Primary)
	}
	if got := Title.GetForeground(); got != NordPalette().Primary {
		t.Errorf("Title foreground = %v, want rebuilt nord primary", got)
	}
	if got := ProgressColor(100, true); got != NordPalette().Met {
		t.Errorf("ProgressColor(100) = %v, want %v", got, NordPalette().Met)
	}

	if err := ApplyTheme("no-such-theme"); err == nil {
		t.Error("ApplyTheme(no-such-theme) should fail")
	}
	if PrimaryColor != NordPalette().Primary {
		t.Error("failed ApplyTheme should leave the current theme in place")
	}

	if err := ApplyTheme(""); err != nil {
		t.Fatalf("ApplyTheme(\"\") error = %v", err)
	}
	if PrimaryColor != DefaultPalette().Primary {
		t.Errorf("empty theme should select default, got primary %v", PrimaryColor)
	}
}

func TestConfigThemesHavePalettes(t *testing.T) {
	for _, name := range config.ValidThemes() {
		if _, ok := PaletteFor(name); !ok {
			t.Errorf("theme %q accepted by config has no palette", name)
		}
	}
}
