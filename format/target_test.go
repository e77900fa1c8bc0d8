package format

import (
	"errors"
	"testing"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want Target
	}{
		{"text", Text},
		{"TXT", Text},
		{"plain", Text},
		{"richdoc", RichDoc},
		{".docx", RichDoc},
		{"Word", RichDoc},
		{"presentation", Presentation},
		{"pptx", Presentation},
		{"slides", Presentation},
		{"markup", Markup},
		{"rtf", Markup},
		{"legacy", LegacyText},
		{"legacytext", LegacyText},
		{"doc", LegacyText},
		{" html ", HTML},
		{"htm", HTML},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if err != nil {
				t.Fatalf("ParseTarget(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTarget(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTargetInvalid(t *testing.T) {
	for _, in := range []string{"", "pdf", "odt", "xlsx", "text2"} {
		if _, err := ParseTarget(in); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("ParseTarget(%q) error = %v, want ErrInvalidTarget", in, err)
		}
	}
}

func TestTargetProperties(t *testing.T) {
	tests := []struct {
		target Target
		name   string
		ext    string
		mime   string
	}{
		{Text, "text", ".txt", "text/plain; charset=utf-8"},
		{RichDoc, "richdoc", ".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{Presentation, "presentation", ".pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{Markup, "markup", ".rtf", "application/rtf"},
		{LegacyText, "legacytext", ".doc", "application/msword"},
		{HTML, "html", ".html", "text/html; charset=utf-8"},
		{Target(42), "Target(42)", "", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.String(); got != tt.name {
				t.Errorf("String() = %q", got)
			}
			if got := tt.target.Extension(); got != tt.ext {
				t.Errorf("Extension() = %q", got)
			}
			if got := tt.target.MIMEType(); got != tt.mime {
				t.Errorf("MIMEType() = %q", got)
			}
		})
	}
}

func TestTargetsRoundTripNames(t *testing.T) {
	all := Targets()
	if len(all) != 6 {
		t.Fatalf("expected 6 targets, got %d", len(all))
	}
	for _, target := range all {
		if !target.Valid() {
			t.Errorf("%v not valid", target)
		}
		parsed, err := ParseTarget(target.String())
		if err != nil || parsed != target {
			t.Errorf("ParseTarget(%q) = %v, %v", target.String(), parsed, err)
		}
	}
	all[0] = HTML
	if Targets()[0] != Text {
		t.Error("Targets() must return a copy")
	}
}

func TestTargetText(t *testing.T) {
	var target Target
	if err := target.UnmarshalText([]byte("slides")); err != nil || target != Presentation {
		t.Fatalf("UnmarshalText = %v, %v", target, err)
	}
	b, err := target.MarshalText()
	if err != nil || string(b) != "presentation" {
		t.Errorf("MarshalText = %q, %v", b, err)
	}
	if err := target.UnmarshalText([]byte("nope")); err == nil {
		t.Error("expected error")
	}
	if _, err := Target(-1).MarshalText(); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("MarshalText of invalid target = %v", err)
	}
}
