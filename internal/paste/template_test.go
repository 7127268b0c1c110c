package paste

import (
	"testing"
	"time"

	"github.com/clipvault/clipvault/internal/model"
)

func TestFillTemplateSubstitutesEnabledOptions(t *testing.T) {
	opts := model.FormTemplateOptions{
		TemplateOptions: []model.TemplateOption{
			{Label: "name", Value: "Ada", IsEnable: true},
			{Label: "skipped", Value: "nope", IsEnable: false},
		},
	}
	got := FillTemplate("Hello {{ name }}, {{ skipped }}!", opts, "", false)
	if got != "Hello Ada, !" {
		t.Errorf("FillTemplate() = %q, want %q", got, "Hello Ada, !")
	}
}

func TestFillTemplateClipboardSpecialCase(t *testing.T) {
	opts := model.FormTemplateOptions{
		TemplateOptions: []model.TemplateOption{{Label: "clipboard", Value: "stale", IsEnable: true}},
	}
	got := FillTemplate("paste: {{ clipboard }}", opts, "fresh value", false)
	if got != "paste: fresh value" {
		t.Errorf("FillTemplate() = %q, want the live clipboard text substituted", got)
	}
}

func TestFillTemplateMasksPreviewOnly(t *testing.T) {
	opts := model.FormTemplateOptions{
		TemplateOptions: []model.TemplateOption{{Label: "secret", Value: "hunter2", IsValueMasked: true, IsEnable: true}},
	}
	live := FillTemplate("token={{ secret }}", opts, "", false)
	if live != "token=hunter2" {
		t.Errorf("live fill = %q, want the real value", live)
	}
	preview := FillTemplate("token={{ secret }}", opts, "", true)
	if preview == live || preview == "token={{ secret }}" {
		t.Errorf("preview fill = %q, want a masked value distinct from the live fill", preview)
	}
}

func TestFillTemplateStripsUnmatchedPlaceholders(t *testing.T) {
	got := FillTemplate("keep {{ unknown }} done", model.FormTemplateOptions{}, "", false)
	if got != "keep  done" {
		t.Errorf("FillTemplate() = %q, want unmatched placeholder stripped", got)
	}
}

func TestKeyChordStepsDecomposeNamedMacros(t *testing.T) {
	cases := map[string][]string{
		keysEnter:       {"enter"},
		keysTabTab:      {"tab", "tab"},
		keysTabEnter:    {"tab", "enter"},
		keysTabTabEnter: {"tab", "tab", "enter"},
		"unknown":       nil,
	}
	for chord, want := range cases {
		got := keyChordSteps(chord)
		if len(got) != len(want) {
			t.Errorf("keyChordSteps(%q) = %v, want %v", chord, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("keyChordSteps(%q)[%d] = %q, want %q", chord, i, got[i], want[i])
			}
		}
	}
}

func TestParseDelay(t *testing.T) {
	if got := parseDelay("3s"); got != 3*time.Second {
		t.Errorf("parseDelay(3s) = %v, want 3s", got)
	}
	if got := parseDelay("2"); got != 2*time.Second {
		t.Errorf("parseDelay(2) = %v, want 2s (bare integer falls back to seconds)", got)
	}
	if got := parseDelay("not-a-duration"); got != 0 {
		t.Errorf("parseDelay(garbage) = %v, want 0", got)
	}
}
