package paste

import (
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/textutil"
)

// remainingPlaceholder matches any {{...}} slot left over after the known
// substitutions run, so the final fill step can strip it.
var remainingPlaceholder = regexp.MustCompile(`\{\{[^{}]*\}\}`)

// FillTemplate substitutes templateStr's "{{ label }}" placeholders
// (case-insensitive, whitespace-tolerant) from opts.TemplateOptions,
// skipping disabled options. A label matching "clipboard"
// (case-insensitive) is substituted from currentClipboardText instead of
// the option's own value. When preview is true, masked options
// substitute their masked form instead of the literal value, matching
// how the UI previews a template fill without ever showing the real
// secret.
func FillTemplate(templateStr string, opts model.FormTemplateOptions, currentClipboardText string, preview bool) string {
	filled := templateStr
	for _, t := range opts.TemplateOptions {
		if !t.IsEnable {
			continue
		}
		value := t.Value
		if strings.EqualFold(strings.TrimSpace(t.Label), "clipboard") {
			value = currentClipboardText
		}
		if preview && t.IsValueMasked {
			value = textutil.Mask(value)
		}
		filled = replacePlaceholder(filled, t.Label, value)
	}
	return remainingPlaceholder.ReplaceAllString(filled, "")
}

func replacePlaceholder(s, label, value string) string {
	pattern := regexp.MustCompile(`(?i)\{\{\s*` + regexp.QuoteMeta(label) + `\s*\}\}`)
	// ReplaceAllStringFunc, not ReplaceAllString: value is a user-supplied
	// option value and must be substituted literally, but ReplaceAllString
	// treats a "$"-prefixed value as regexp backreference syntax.
	return pattern.ReplaceAllStringFunc(s, func(string) string {
		return value
	})
}

// PasteTemplate fills item.Value's placeholders against opts and
// currentClipboardText, writes the result to the clipboard, optionally
// synthesizes paste, and opens OpenURL afterward unless
// IsOpenURLDisabled is set.
func (d *Dispatcher) PasteTemplate(item *model.Item, opts model.FormTemplateOptions, currentClipboardText string, autoPaste bool) error {
	filled := FillTemplate(item.Value, opts, currentClipboardText, false)

	if err := d.PasteText(filled, autoPaste); err != nil {
		return err
	}

	if opts.OpenURL != "" && !opts.IsOpenURLDisabled {
		if err := openURL(opts.OpenURL); err != nil {
			d.log.Warnw("paste: opening template open_url failed", "url", opts.OpenURL, "error", err)
		}
	}
	return nil
}

// pressKeysAfterPaste enumerates the closed set of key-chord shortcuts a
// form field may request after its value is pasted.
const (
	keysEnter       = "Enter"
	keysTab         = "Tab"
	keysTabTab      = "TabTab"
	keysTabTabTab   = "TabTabTab"
	keysTabEnter    = "TabEnter"
	keysTabTabEnter = "TabTabEnter"
)

// PasteForm drives a form-fill clip's scripted sequence of delays,
// clipboard writes, and key-chord synthesis. Each
// enabled field runs in order; is_delay_only sleeps only, and
// is_press_keys_only synthesizes a key chord without touching the
// clipboard.
func (d *Dispatcher) PasteForm(opts model.FormTemplateOptions, currentClipboardText string) error {
	if opts.OpenURL != "" && !opts.IsOpenURLDisabled {
		if err := openURL(opts.OpenURL); err != nil {
			d.log.Warnw("paste: opening form open_url failed", "url", opts.OpenURL, "error", err)
		}
		sleep(time.Second)
	}

	for _, f := range opts.Fields {
		if !f.IsEnable {
			continue
		}
		switch {
		case f.IsDelayOnly:
			sleep(parseDelay(f.Value))
		case f.IsPressKeysOnly:
			sleep(300 * time.Millisecond)
			if err := d.synthesizeKeyChord(f.PressKeysAfterPaste); err != nil {
				d.log.Warnw("paste: form key-chord synthesis failed", "keys", f.PressKeysAfterPaste, "error", err)
			}
		default:
			sleep(300 * time.Millisecond)
			value := f.Value
			if strings.EqualFold(value, "{{ clipboard }}") || strings.EqualFold(value, "{{clipboard}}") {
				value = currentClipboardText
			}
			if err := d.PasteText(value, false); err != nil {
				return fmt.Errorf("paste: form field write: %w", err)
			}
			sleep(300 * time.Millisecond)
			if err := d.maybeSynthesize(true); err != nil {
				return err
			}
			if f.PressKeysAfterPaste != "" {
				if err := d.synthesizeKeyChord(f.PressKeysAfterPaste); err != nil {
					d.log.Warnw("paste: form post-paste key-chord failed", "keys", f.PressKeysAfterPaste, "error", err)
				}
			}
		}
	}
	return nil
}

// keyChordSteps decomposes one of the closed set of form key-chord
// macros into the atomic "tab"/"enter" keys InputSynthesizer.SynthesizeKeys
// accepts, issued one at a time in order.
func keyChordSteps(chord string) []string {
	switch chord {
	case keysEnter:
		return []string{"enter"}
	case keysTab:
		return []string{"tab"}
	case keysTabTab:
		return []string{"tab", "tab"}
	case keysTabTabTab:
		return []string{"tab", "tab", "tab"}
	case keysTabEnter:
		return []string{"tab", "enter"}
	case keysTabTabEnter:
		return []string{"tab", "tab", "enter"}
	default:
		return nil
	}
}

func (d *Dispatcher) synthesizeKeyChord(chord string) error {
	for _, key := range keyChordSteps(chord) {
		if err := d.input.SynthesizeKeys(key); err != nil {
			return err
		}
	}
	return nil
}

// parseDelay parses a duration like "3s" for is_delay_only fields,
// falling back to a bare integer-seconds count if the unit suffix is
// missing.
func parseDelay(raw string) time.Duration {
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return time.Duration(n) * time.Second
	}
	return 0
}

func openURL(raw string) error {
	if _, err := url.ParseRequestURI(raw); err != nil {
		return fmt.Errorf("paste: invalid open_url: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", raw).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", raw).Start()
	default:
		return exec.Command("xdg-open", raw).Start()
	}
}
