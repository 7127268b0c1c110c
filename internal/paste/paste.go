// Package paste dispatches a clip or history value onto the system
// clipboard and, when the active platform supports it, synthesizes the
// paste keystroke into the frontmost application. Link/path clips open
// via the OS opener instead of pasting; command and web-request/scraping
// clips hand off to external collaborators whose interfaces only are
// specified here. Template-fill and
// form-fill clips get their own multi-step drivers in template.go.
package paste

import (
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/platform"
)

// ShellService runs a clip's shell command and reports its output. The
// concrete runner (working directory handling, timeouts, output
// capture) lives outside the core; this is the interface the dispatcher
// invokes.
type ShellService interface {
	Run(command string, opts model.RequestOptions) (output string, err error)
}

// WebRequestService performs a clip's HTTP request and reports the
// response body. Concrete implementation (redirects, timeout) is an
// external collaborator.
type WebRequestService interface {
	Do(opts model.RequestOptions) (body string, err error)
}

// WebScrapingService scrapes a page per a clip's request options and
// reports extracted text. External collaborator; interface only.
type WebScrapingService interface {
	Scrape(opts model.RequestOptions) (body string, err error)
}

// Outcome reports what a Paste call actually did, so callers (the tray
// click router, the HTTP API) know whether to skip their own paste
// synthesis.
type Outcome struct {
	// LinkOrApp is true when the dispatcher opened a URL or path instead
	// of writing to the clipboard; callers must not synthesize a paste.
	LinkOrApp bool
	// Output is the command/web-request/scraping body, set only for
	// those clip kinds; also persisted to CommandRequestOutput by the
	// caller.
	Output string
}

// Dispatcher writes clip/history values to the clipboard and optionally
// drives paste-and-focus-return through the platform input synthesizer.
type Dispatcher struct {
	clipboard platform.ClipboardBackend
	input     platform.InputSynthesizer
	access    platform.AccessibilityProbe

	shell     ShellService
	webreq    WebRequestService
	webscrape WebScrapingService

	log *zap.SugaredLogger
}

// New builds a Dispatcher over the given platform backends. shell/webreq/
// webscrape may be nil; clips of those kinds then fail with a
// "not configured" error rather than panicking.
func New(clipboard platform.ClipboardBackend, input platform.InputSynthesizer, access platform.AccessibilityProbe, shell ShellService, webreq WebRequestService, webscrape WebScrapingService, log *zap.SugaredLogger) *Dispatcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Dispatcher{
		clipboard: clipboard,
		input:     input,
		access:    access,
		shell:     shell,
		webreq:    webreq,
		webscrape: webscrape,
		log:       log,
	}
}

// PasteText writes text to the clipboard, then optionally synthesizes a
// paste keystroke so the caller's active application receives it
// immediately instead of only having it sit on the clipboard.
func (d *Dispatcher) PasteText(text string, autoPaste bool) error {
	if err := d.clipboard.Write(platform.WriteRequest{Kind: platform.ContentText, Text: text}); err != nil {
		return fmt.Errorf("paste: writing text: %w", err)
	}
	return d.maybeSynthesize(autoPaste)
}

// PasteImage writes PNG-encoded image bytes to the clipboard, then
// optionally synthesizes a paste keystroke.
func (d *Dispatcher) PasteImage(png []byte, autoPaste bool) error {
	if err := d.clipboard.Write(platform.WriteRequest{Kind: platform.ContentImage, ImagePNG: png}); err != nil {
		return fmt.Errorf("paste: writing image: %w", err)
	}
	return d.maybeSynthesize(autoPaste)
}

func (d *Dispatcher) maybeSynthesize(autoPaste bool) error {
	if !autoPaste {
		return nil
	}
	if d.access != nil && !d.access.HasAccessibilityPermission() {
		d.log.Warnw("paste: skipping auto-paste keystroke, accessibility permission not granted")
		return nil
	}
	if err := d.input.SynthesizePaste(); err != nil {
		d.log.Warnw("paste: auto-paste keystroke failed, left on clipboard", "error", err)
	}
	return nil
}

// bbcodeTag matches one of the presentational BBCode tags clip values
// may carry (copy/mask/blank/hl/h/b/i), opening or closing, so a plain
// paste never leaks markup into the target application.
var bbcodeTag = regexp.MustCompile(`(?i)\[/?(copy|mask|blank|hl|h|b|i)\]`)

// StripPresentationTags removes the presentational BBCode tags from a
// clip value before it reaches the clipboard; exactly these six tags
// are recognized.
func StripPresentationTags(s string) string {
	return bbcodeTag.ReplaceAllString(s, "")
}

// Paste dispatches item per its role, returning an Outcome so the caller
// (tray click router, HTTP handler) knows what happened. imagePNG is the
// already-decoded full-resolution bytes for image clips; template/form
// options are passed through rather than re-read, since the caller
// already has the Item row.
func (d *Dispatcher) Paste(item *model.Item, imagePNG []byte, reqOpts model.RequestOptions, formOpts model.FormTemplateOptions, currentClipboardText string, autoPaste bool) (Outcome, error) {
	switch item.ClipKind() {
	case model.ClipKindImage:
		return Outcome{}, d.PasteImage(imagePNG, autoPaste)

	case model.ClipKindLink:
		if err := openTarget(item.Value); err != nil {
			return Outcome{LinkOrApp: true}, fmt.Errorf("paste: opening link: %w", err)
		}
		return Outcome{LinkOrApp: true}, nil

	case model.ClipKindPath:
		if err := openTarget(item.Value); err != nil {
			return Outcome{LinkOrApp: true}, fmt.Errorf("paste: opening path: %w", err)
		}
		return Outcome{LinkOrApp: true}, nil

	case model.ClipKindTemplate:
		return Outcome{}, d.PasteTemplate(item, formOpts, currentClipboardText, autoPaste)

	case model.ClipKindForm:
		return Outcome{}, d.PasteForm(formOpts, currentClipboardText)

	case model.ClipKindCommand:
		if d.shell == nil {
			return Outcome{}, fmt.Errorf("paste: command clip: %w", errNotConfigured("shell"))
		}
		out, err := d.shell.Run(item.Value, reqOpts)
		return d.finishCommandLike(out, reqOpts, err, autoPaste)

	case model.ClipKindWebRequest:
		if d.webreq == nil {
			return Outcome{}, fmt.Errorf("paste: web_request clip: %w", errNotConfigured("web request"))
		}
		out, err := d.webreq.Do(reqOpts)
		return d.finishCommandLike(out, reqOpts, err, autoPaste)

	case model.ClipKindWebScraping:
		if d.webscrape == nil {
			return Outcome{}, fmt.Errorf("paste: web_scraping clip: %w", errNotConfigured("web scraping"))
		}
		out, err := d.webscrape.Scrape(reqOpts)
		return d.finishCommandLike(out, reqOpts, err, autoPaste)

	default:
		return Outcome{}, d.PasteText(StripPresentationTags(item.Value), autoPaste)
	}
}

// finishCommandLike applies the shared command/web-request/web-scraping
// output contract: on error the output is prefixed "[Err]" and the
// clipboard is left untouched; on success the (optionally
// template-filled) output is written to the clipboard.
func (d *Dispatcher) finishCommandLike(out string, opts model.RequestOptions, runErr error, autoPaste bool) (Outcome, error) {
	if runErr != nil {
		return Outcome{Output: "[Err] " + runErr.Error()}, runErr
	}
	filled := applyOutputTemplate(out, opts.OutputTemplate, opts.OutputRegexFilter)
	if err := d.PasteText(filled, autoPaste); err != nil {
		return Outcome{Output: out}, err
	}
	return Outcome{Output: out}, nil
}

func applyOutputTemplate(out, tmpl, regexFilter string) string {
	if regexFilter != "" {
		if re, err := regexp.Compile(regexFilter); err == nil {
			if m := re.FindString(out); m != "" {
				out = m
			}
		}
	}
	if tmpl == "" {
		return out
	}
	// ReplaceAllStringFunc, not ReplaceAllString: out is arbitrary command/
	// request output and must be substituted literally, but ReplaceAllString
	// treats "$"-prefixed substrings in its replacement as backreference
	// syntax.
	return regexp.MustCompile(`\{\{\s*output\s*\}\}`).ReplaceAllStringFunc(tmpl, func(string) string {
		return out
	})
}

func errNotConfigured(what string) error {
	return fmt.Errorf("%s service not configured", what)
}

// openTarget hands raw to the OS opener; it accepts both URLs and
// filesystem paths, the opener resolves either.
func openTarget(raw string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", raw).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", raw).Start()
	default:
		return exec.Command("xdg-open", raw).Start()
	}
}

func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
