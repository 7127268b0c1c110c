// Package platform abstracts the OS-specific pieces the capture
// pipeline and paste dispatcher depend on: reading/writing the system
// clipboard, synthesizing a paste keystroke, naming the active window,
// and the tray icon/menu.
package platform

// ContentKind distinguishes the two payload shapes a clipboard event can
// carry.
type ContentKind string

const (
	ContentText  ContentKind = "text"
	ContentImage ContentKind = "image"
)

// Event is one observed clipboard change.
type Event struct {
	Kind        ContentKind
	Text        string
	ImageRaw    []byte // de-strided by the caller; raw RGBA here is platform-native
	ImageWidth  int
	ImageHeight int
	SourceApp   string
}

// WriteRequest is the payload ClipboardBackend.Write puts on the system
// clipboard (the paste dispatcher's final step).
type WriteRequest struct {
	Kind     ContentKind
	Text     string
	ImagePNG []byte
}

// ClipboardBackend watches the system clipboard for changes and can set
// its content.
type ClipboardBackend interface {
	Start(onChange func(Event)) error
	Stop() error
	Write(req WriteRequest) error
	// ReadText returns the clipboard's current plain-text content, used by
	// the paste dispatcher's "{{ clipboard }}" template substitution
	// rather than the push-based Start callback.
	ReadText() (string, error)
}

// InputSynthesizer issues the keystroke that tells the foreground
// application to paste (Cmd+V / Ctrl+V), used after Write when the
// dispatcher needs an automatic paste rather than leaving the content on
// the clipboard for a manual one.
type InputSynthesizer interface {
	SynthesizePaste() error
	SynthesizeKeys(keys string) error
}

// ActiveWindow names the frontmost application, used to stamp
// copied_from_app and to test exclusion-by-app-name.
type ActiveWindow interface {
	FrontmostAppName() (string, error)
}

// AccessibilityProbe reports whether the process holds the OS permission
// required to synthesize input (macOS Accessibility, for instance).
// Capture-only operation works without it; paste-and-synthesize does
// not.
type AccessibilityProbe interface {
	HasAccessibilityPermission() bool
}
