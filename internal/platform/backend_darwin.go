//go:build darwin

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/progrium/darwinkit/macos/appkit"
)

type pasteboardOp struct {
	req  WriteRequest
	done chan error
}

// DarwinBackend polls NSPasteboard's change count and translates
// changes into Events; writes are serialized onto a dedicated goroutine
// pinned to the main thread, since AppKit objects are not safe to touch
// from arbitrary goroutines.
type DarwinBackend struct {
	pasteboard  appkit.Pasteboard
	changeCount int
	mu          sync.RWMutex
	stopChan    chan struct{}
	opChan      chan pasteboardOp
}

func init() {
	runtime.LockOSThread()
}

// NewClipboardBackend returns the darwin ClipboardBackend implementation.
func NewClipboardBackend() ClipboardBackend {
	b := &DarwinBackend{
		pasteboard: appkit.Pasteboard_GeneralPasteboard(),
		stopChan:   make(chan struct{}),
		opChan:     make(chan pasteboardOp),
	}

	go func() {
		runtime.LockOSThread()
		for {
			select {
			case <-b.stopChan:
				return
			case op := <-b.opChan:
				op.done <- b.write(op.req)
			}
		}
	}()

	return b
}

func (b *DarwinBackend) Start(onChange func(Event)) error {
	b.mu.Lock()
	b.changeCount = b.pasteboard.ChangeCount()
	b.mu.Unlock()

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.poll(onChange)
			case <-b.stopChan:
				return
			}
		}
	}()
	return nil
}

func (b *DarwinBackend) Stop() error {
	close(b.stopChan)
	return nil
}

func (b *DarwinBackend) ReadText() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pasteboard.StringForType(appkit.PasteboardType("public.utf8-plain-text")), nil
}

func (b *DarwinBackend) Write(req WriteRequest) error {
	done := make(chan error, 1)
	b.opChan <- pasteboardOp{req: req, done: done}
	return <-done
}

func (b *DarwinBackend) write(req WriteRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pasteboard.ClearContents()
	switch req.Kind {
	case ContentText:
		b.pasteboard.SetStringForType(req.Text, appkit.PasteboardType("public.utf8-plain-text"))
	case ContentImage:
		b.pasteboard.SetDataForType(req.ImagePNG, appkit.PasteboardType("public.png"))
	default:
		return fmt.Errorf("platform: unsupported write kind %q", req.Kind)
	}
	b.changeCount = b.pasteboard.ChangeCount()
	return nil
}

func (b *DarwinBackend) poll(onChange func(Event)) {
	b.mu.Lock()
	current := b.pasteboard.ChangeCount()
	previous := b.changeCount
	if current == previous {
		b.mu.Unlock()
		return
	}
	b.changeCount = current
	b.mu.Unlock()

	var ev Event

	b.mu.RLock()
	text := b.pasteboard.StringForType(appkit.PasteboardType("public.utf8-plain-text"))
	b.mu.RUnlock()
	if text != "" {
		ev.Kind = ContentText
		ev.Text = text
	} else {
		b.mu.RLock()
		data := b.pasteboard.DataForType(appkit.PasteboardType("public.png"))
		b.mu.RUnlock()
		if len(data) == 0 {
			b.mu.RLock()
			data = b.pasteboard.DataForType(appkit.PasteboardType("public.tiff"))
			b.mu.RUnlock()
		}
		if len(data) == 0 {
			return
		}
		ev.Kind = ContentImage
		ev.ImageRaw = data
	}

	ev.SourceApp = b.frontmostAppName()
	onChange(ev)
}

func (b *DarwinBackend) frontmostAppName() string {
	b.mu.RLock()
	sourceApp := b.pasteboard.StringForType(appkit.PasteboardType("com.apple.pasteboard.app"))
	b.mu.RUnlock()
	if sourceApp != "" {
		return sourceApp
	}
	if app := appkit.Workspace_SharedWorkspace().FrontmostApplication(); app.LocalizedName() != "" {
		return app.LocalizedName()
	}
	return ""
}

// NewActiveWindow returns the darwin ActiveWindow implementation.
func NewActiveWindow() ActiveWindow { return darwinActiveWindow{} }

type darwinActiveWindow struct{}

func (darwinActiveWindow) FrontmostAppName() (string, error) {
	app := appkit.Workspace_SharedWorkspace().FrontmostApplication()
	return app.LocalizedName(), nil
}
