//go:build !darwin

package platform

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// GenericBackend polls golang.design/x/clipboard, the cross-platform
// (Linux/Windows) clipboard backend used everywhere AppKit is not
// available.
type GenericBackend struct {
	stopChan chan struct{}
	initOnce sync.Once
	initErr  error
}

// NewClipboardBackend returns the non-darwin ClipboardBackend
// implementation.
func NewClipboardBackend() ClipboardBackend {
	return &GenericBackend{stopChan: make(chan struct{})}
}

// ensureInit lazily runs clipboard.Init, so one-shot CLI paths
// (ReadText/Write without Start) work without requiring the watch loop.
func (b *GenericBackend) ensureInit() error {
	b.initOnce.Do(func() {
		b.initErr = clipboard.Init()
	})
	return b.initErr
}

func (b *GenericBackend) Start(onChange func(Event)) error {
	if err := b.ensureInit(); err != nil {
		return fmt.Errorf("platform: initializing clipboard: %w", err)
	}

	textCh := clipboard.Watch(nil, clipboard.FmtText)
	imageCh := clipboard.Watch(nil, clipboard.FmtImage)

	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			case data, ok := <-textCh:
				if !ok {
					return
				}
				if len(data) > 0 {
					onChange(Event{Kind: ContentText, Text: string(data)})
				}
			case data, ok := <-imageCh:
				if !ok {
					return
				}
				if len(data) > 0 {
					onChange(Event{Kind: ContentImage, ImageRaw: data})
				}
			}
		}
	}()
	return nil
}

func (b *GenericBackend) Stop() error {
	close(b.stopChan)
	return nil
}

func (b *GenericBackend) ReadText() (string, error) {
	if err := b.ensureInit(); err != nil {
		return "", fmt.Errorf("platform: initializing clipboard: %w", err)
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (b *GenericBackend) Write(req WriteRequest) error {
	if err := b.ensureInit(); err != nil {
		return fmt.Errorf("platform: initializing clipboard: %w", err)
	}
	switch req.Kind {
	case ContentText:
		clipboard.Write(clipboard.FmtText, []byte(req.Text))
	case ContentImage:
		clipboard.Write(clipboard.FmtImage, req.ImagePNG)
	default:
		return fmt.Errorf("platform: unsupported write kind %q", req.Kind)
	}
	return nil
}

// NewActiveWindow returns a best-effort, always-empty ActiveWindow on
// platforms without a maintained active-window API in the dependency
// set; source-app attribution degrades to empty rather than failing
// capture.
func NewActiveWindow() ActiveWindow { return genericActiveWindow{} }

type genericActiveWindow struct{}

func (genericActiveWindow) FrontmostAppName() (string, error) {
	return "", nil
}
