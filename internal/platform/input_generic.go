//go:build !darwin

package platform

import "errors"

// ErrUnsupportedPlatform is returned by the generic input synthesizer,
// which has no maintained cross-platform input-injection library in the
// dependency set; automatic paste is a darwin-only feature for now,
// manual paste from the tray still works everywhere.
var ErrUnsupportedPlatform = errors.New("platform: input synthesis is not supported on this platform")

// GenericInput is a no-op InputSynthesizer.
type GenericInput struct{}

// NewInputSynthesizer returns the non-darwin InputSynthesizer stub.
func NewInputSynthesizer() InputSynthesizer { return GenericInput{} }

func (GenericInput) SynthesizePaste() error      { return ErrUnsupportedPlatform }
func (GenericInput) SynthesizeKeys(string) error { return ErrUnsupportedPlatform }

// GenericAccessibilityProbe always reports no permission needed/granted.
type GenericAccessibilityProbe struct{}

// NewAccessibilityProbe returns the non-darwin AccessibilityProbe stub.
func NewAccessibilityProbe() AccessibilityProbe { return GenericAccessibilityProbe{} }

func (GenericAccessibilityProbe) HasAccessibilityPermission() bool { return true }
