//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// DarwinInput synthesizes keystrokes through System Events via
// osascript; no CGEvent bindings exist anywhere in the dependency set,
// and shelling out to osascript is the standard way Go programs drive
// macOS UI automation without one.
type DarwinInput struct{}

// NewInputSynthesizer returns the darwin InputSynthesizer.
func NewInputSynthesizer() InputSynthesizer { return DarwinInput{} }

func (DarwinInput) SynthesizePaste() error {
	return runAppleScript(`tell application "System Events" to keystroke "v" using command down`)
}

func (DarwinInput) SynthesizeKeys(keys string) error {
	switch keys {
	case "tab":
		return runAppleScript(`tell application "System Events" to key code 48`)
	case "enter":
		return runAppleScript(`tell application "System Events" to key code 36`)
	default:
		return fmt.Errorf("platform: unsupported key macro %q", keys)
	}
}

func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("platform: osascript failed: %w (%s)", err, out)
	}
	return nil
}

// DarwinAccessibilityProbe checks the process trust state by attempting
// a harmless System Events query; osascript fails with a distinctive
// error when Accessibility access hasn't been granted.
type DarwinAccessibilityProbe struct{}

// NewAccessibilityProbe returns the darwin AccessibilityProbe.
func NewAccessibilityProbe() AccessibilityProbe { return DarwinAccessibilityProbe{} }

func (DarwinAccessibilityProbe) HasAccessibilityPermission() bool {
	cmd := exec.Command("osascript", "-e", `tell application "System Events" to return name of first process`)
	return cmd.Run() == nil
}
