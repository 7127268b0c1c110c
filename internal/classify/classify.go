// Package classify labels a captured text payload as text, code (with a
// detected language), link, video, inline image data, or JSON; extracts
// URLs; and flags emoji and masked-word matches.
package classify

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/clipvault/clipvault/internal/textutil"
)

// Classification is the full labeling result for one text payload.
type Classification struct {
	IsImageData      bool
	IsJSON           bool
	DetectedLanguage string
	IsCode           bool
	IsLink           bool
	IsVideo          bool
	IsImage          bool
	IsText           bool
	Links            []string
	HasEmoji         bool
	HasMaskedWords   bool
	ValueForStorage  string
}

var imageDataPattern = regexp.MustCompile(`^data:image/(png|jpe?g|svg\+xml|svg|gif);base64`)

// Classify runs the full classification pipeline over s.
func Classify(s string, opts LanguageDetectOptions, autoMaskWordsList []string) Classification {
	var c Classification

	c.IsImageData = imageDataPattern.MatchString(s)
	c.IsJSON, c.ValueForStorage = detectJSON(s)
	if !c.IsJSON {
		c.ValueForStorage = s
	}

	switch {
	case c.IsJSON:
		c.DetectedLanguage = "json"
	case opts.ShouldDetectLanguage && countLines(s) >= opts.MinLinesRequired &&
		len(opts.EnabledLanguages) > 0 && !c.IsImageData:
		c.DetectedLanguage = detectLanguage(s, opts)
	}
	c.IsCode = c.DetectedLanguage != ""

	if !c.IsCode {
		links := extractLinks(s)
		c.Links = links
		c.IsLink = len(links) > 0
		for _, l := range links {
			if isVideoURL(l) {
				c.IsVideo = true
			}
			if isImageURL(l) {
				c.IsImage = true
			}
		}
	}

	if !c.IsCode && !c.IsLink {
		c.HasEmoji = hasEmoji(s)
	}

	c.HasMaskedWords = textutil.HasMaskWordMatch(s, autoMaskWordsList)

	c.IsText = !c.IsCode && !c.IsLink && !c.IsImage && !c.IsVideo

	return c
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// detectJSON reports whether s parses as a JSON object or array (not a
// scalar), returning the pretty-printed form when it does; that form is
// what gets stored instead of the raw payload.
func detectJSON(s string) (bool, string) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false, ""
	}
	var v interface{}
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return false, ""
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
	default:
		return false, ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return true, trimmed
	}
	return true, buf.String()
}
