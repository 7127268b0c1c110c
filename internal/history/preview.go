package history

import (
	"encoding/base64"
	"strings"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/textutil"
)

// previewCharLimit is the truncation point for value_preview.
const previewCharLimit = 160

// Projection is a read-side view of a HistoryRecord with masking and
// preview-truncation applied; it never mutates the stored row. The step
// order is fixed: force-mask, then auto-mask-word substitution, then
// truncate.
type Projection struct {
	*model.HistoryRecord

	ValuePreview          string
	ValueMorePreviewLines int
	ValueMorePreviewChars int
	ImageDataURL          string
	LinkMetadata          *model.LinkMetadata
}

// Project builds the read-side view for rec, applying force-masking,
// auto-mask-word substitution, preview truncation, and (for image
// records) base64 data-URL encoding of the low-res preview. The record
// is shallow-copied so the masked value and nulled preview bytes never
// touch the stored row.
func Project(rec *model.HistoryRecord, autoMaskWordsList []string) Projection {
	view := *rec
	p := Projection{HistoryRecord: &view}

	// Force-masking and auto-mask-word substitution compose: a record
	// carrying both flags is force-masked first, then word substitution
	// runs over whatever the value is at that point.
	value := rec.Value
	if rec.IsMasked {
		value = textutil.Mask(value)
	}
	if rec.HasMaskedWords {
		if masked, matched := textutil.MaskWordMatches(value, autoMaskWordsList); matched {
			value = masked
			view.HasMaskedWords = true
		}
	}
	view.Value = value

	runes := []rune(value)
	if len(runes) > previewCharLimit {
		head := string(runes[:previewCharLimit])
		rest := string(runes[previewCharLimit:])
		lines := strings.Count(rest, "\n")
		if lines > 0 {
			p.ValueMorePreviewLines = lines
		} else if !rec.IsImageData {
			p.ValueMorePreviewChars = len(runes) - previewCharLimit
		}
		p.ValuePreview = head
	} else {
		p.ValuePreview = value
	}

	if rec.Kind == model.KindImage && len(rec.ImageLowResBytes) > 0 {
		encoded := base64.StdEncoding.EncodeToString(rec.ImageLowResBytes)
		p.ImageDataURL = "data:image/png;base64," + encoded
		view.ImageLowResBytes = nil
	}

	return p
}
