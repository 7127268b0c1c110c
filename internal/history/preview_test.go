package history

import (
	"strings"
	"testing"

	"github.com/clipvault/clipvault/internal/model"
)

func TestProjectMasksForcedRecordWithoutMutatingRow(t *testing.T) {
	rec := &model.HistoryRecord{ID: "r1", Kind: model.KindText, Value: "hunter2 tokens", IsMasked: true}

	p := Project(rec, nil)

	if strings.Contains(p.Value, "hunter2") {
		t.Errorf("projected value %q still contains the original secret", p.Value)
	}
	if rec.Value != "hunter2 tokens" {
		t.Errorf("stored row was mutated to %q", rec.Value)
	}
}

func TestProjectComposesForcedAndAutoMask(t *testing.T) {
	rec := &model.HistoryRecord{
		ID:             "r6",
		Kind:           model.KindText,
		Value:          "hunter2 apikey trailing",
		IsMasked:       true,
		HasMaskedWords: true,
	}

	p := Project(rec, []string{"apikey"})

	if strings.Contains(p.Value, "hunter2") || strings.Contains(p.Value, "apikey") {
		t.Errorf("projected value %q leaked an original token", p.Value)
	}
	if !strings.Contains(p.Value, "•") {
		t.Errorf("projected value %q is not force-masked", p.Value)
	}
	if !p.HasMaskedWords || !p.IsMasked {
		t.Errorf("projection flags = masked:%v words:%v, want both retained", p.IsMasked, p.HasMaskedWords)
	}
	if rec.Value != "hunter2 apikey trailing" {
		t.Errorf("stored row was mutated to %q", rec.Value)
	}
}

func TestProjectAppliesAutoMaskWords(t *testing.T) {
	rec := &model.HistoryRecord{ID: "r2", Kind: model.KindText, Value: "key=mysecret done", HasMaskedWords: true}

	p := Project(rec, []string{"mysecret"})

	if strings.Contains(p.Value, "mysecret") {
		t.Errorf("projected value %q still contains the mask word", p.Value)
	}
	if !p.HasMaskedWords {
		t.Errorf("HasMaskedWords = false after an applied auto-mask match")
	}
}

func TestProjectTruncatesPreviewAndCountsRemainder(t *testing.T) {
	long := strings.Repeat("a", 200)
	p := Project(&model.HistoryRecord{ID: "r3", Kind: model.KindText, Value: long}, nil)

	if len([]rune(p.ValuePreview)) != previewCharLimit {
		t.Errorf("len(ValuePreview) = %d, want %d", len([]rune(p.ValuePreview)), previewCharLimit)
	}
	if p.ValueMorePreviewChars != 40 {
		t.Errorf("ValueMorePreviewChars = %d, want 40", p.ValueMorePreviewChars)
	}
	if p.ValueMorePreviewLines != 0 {
		t.Errorf("ValueMorePreviewLines = %d, want 0 for a single-line value", p.ValueMorePreviewLines)
	}
}

func TestProjectCountsOverflowLines(t *testing.T) {
	long := strings.Repeat("a", 170) + "\nsecond\nthird"
	p := Project(&model.HistoryRecord{ID: "r4", Kind: model.KindText, Value: long}, nil)

	if p.ValueMorePreviewLines != 2 {
		t.Errorf("ValueMorePreviewLines = %d, want 2", p.ValueMorePreviewLines)
	}
	if p.ValueMorePreviewChars != 0 {
		t.Errorf("ValueMorePreviewChars = %d, want 0 when lines overflow", p.ValueMorePreviewChars)
	}
}

func TestProjectEncodesImagePreviewAndNullsRawBytes(t *testing.T) {
	rec := &model.HistoryRecord{ID: "r5", Kind: model.KindImage, ImageLowResBytes: []byte{1, 2, 3}}

	p := Project(rec, nil)

	if !strings.HasPrefix(p.ImageDataURL, "data:image/png;base64,") {
		t.Errorf("ImageDataURL = %q, want a png data URL", p.ImageDataURL)
	}
	if p.ImageLowResBytes != nil {
		t.Errorf("projected ImageLowResBytes should be nulled once encoded")
	}
	if len(rec.ImageLowResBytes) != 3 {
		t.Errorf("stored row's preview bytes were mutated")
	}
}
