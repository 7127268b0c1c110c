package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/clipvault/clipvault/internal/model"
)

// ContentKindFilter selects records by content classification. Members
// are OR'd together; an empty filter matches
// every kind.
type ContentKindFilter struct {
	Text   bool
	Code   bool
	Link   bool
	Video  bool
	Image  bool
	Audio  bool // link ending in .mp3
	Emoji  bool
	Secret bool // is_masked or has_masked_words
}

func (f ContentKindFilter) any() bool {
	return f.Text || f.Code || f.Link || f.Video || f.Image || f.Audio || f.Emoji || f.Secret
}

// Query describes a history search. StarredOnly and PinnedOnly AND
// together with the content-kind OR-group and the text search and
// language filters.
type Query struct {
	Search      string
	Kinds       ContentKindFilter
	Languages   []string // code_filters: restrict to these detected languages
	StarredOnly bool
	PinnedOnly  bool
	Limit       int
	Offset      int
}

// Search runs q against the store, applying the AND/OR filter semantics
// in memory over the ordered page the store returns: starred/pinned are
// AND-constraints layered on top of the content-kind OR-group.
func (e *Engine) Search(q Query) ([]*model.HistoryRecord, error) {
	limit := q.Limit
	// Fetch everything and filter in memory: the OR-group across
	// unrelated boolean columns plus a substring search isn't worth
	// expressing as one indexed query, and history tables are small.
	all, err := e.store.ListHistory(0, 0)
	if err != nil {
		return nil, fmt.Errorf("history: search: %w", err)
	}

	var out []*model.HistoryRecord
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	langSet := map[string]bool{}
	for _, l := range q.Languages {
		langSet[strings.ToLower(l)] = true
	}

	for _, r := range all {
		if q.StarredOnly && !r.IsFavorite {
			continue
		}
		if q.PinnedOnly && !r.IsPinned {
			continue
		}
		if q.Kinds.any() && !matchesKind(r, q.Kinds) {
			continue
		}
		if len(langSet) > 0 && !langSet[strings.ToLower(r.DetectedLanguage)] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Value), needle) {
			continue
		}
		out = append(out, r)
	}

	if q.Offset > 0 && q.Offset < len(out) {
		out = out[q.Offset:]
	} else if q.Offset >= len(out) {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ExportCandidates returns up to limit records touched at or after
// since, oldest first, for collaborators (internal/obsidian) that export
// history into an external store rather than querying it directly.
func (e *Engine) ExportCandidates(since time.Time, limit int) ([]*model.HistoryRecord, error) {
	all, err := e.store.ListHistory(0, 0)
	if err != nil {
		return nil, fmt.Errorf("history: export candidates: %w", err)
	}
	var out []*model.HistoryRecord
	for i := len(all) - 1; i >= 0; i-- {
		r := all[i]
		if r.UpdatedAt.Before(since) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// LinkMetadataFor fetches the cached link previews for recs, keyed by
// history id, implementing the left-join against LinkMetadata the list
// view performs. Records with no cached preview are simply absent from
// the returned map.
func (e *Engine) LinkMetadataFor(recs []*model.HistoryRecord) (map[string]*model.LinkMetadata, error) {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.IsLink {
			ids = append(ids, r.ID)
		}
	}
	m, err := e.store.GetLinkMetadataByHistoryIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("history: link metadata: %w", err)
	}
	return m, nil
}

func matchesKind(r *model.HistoryRecord, f ContentKindFilter) bool {
	return (f.Text && r.IsText) ||
		(f.Code && r.IsCode) ||
		(f.Link && r.IsLink) ||
		(f.Video && r.IsVideo) ||
		(f.Image && r.IsImage) ||
		(f.Audio && isAudioLink(r)) ||
		(f.Emoji && r.HasEmoji) ||
		(f.Secret && (r.IsMasked || r.HasMaskedWords))
}

func isAudioLink(r *model.HistoryRecord) bool {
	if !r.IsLink {
		return false
	}
	for _, link := range r.Links {
		if strings.HasSuffix(strings.ToLower(link), ".mp3") {
			return true
		}
	}
	return false
}
