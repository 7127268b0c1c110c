// Package tray builds a platform-neutral tray menu structure (recent
// history entries plus the curated clip/menu tree) and routes clicks
// back into the history and menu engines, leaving the actual
// systray.MenuItem wiring to internal/platform.
package tray

import (
	"fmt"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/menu"
	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/textutil"
)

const (
	recentHistoryMenuSize = 10
	labelCharLimit        = 35
)

// EntryKind distinguishes a recent-history row, a curated menu node, a
// separator, or one of the fixed entries update_system_menu always
// appends.
type EntryKind string

const (
	EntryRecentHistory EntryKind = "recent_history"
	EntryMenuItem      EntryKind = "menu_item"
	EntrySeparator     EntryKind = "separator"
	EntryFixed         EntryKind = "fixed"
)

// FixedAction names one of the always-present tray actions (open/unlock,
// quit, toggle history capture).
type FixedAction string

const (
	ActionOpenOrUnlock         FixedAction = "open_or_unlock"
	ActionQuit                 FixedAction = "quit"
	ActionToggleHistoryCapture FixedAction = "toggle_history_capture"
)

// Entry is one row of the projected tray menu.
type Entry struct {
	Kind     EntryKind
	Label    string
	ItemID   string      // set for EntryMenuItem
	RecordID string      // set for EntryRecentHistory
	Action   FixedAction // set for EntryFixed
	Disabled bool
	Children []Entry
}

// Projection is the full tray structure for one tick: recent history on
// top, the curated tree below, fixed entries at the bottom.
type Projection struct {
	RecentHistory []Entry
	MenuTree      []Entry
	Fixed         []Entry
}

// Builder assembles tray projections from the history and menu engines.
type Builder struct {
	history  *history.Engine
	menu     *menu.Engine
	settings *config.Settings
}

// NewBuilder wires a tray Builder to the shared history/menu engines. A
// nil settings disables masking and always renders unlocked.
func NewBuilder(h *history.Engine, m *menu.Engine, settings *config.Settings) *Builder {
	return &Builder{history: h, menu: m, settings: settings}
}

// Build produces the current tray projection for the selected
// collection: recent history, the collection's menu forest filtered to
// !is_deleted && is_active, and the fixed entries update_system_menu
// always appends.
func (b *Builder) Build(collectionID string) (Projection, error) {
	var proj Projection

	locked := b.settings != nil && b.settings.Bool(config.KeyIsAppLocked)
	historyEnabled := b.settings == nil || b.settings.Bool(config.KeyIsHistoryEnabled)

	recent, err := b.history.Search(history.Query{Limit: recentHistoryMenuSize})
	if err != nil {
		return proj, err
	}
	maskWords := b.maskWords()
	for _, r := range recent {
		proj.RecentHistory = append(proj.RecentHistory, Entry{
			Kind:     EntryRecentHistory,
			Label:    recentHistoryLabel(r, maskWords),
			RecordID: r.ID,
			Disabled: locked,
		})
	}

	edges, err := b.menu.Store().MenuEdgesByCollection(collectionID)
	if err != nil {
		return proj, err
	}
	items := make(map[string]*model.Item, len(edges))
	for _, ed := range edges {
		item, err := b.menu.Store().GetItem(ed.ItemID)
		if err != nil || item.IsDeleted || !item.IsActive {
			continue
		}
		items[ed.ItemID] = item
	}
	proj.MenuTree = buildForest(edges, "", items, locked)

	openLabel := "Open PasteBar"
	if locked {
		openLabel = "Unlock PasteBar"
	}
	captureLabel := "Disable history capture"
	if !historyEnabled {
		captureLabel = "Enable history capture"
	}
	proj.Fixed = []Entry{
		{Kind: EntryFixed, Label: openLabel, Action: ActionOpenOrUnlock},
		{Kind: EntryFixed, Label: captureLabel, Action: ActionToggleHistoryCapture},
		{Kind: EntrySeparator},
		{Kind: EntryFixed, Label: "Quit", Action: ActionQuit},
	}
	return proj, nil
}

func (b *Builder) maskWords() []string {
	if b.settings == nil || !b.settings.Bool(config.KeyIsAutoMaskWordsListEnabled) {
		return nil
	}
	return b.settings.Lines(config.KeyAutoMaskWordsList)
}

// recentHistoryLabel renders the 35-char label for a recent-history
// entry, masking it when the record is force-masked or matches
// the auto-mask word list, and formatting image entries as
// "clipboard_image_size WxH" rather than truncating pixel data.
func recentHistoryLabel(r *model.HistoryRecord, maskWords []string) string {
	if r.Kind == model.KindImage {
		return fmt.Sprintf("clipboard_image_size %dx%d", r.ImageWidth, r.ImageHeight)
	}

	value := r.Value
	if r.IsMasked {
		value = textutil.Mask(value)
	}
	if r.HasMaskedWords {
		if masked, matched := textutil.MaskWordMatches(value, maskWords); matched {
			value = masked
		}
	}

	runes := []rune(value)
	if len(runes) > labelCharLimit {
		return string(runes[:labelCharLimit])
	}
	return value
}

func buildForest(edges []*model.CollectionMenuEdge, parentID string, items map[string]*model.Item, locked bool) []Entry {
	var out []Entry
	children := childrenOf(edges, parentID)
	sortByOrder(children)
	for _, ed := range children {
		item, ok := items[ed.ItemID]
		if !ok {
			continue
		}
		if item.Role == model.RoleSeparator {
			out = append(out, Entry{Kind: EntrySeparator})
			continue
		}

		kids := buildForest(edges, ed.ItemID, items, locked)
		entry := Entry{
			Kind:     EntryMenuItem,
			Label:    item.Name,
			ItemID:   ed.ItemID,
			Children: kids,
			Disabled: locked || item.IsDisabled,
		}
		if item.Role == model.RoleFolder && locked {
			// A locked app renders folders as disabled leaves rather than
			// submenus, so a locked tray never reveals curated contents.
			entry.Children = nil
		}
		out = append(out, entry)
	}
	return out
}

func childrenOf(edges []*model.CollectionMenuEdge, parentID string) []*model.CollectionMenuEdge {
	var out []*model.CollectionMenuEdge
	for _, ed := range edges {
		if ed.ParentID == parentID {
			out = append(out, ed)
		}
	}
	return out
}

func sortByOrder(edges []*model.CollectionMenuEdge) {
	for i := 1; i < len(edges); i++ {
		j := i
		for j > 0 && edges[j-1].OrderNumber > edges[j].OrderNumber {
			edges[j-1], edges[j] = edges[j], edges[j-1]
			j--
		}
	}
}
