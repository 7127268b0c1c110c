package platform

import (
	"github.com/getlantern/systray"

	"github.com/clipvault/clipvault/internal/tray"
)

// RunTray starts the systray event loop, rendering proj and invoking
// onRecentClick/onMenuClick/onFixedAction when a row is clicked. It
// blocks until systray.Quit is called and must run on the main
// goroutine.
func RunTray(icon []byte, title, tooltip string, buildProjection func() (tray.Projection, error), onRecentClick func(recordID string), onMenuClick func(itemID string), onFixedAction func(action tray.FixedAction)) {
	systray.Run(func() {
		systray.SetIcon(icon)
		systray.SetTitle(title)
		systray.SetTooltip(tooltip)
		renderProjection(buildProjection, onRecentClick, onMenuClick, onFixedAction)
	}, func() {})
}

// QuitTray stops the systray event loop, unblocking RunTray.
func QuitTray() {
	systray.Quit()
}

func renderProjection(buildProjection func() (tray.Projection, error), onRecentClick func(string), onMenuClick func(string), onFixedAction func(tray.FixedAction)) {
	proj, err := buildProjection()
	if err != nil {
		return
	}

	if len(proj.RecentHistory) == 0 {
		systray.AddMenuItem("No clips yet", "Clipboard history is empty").Disable()
	} else {
		for _, entry := range proj.RecentHistory {
			item := systray.AddMenuItem(entry.Label, "Click to copy to clipboard")
			if entry.Disabled {
				item.Disable()
			}
			recordID := entry.RecordID
			go watchClick(item, func() { onRecentClick(recordID) })
		}
	}

	if len(proj.MenuTree) > 0 {
		systray.AddSeparator()
		renderMenuEntries(proj.MenuTree, onMenuClick)
	}

	systray.AddSeparator()
	renderFixedEntries(proj.Fixed, onFixedAction)
}

func renderMenuEntries(entries []tray.Entry, onMenuClick func(string)) {
	for _, e := range entries {
		if e.Kind == tray.EntrySeparator {
			systray.AddSeparator()
			continue
		}
		item := systray.AddMenuItem(e.Label, "")
		if e.Disabled {
			item.Disable()
		}
		if len(e.Children) > 0 {
			renderSubMenuEntries(item, e.Children, onMenuClick)
			continue
		}
		itemID := e.ItemID
		go watchClick(item, func() { onMenuClick(itemID) })
	}
}

func renderSubMenuEntries(parent *systray.MenuItem, entries []tray.Entry, onMenuClick func(string)) {
	for _, e := range entries {
		if e.Kind == tray.EntrySeparator {
			// systray has no native separator inside submenus; a disabled
			// dashed row stands in.
			parent.AddSubMenuItem("----------", "").Disable()
			continue
		}
		item := parent.AddSubMenuItem(e.Label, "")
		if e.Disabled {
			item.Disable()
		}
		if len(e.Children) > 0 {
			renderSubMenuEntries(item, e.Children, onMenuClick)
			continue
		}
		itemID := e.ItemID
		go watchClick(item, func() { onMenuClick(itemID) })
	}
}

func renderFixedEntries(entries []tray.Entry, onFixedAction func(tray.FixedAction)) {
	for _, e := range entries {
		if e.Kind == tray.EntrySeparator {
			systray.AddSeparator()
			continue
		}
		item := systray.AddMenuItem(e.Label, "")
		action := e.Action
		if action == tray.ActionQuit {
			go watchClick(item, systray.Quit)
			continue
		}
		go watchClick(item, func() { onFixedAction(action) })
	}
}

func watchClick(item *systray.MenuItem, fn func()) {
	for range item.ClickedCh {
		fn()
	}
}
