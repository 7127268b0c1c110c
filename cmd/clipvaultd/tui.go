package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/logging"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse clipboard history in a terminal list",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.Nop()
			_, store, err := openStore(log)
			if err != nil {
				return err
			}
			settings := config.New()
			if persisted, err := store.AllSettings(); err == nil {
				settings.Load(persisted)
			}
			eng := history.New(store, settings, log)
			records, err := eng.Search(history.Query{Limit: 200})
			if err != nil {
				return fmt.Errorf("clipvaultd: tui: loading history: %w", err)
			}
			maskWords := settings.Lines(config.KeyAutoMaskWordsList)
			if !settings.Bool(config.KeyIsAutoMaskWordsListEnabled) {
				maskWords = nil
			}
			rows := make([]string, 0, len(records))
			for _, r := range records {
				p := history.Project(r, maskWords)
				rows = append(rows, fmt.Sprintf("[%s] %s", r.Kind, p.ValuePreview))
			}
			return runHistoryBrowser(rows)
		},
	}
}

// runHistoryBrowser renders rows as a scrollable list and blocks until
// the user quits with q/Esc/Ctrl-C. Selection is display-only; wiring
// Enter to a live paste requires the daemon's running Service, not a
// one-shot store open, and is left to the "serve" command's tray/HTTP
// surface.
func runHistoryBrowser(rows []string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("clipvaultd: tui: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("clipvaultd: tui: initializing screen: %w", err)
	}
	defer screen.Fini()

	style := tcell.StyleDefault
	selectedStyle := style.Reverse(true)

	selected, top := 0, 0
	draw := func() {
		screen.Clear()
		_, height := screen.Size()
		visible := height - 1
		if top > selected {
			top = selected
		}
		if selected >= top+visible {
			top = selected - visible + 1
		}
		for row := 0; row < visible && top+row < len(rows); row++ {
			s := style
			if top+row == selected {
				s = selectedStyle
			}
			drawText(screen, 0, row, s, rows[top+row])
		}
		drawText(screen, 0, height-1, style, "↑/↓ to move, q to quit")
		screen.Show()
	}

	draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			draw()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
				return nil
			case ev.Key() == tcell.KeyDown:
				if selected < len(rows)-1 {
					selected++
				}
				draw()
			case ev.Key() == tcell.KeyUp:
				if selected > 0 {
					selected--
				}
				draw()
			}
		}
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
