package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault/internal/history"
)

func newTUICmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and paste clipboard history in a terminal list",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient(port)
			records, err := client.listHistory(listQuery{Limit: limit})
			if err != nil {
				return err
			}
			return runHistoryBrowser(client, records)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "history records to load into the browser")
	return cmd
}

// runHistoryBrowser renders records as a scrollable list; Enter pastes the
// selected record through the daemon (unlike clipvaultd's own "tui", which
// only has a one-shot store snapshot to show and no live Service to paste
// through), q/Esc/Ctrl-C quits.
func runHistoryBrowser(client *apiClient, records []history.Projection) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("clipvaultctl: tui: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("clipvaultctl: tui: initializing screen: %w", err)
	}
	defer screen.Fini()

	style := tcell.StyleDefault
	selectedStyle := style.Reverse(true)
	statusStyle := style.Foreground(tcell.ColorYellow)

	selected, top := 0, 0
	status := "↑/↓ to move, enter to paste, q to quit"

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
		for row := 0; row < visible && top+row < len(records); row++ {
			s := style
			if top+row == selected {
				s = selectedStyle
			}
			drawText(screen, 0, row, s, fmt.Sprintf("[%s] %s", records[top+row].Kind, records[top+row].ValuePreview))
		}
		drawText(screen, 0, height-1, statusStyle, status)
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
				if selected < len(records)-1 {
					selected++
				}
				draw()
			case ev.Key() == tcell.KeyUp:
				if selected > 0 {
					selected--
				}
				draw()
			case ev.Key() == tcell.KeyEnter:
				if len(records) == 0 {
					continue
				}
				if err := client.pasteHistory(records[selected].ID, true); err != nil {
					status = "paste failed: " + err.Error()
				} else {
					status = "pasted " + records[selected].ID
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
