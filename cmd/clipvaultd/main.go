// Command clipvaultd is the ClipVault daemon: it owns the capture
// pipeline, the HTTP/websocket API, and the system tray menu, and also
// doubles as a CLI for one-shot history/status operations against a
// running instance's database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/logging"
	"github.com/clipvault/clipvault/internal/obsidian"
	"github.com/clipvault/clipvault/internal/platform"
	"github.com/clipvault/clipvault/internal/server"
	"github.com/clipvault/clipvault/internal/service"
	"github.com/clipvault/clipvault/internal/shell"
	"github.com/clipvault/clipvault/internal/storage"
	"github.com/clipvault/clipvault/internal/webrequest"
)

var (
	dataDir        string
	port           int
	obsidianVault  string
	obsidianPeriod time.Duration
)

func main() {
	root := &cobra.Command{
		Use:   "clipvaultd",
		Short: "ClipVault clipboard and snippet manager daemon",
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory (default: platform app-data dir)")
	root.PersistentFlags().IntVar(&port, "port", 7417, "HTTP/websocket API port")

	root.AddCommand(newServeCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newTUICmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the capture pipeline, API server, and tray icon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			defer log.Sync()

			svc, resolvedDir, err := buildService(log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("clipvaultd: starting service: %w", err)
			}
			defer svc.Stop()

			if obsidianVault != "" {
				vaultSync, err := obsidian.New(svc.History(), obsidian.Config{
					VaultPath:    obsidianVault,
					SyncInterval: obsidianPeriod,
				}, log)
				if err != nil {
					return fmt.Errorf("clipvaultd: building obsidian sync: %w", err)
				}
				vaultSync.Start(ctx, time.Now())
				defer vaultSync.Stop()
			}

			srv, err := server.New(svc, server.Config{
				Port:    port,
				PIDPath: filepath.Join(resolvedDir, "clipvaultd.pid"),
			}, log)
			if err != nil {
				return fmt.Errorf("clipvaultd: building server: %w", err)
			}
			if err := srv.Start(); err != nil {
				return fmt.Errorf("clipvaultd: starting server: %w", err)
			}
			defer srv.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Info("clipvaultd shutting down")
				platform.QuitTray()
			}()

			iconPath := filepath.Join(resolvedDir, "tray-icon.png")
			icon, _ := os.ReadFile(iconPath)
			log.Infow("clipvaultd started", "port", port, "data_dir", resolvedDir)

			// Blocks until QuitTray; the systray event loop must own the
			// main goroutine on macOS.
			platform.RunTray(icon, "ClipVault", "ClipVault clipboard manager",
				svc.TrayProjection,
				svc.HandleTrayRecentClick,
				svc.HandleTrayMenuClick,
				svc.HandleTrayFixedAction,
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&obsidianVault, "obsidian-vault", "", "optional Obsidian vault path to mirror history into as dated notes")
	cmd.Flags().DurationVar(&obsidianPeriod, "obsidian-interval", 5*time.Minute, "Obsidian vault sync interval")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print host/process diagnostics (CPU, memory, uptime)",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := host.Info()
			if err != nil {
				return fmt.Errorf("clipvaultd: host info: %w", err)
			}
			vmem, err := mem.VirtualMemory()
			if err != nil {
				return fmt.Errorf("clipvaultd: memory stats: %w", err)
			}
			percents, err := cpu.Percent(0, false)
			if err != nil {
				return fmt.Errorf("clipvaultd: cpu stats: %w", err)
			}
			cpuPct := 0.0
			if len(percents) > 0 {
				cpuPct = percents[0]
			}

			fmt.Printf("host:      %s (%s, uptime %ds)\n", info.Hostname, info.Platform, info.Uptime)
			fmt.Printf("cpu:       %.1f%%\n", cpuPct)
			fmt.Printf("memory:    %.1f%% used (%d/%d MB)\n", vmem.UsedPercent, vmem.Used/1024/1024, vmem.Total/1024/1024)

			resolvedDir, err := resolveDataDir()
			if err != nil {
				return err
			}
			fmt.Printf("data dir:  %s\n", resolvedDir)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent clipboard history records",
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
			records, err := eng.Search(history.Query{Search: search, Limit: limit})
			if err != nil {
				return fmt.Errorf("clipvaultd: listing history: %w", err)
			}
			maskWords := settings.Lines(config.KeyAutoMaskWordsList)
			if !settings.Bool(config.KeyIsAutoMaskWordsListEnabled) {
				maskWords = nil
			}
			for _, r := range records {
				p := history.Project(r, maskWords)
				fmt.Printf("%s  %-6s %s\n", r.ID, r.Kind, p.ValuePreview)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum records to print")
	listCmd.Flags().StringVar(&search, "search", "", "substring filter over record values")

	var pasteAuto bool
	pasteCmd := &cobra.Command{
		Use:   "paste <record-id>",
		Short: "Write a history record back to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			defer log.Sync()
			svc, _, err := buildService(log)
			if err != nil {
				return err
			}
			return svc.PasteHistoryItem(args[0], pasteAuto)
		},
	}
	pasteCmd.Flags().BoolVar(&pasteAuto, "auto-paste", false, "also synthesize the paste keystroke")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and act on clipboard history",
	}
	historyCmd.AddCommand(listCmd, pasteCmd)
	return historyCmd
}

func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	userCfgPath := defaultUserConfigPath()
	cfg, err := config.LoadUserConfig(userCfgPath)
	if err != nil {
		return "", fmt.Errorf("clipvaultd: loading user config: %w", err)
	}
	if cfg.CustomDBPath != "" {
		return filepath.Dir(cfg.CustomDBPath), nil
	}
	appData, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("clipvaultd: resolving app-data dir: %w", err)
	}
	return filepath.Join(appData, "clipvault"), nil
}

func defaultUserConfigPath() string {
	appData, err := os.UserConfigDir()
	if err != nil {
		return "pastebar_settings.yaml"
	}
	return filepath.Join(appData, "clipvault", "pastebar_settings.yaml")
}

func openStore(log *zap.SugaredLogger) (string, *storage.Store, error) {
	resolvedDir, err := resolveDataDir()
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(resolvedDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("clipvaultd: creating data dir: %w", err)
	}
	store, err := storage.Open(storage.Config{
		DBPath:  filepath.Join(resolvedDir, "pastebar-db.data"),
		BaseDir: resolvedDir,
	}, log)
	if err != nil {
		return "", nil, fmt.Errorf("clipvaultd: opening store: %w", err)
	}
	return resolvedDir, store, nil
}

func buildService(log *zap.SugaredLogger) (*service.Service, string, error) {
	resolvedDir, err := resolveDataDir()
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(resolvedDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("clipvaultd: creating data dir: %w", err)
	}

	webreq := webrequest.New(log)
	svc, err := service.New(service.Options{
		StorageConfig: storage.Config{
			DBPath:  filepath.Join(resolvedDir, "pastebar-db.data"),
			BaseDir: resolvedDir,
		},
		Clipboard:   platform.NewClipboardBackend(),
		Input:       platform.NewInputSynthesizer(),
		Access:      platform.NewAccessibilityProbe(),
		Shell:       shell.New(log),
		WebRequest:  webreq,
		WebScraping: webreq,
		Log:         log,
	})
	if err != nil {
		return nil, "", fmt.Errorf("clipvaultd: building service: %w", err)
	}
	return svc, resolvedDir, nil
}
