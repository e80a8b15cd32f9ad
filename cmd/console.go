package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/config"
	"github.com/Ashfaaq98/docket-console/internal/ingest"
	"github.com/Ashfaaq98/docket-console/internal/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	openLocation string
	forceTUI     bool
	watchImport  bool
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:     "console",
	Aliases: []string{"tui"},
	Short:   "Start the full-screen console",
	Long: `Start the terminal console. Besides the interface itself it runs:

1. The change feed, so edits made on other consoles refresh open views
   (requires --redis)
2. A config watcher that applies theme changes without a restart
3. A backend health monitor, logged to the console log file
4. Optionally, a watcher importing case files dropped into the import folder

Logs go to log.file while the console owns the terminal; errors are also
written to stderr.

Examples:
  # Open the dashboard (or wherever the last session ended)
  docket console

  # Open a list at a given page and search
  docket console --open "/cases/running?page=2&search=khan"

  # Also import case files dropped into ./import
  docket console --watch-import`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().StringVar(&openLocation, "open", "", "Location to open, e.g. /cases/all?page=2")
	consoleCmd.Flags().BoolVar(&forceTUI, "force-tui", false, "Start even when no interactive terminal is detected")
	consoleCmd.Flags().BoolVar(&watchImport, "watch-import", false, "Import case files dropped into import.dir while running")
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !forceTUI && !canInitializeTUI() {
		return errors.New("the console needs an interactive terminal; use the headless commands (docket list, docket dashboard) or --force-tui")
	}

	rt, err := newRuntime(runtimeOptions{fileLog: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Infow("starting console", "api", rt.client.BaseURL(), "state", rt.cfg.State.Path)

	start := rt.cfg.UI.StartLocation
	if openLocation != "" {
		start = openLocation
	}
	console := ui.NewUI(ctx, ui.Deps{
		API:     rt.client,
		Lookups: rt.lookups,
		Notes:   rt.notes,
		Store:   rt.store,
		Bus:     rt.bus,
		Logger:  rt.logger,
	}, ui.Options{
		Theme:         rt.cfg.UI.Theme,
		PageSize:      rt.cfg.UI.PageSize,
		PollInterval:  rt.cfg.UI.PollInterval,
		StartLocation: start,
		ExportDir:     resolvePathRelativeToBase(getWorkingDir(), "exports"),
	})

	// This allows us to properly shut down background services when the console exits
	svcCtx, svcCancel := context.WithCancel(ctx)
	defer svcCancel()

	coordinator := &ServiceCoordinator{
		rt:      rt,
		console: console,
		logger:  rt.logger.Named("services"),
		ctx:     svcCtx,
	}
	if err := coordinator.Start(); err != nil {
		return fmt.Errorf("failed to start services: %w", err)
	}
	defer coordinator.Stop()

	if err := console.Start(ctx); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	svcCancel()
	rt.logger.Infow("console stopped")
	return nil
}

// canInitializeTUI checks for a terminal and that tcell can take it over.
func canInitializeTUI() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return false
	}
	if err := screen.Init(); err != nil {
		return false
	}
	screen.Fini()
	return true
}

// ServiceCoordinator manages the console's background services
type ServiceCoordinator struct {
	rt      *runtime
	console *ui.UI
	logger  *zap.SugaredLogger
	ctx     context.Context

	wg      sync.WaitGroup
	running bool
}

// Start starts all background services
func (sc *ServiceCoordinator) Start() error {
	if sc.running {
		return fmt.Errorf("services already running")
	}
	sc.running = true

	sc.wg.Add(1)
	go sc.runChangeFeed()

	sc.wg.Add(1)
	go sc.runHealthMonitor()

	if path := viper.ConfigFileUsed(); path != "" {
		sc.wg.Add(1)
		go sc.runConfigWatcher(path)
	}

	if watchImport {
		sc.wg.Add(1)
		go sc.runFolderImport()
	}

	sc.logger.Infow("background services started")
	return nil
}

// Stop waits for the services to exit. Cancel their context first.
func (sc *ServiceCoordinator) Stop() {
	if !sc.running {
		return
	}
	sc.running = false
	sc.wg.Wait()
	sc.logger.Infow("background services stopped")
}

// runChangeFeed refreshes open views when another console changes data.
func (sc *ServiceCoordinator) runChangeFeed() {
	defer sc.wg.Done()

	handler := func(ctx context.Context, msg bus.ChangeMessage) error {
		sc.logger.Debugw("remote change", "entity", msg.Entity, "action", msg.Action, "record", msg.RecordID, "origin", msg.Origin)
		sc.console.HandleChange(msg)
		return nil
	}
	if err := sc.rt.bus.SubscribeChanges(sc.ctx, handler); err != nil && sc.ctx.Err() == nil {
		sc.logger.Errorw("change feed stopped", "error", err)
	}
}

// runConfigWatcher applies theme edits made to the config file.
func (sc *ServiceCoordinator) runConfigWatcher(path string) {
	defer sc.wg.Done()

	current := sc.rt.cfg.UI.Theme
	err := config.Watch(sc.ctx, viper.GetViper(), path, sc.logger, func(cfg config.Config) {
		if cfg.UI.Theme != current {
			current = cfg.UI.Theme
			sc.logger.Infow("theme changed in config", "theme", current)
			sc.console.SetTheme(current)
		}
	})
	if err != nil && sc.ctx.Err() == nil {
		sc.logger.Warnw("config watcher stopped", "error", err)
	}
}

// runHealthMonitor pings the backend and logs client counters.
func (sc *ServiceCoordinator) runHealthMonitor() {
	defer sc.wg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-sc.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(sc.ctx, 10*time.Second)
			err := sc.rt.client.Ping(ctx)
			cancel()
			switch {
			case err != nil && healthy:
				sc.logger.Warnw("backend unreachable", "error", err)
			case err == nil && !healthy:
				sc.logger.Infow("backend reachable again")
			}
			healthy = err == nil

			stats := sc.rt.client.Stats()
			sc.logger.Debugw("api stats", "requests", stats.Requests, "failures", stats.Failures, "last_activity", stats.LastActivity)
			if busStats, err := sc.rt.bus.GetStats(sc.ctx); err == nil {
				sc.logger.Debugw("bus stats", "stats", busStats)
			}
		}
	}
}

// runFolderImport imports case files dropped into the import folder.
// Existing JSONL lines are skipped so restarts do not import them again.
func (sc *ServiceCoordinator) runFolderImport() {
	defer sc.wg.Done()

	dir := resolvePathRelativeToBase(getWorkingDir(), sc.rt.cfg.Import.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		sc.logger.Warnw("could not create import directory", "dir", dir, "error", err)
		return
	}
	importer := ingest.NewImporter(sc.rt.client, sc.rt.store, localEchoBus{Bus: sc.rt.bus, console: sc.console}, sc.logger)
	folder := ingest.NewFolderImporter(importer, ingest.FolderOptions{
		Dir:         dir,
		Watch:       true,
		Patterns:    sc.rt.cfg.Import.Patterns,
		TailFromEnd: true,
		Logger:      sc.logger,
	})
	rep, err := folder.Run(sc.ctx)
	if err != nil && sc.ctx.Err() == nil {
		sc.logger.Errorw("folder import stopped", "dir", dir, "error", err)
	}
	sc.logger.Infow("folder import finished", "imported", rep.Imported, "failed", rep.Failed)
}

// localEchoBus also hands published changes to this console, whose own
// subscription skips messages from its origin.
type localEchoBus struct {
	bus.Bus
	console *ui.UI
}

func (b localEchoBus) PublishChange(ctx context.Context, msg bus.ChangeMessage) error {
	b.console.HandleChange(msg)
	return b.Bus.PublishChange(ctx, msg)
}
