package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/api"
	"github.com/Ashfaaq98/docket-console/internal/bus"
	"github.com/Ashfaaq98/docket-console/internal/cache"
	"github.com/Ashfaaq98/docket-console/internal/config"
	"github.com/Ashfaaq98/docket-console/internal/logger"
	"github.com/Ashfaaq98/docket-console/internal/lookup"
	"github.com/Ashfaaq98/docket-console/internal/notes"
	"github.com/Ashfaaq98/docket-console/internal/store"
	"go.uber.org/zap"
)

// runtime holds the services a command works with.
type runtime struct {
	cfg     config.Config
	logger  *zap.SugaredLogger
	client  *api.Client
	store   *store.Store
	cache   cache.Cache
	lookups *lookup.Service
	notes   *notes.Service
	bus     bus.Bus
}

type runtimeOptions struct {
	// fileLog sends logs to the configured file instead of stderr.
	fileLog bool
	// noState skips opening the local state database.
	noState bool
}

func newRuntime(opts runtimeOptions) (*runtime, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	logFile := ""
	if opts.fileLog {
		logFile = resolvePathRelativeToBase(getWorkingDir(), cfg.Log.File)
	}
	log, err := logger.New(cfg.Log.Level, logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if opts.fileLog {
		log = logger.WithStderrErrors(log)
	}

	client, err := api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Headers:   cfg.API.Headers,
		UserAgent: cfg.API.UserAgent,
	}, api.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: log, client: client}

	if !opts.noState {
		path := resolvePathRelativeToBase(getWorkingDir(), cfg.State.Path)
		log.Debugw("opening local state", "path", path)
		rt.store, err = store.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
	}

	rt.cache = cache.New(cfg.Redis.URL, log)
	rt.lookups = lookup.NewService(client, rt.cache, cfg.Redis.CacheTTL, log)
	rt.notes = notes.NewService(client, log)
	rt.bus = bus.NewBus(cfg.Redis.URL, "", log)
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.bus != nil {
		rt.bus.Close()
	}
	if rt.cache != nil {
		rt.cache.Close()
	}
	if rt.store != nil {
		rt.store.Close()
	}
	_ = rt.logger.Sync()
}

// record journals a mutation made from the command line and announces it
// to running consoles.
func (rt *runtime) record(ctx context.Context, entity, action, recordID string, err error) {
	entry := store.AuditEntry{Entity: entity, RecordID: recordID, Action: action, Outcome: store.OutcomeSuccess}
	if err != nil {
		entry.Outcome = store.OutcomeFailure
		entry.Details = map[string]string{"error": err.Error()}
	}
	if rt.store != nil {
		if jerr := rt.store.AddAuditEntry(ctx, entry); jerr != nil {
			rt.logger.Warnw("failed to journal change", "entity", entity, "error", jerr)
		}
	}
	if err == nil {
		if perr := rt.bus.PublishChange(ctx, bus.ChangeMessage{Entity: entity, Action: action, RecordID: recordID}); perr != nil {
			rt.logger.Debugw("change publish failed", "error", perr)
		}
	}
}

// getWorkingDir returns the current working directory.
// Falls back to the executable directory if os.Getwd fails.
func getWorkingDir() string {
	if wd, err := os.Getwd(); err == nil && wd != "" {
		return wd
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolvePathRelativeToBase resolves a possibly relative path against a base directory.
// Absolute paths and ":memory:" are returned unchanged.
func resolvePathRelativeToBase(base, p string) string {
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	p = strings.TrimPrefix(p, "./")
	return filepath.Join(base, p)
}
