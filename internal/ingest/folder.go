package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FolderOptions controls folder import behavior.
type FolderOptions struct {
	Dir      string
	Watch    bool
	Patterns []string // e.g. []string{"*.jsonl", "*.json"}
	// When true and in Watch mode, start JSONL files at EOF on startup so
	// existing lines are not imported again each time the console starts.
	TailFromEnd bool
	Logger      *zap.SugaredLogger
}

// FolderImporter imports case files from a directory (one-shot or watch mode).
type FolderImporter struct {
	importer *Importer
	opts     FolderOptions

	offsets map[string]int64 // per-file tail offset for jsonl
	mu      sync.Mutex
}

// NewFolderImporter constructs a folder importer.
func NewFolderImporter(importer *Importer, opts FolderOptions) *FolderImporter {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"*.jsonl", "*.json"}
	}
	return &FolderImporter{
		importer: importer,
		opts:     opts,
		offsets:  make(map[string]int64),
	}
}

// Run imports per options and returns the accumulated report. In watch mode
// it returns when ctx is cancelled.
func (fi *FolderImporter) Run(ctx context.Context) (Report, error) {
	if err := fi.scanOnce(ctx); err != nil {
		return fi.importer.Report(), err
	}

	if !fi.opts.Watch {
		rep := fi.importer.Report()
		fi.opts.Logger.Infow("completed one-shot import", "imported", rep.Imported, "failed", rep.Failed)
		return rep, nil
	}

	err := fi.watchLoop(ctx)
	return fi.importer.Report(), err
}

func (fi *FolderImporter) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range fi.opts.Patterns {
		p := strings.TrimSpace(strings.ToLower(pat))
		if ok, _ := filepath.Match(p, lower); ok {
			return true
		}
	}
	return false
}

func isJSONL(name string) bool { return strings.HasSuffix(strings.ToLower(name), ".jsonl") }
func isJSON(name string) bool  { return strings.HasSuffix(strings.ToLower(name), ".json") }

func (fi *FolderImporter) scanOnce(ctx context.Context) error {
	entries, err := os.ReadDir(fi.opts.Dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !fi.matches(e.Name()) {
			continue
		}
		path := filepath.Join(fi.opts.Dir, e.Name())
		switch {
		case isJSONL(e.Name()):
			if fi.opts.Watch && fi.opts.TailFromEnd {
				if st, err := os.Stat(path); err == nil {
					fi.setOffset(path, st.Size())
				}
				continue
			}
			off, err := fi.processJSONL(ctx, path, 0)
			if err != nil {
				fi.opts.Logger.Warnw("error processing file", "path", path, "error", err)
				fi.fileFailed(path, err)
			}
			fi.setOffset(path, off)
		case isJSON(e.Name()):
			if err := fi.processJSONFile(ctx, path); err != nil {
				fi.opts.Logger.Warnw("error processing file", "path", path, "error", err)
				fi.fileFailed(path, err)
			}
		}
	}
	return nil
}

func (fi *FolderImporter) watchLoop(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	if err := w.Add(fi.opts.Dir); err != nil {
		return fmt.Errorf("watch add: %w", err)
	}

	fi.opts.Logger.Infow("watching directory", "dir", fi.opts.Dir, "patterns", strings.Join(fi.opts.Patterns, ","))

	for {
		select {
		case <-ctx.Done():
			rep := fi.importer.Report()
			fi.opts.Logger.Infow("watch stopping", "imported", rep.Imported, "failed", rep.Failed)
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			fi.handleEvent(ctx, ev)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fi.opts.Logger.Warnw("watch error", "error", err)
		}
	}
}

func (fi *FolderImporter) handleEvent(ctx context.Context, ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if !fi.matches(name) {
		return
	}

	if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		switch {
		case isJSONL(name):
			newOffset, err := fi.processJSONL(ctx, ev.Name, fi.offset(ev.Name))
			if err != nil {
				fi.opts.Logger.Warnw("error tailing file", "path", ev.Name, "error", err)
				return
			}
			fi.setOffset(ev.Name, newOffset)
		case isJSON(name):
			// whole-document files are imported once they are complete
			if ev.Op&fsnotify.Create != 0 {
				if err := fi.processJSONFile(ctx, ev.Name); err != nil {
					fi.opts.Logger.Warnw("error processing file", "path", ev.Name, "error", err)
					fi.fileFailed(ev.Name, err)
				}
			}
		}
	}
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		fi.mu.Lock()
		delete(fi.offsets, ev.Name)
		fi.mu.Unlock()
	}
}

func (fi *FolderImporter) offset(path string) int64 {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	return fi.offsets[path]
}

func (fi *FolderImporter) setOffset(path string, off int64) {
	fi.mu.Lock()
	fi.offsets[path] = off
	fi.mu.Unlock()
}

func (fi *FolderImporter) fileFailed(path string, err error) {
	fi.importer.mu.Lock()
	fi.importer.report.add(Report{Failed: 1, Errors: []string{filepath.Base(path) + ": " + err.Error()}})
	fi.importer.mu.Unlock()
}

// processJSONL imports complete lines from startOffset and returns the offset
// just past the last complete line. A trailing partial line is left for the
// next write.
func (fi *FolderImporter) processJSONL(ctx context.Context, path string, startOffset int64) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		// File might be transiently missing (rename/rotate)
		return startOffset, err
	}
	defer f.Close()

	if st, err := f.Stat(); err == nil && st.Size() < startOffset {
		// truncated
		startOffset = 0
	}
	if startOffset > 0 {
		if _, err := f.Seek(startOffset, io.SeekStart); err != nil {
			return startOffset, err
		}
	}

	reader := bufio.NewReaderSize(f, 64*1024)
	offset := startOffset
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return offset, nil
		}
		if err != nil {
			return offset, err
		}
		lineStart := offset
		offset += int64(len(line))
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		label := fmt.Sprintf("%s@%d", filepath.Base(path), lineStart)
		fi.importer.importRecord(ctx, label, []byte(text))
	}
}

func (fi *FolderImporter) processJSONFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = fi.importer.ImportJSON(ctx, filepath.Base(path), data)
	return err
}
