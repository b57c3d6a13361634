package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"rangedeck/internal/domain"
	"rangedeck/internal/editor"
)

// layoutWatcher watches the import directory for layout JSON files dropped
// by other tools (site surveys, older installations) and imports each one
// as a new room.
type layoutWatcher struct {
	ctx     context.Context
	app     *App
	dir     string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

func newLayoutWatcher(ctx context.Context, app *App, dir string) (*layoutWatcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &layoutWatcher{ctx: ctx, app: app, dir: dir, watcher: w}, nil
}

// Start begins the watch loop and imports any files already waiting.
func (w *layoutWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.loop()
	go w.importExisting()
}

// Stop terminates the watch loop.
func (w *layoutWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
	}
	w.watcher.Close()
}

func (w *layoutWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.EqualFold(filepath.Ext(event.Name), ".json") {
				w.importFile(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			wailsRuntime.LogErrorf(w.ctx, "[import] watcher error: %v", err)
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

// importExisting picks up files dropped while the app was not running.
func (w *layoutWatcher) importExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			w.importFile(filepath.Join(w.dir, e.Name()))
		}
	}
}

// importFile reads a layout JSON file, creates a room named after the
// file, stores the layout, and removes the file. Malformed files are
// renamed aside so the watcher does not retry them forever.
func (w *layoutWatcher) importFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	layout, err := editor.UnmarshalLayout(data)
	if err != nil {
		wailsRuntime.LogErrorf(w.ctx, "[import] bad layout file %s: %v", filepath.Base(path), err)
		os.Rename(path, path+".rejected")
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	room, err := w.app.rooms.CreateRoom(w.ctx, name)
	if err != nil {
		wailsRuntime.LogErrorf(w.ctx, "[import] create room: %v", err)
		return
	}
	if err := w.app.layouts.SaveLayout(w.ctx, room.ID, layout, domain.Viewport{Scale: 1}); err != nil {
		wailsRuntime.LogErrorf(w.ctx, "[import] save layout: %v", err)
		return
	}
	os.Remove(path)

	wailsRuntime.LogInfof(w.ctx, "[import] imported layout %s as room %s", filepath.Base(path), room.ID)
	wailsRuntime.EventsEmit(w.ctx, "layout:imported", map[string]string{
		"roomId": room.ID,
		"name":   name,
	})
}
