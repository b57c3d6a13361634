package app

import (
	"context"
	"os"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"rangedeck/internal/domain"
	"rangedeck/internal/editor"
	"rangedeck/internal/secret"
	"rangedeck/internal/service"
	"rangedeck/internal/storage"
)

// recoverySpec is how often the active room's layout is snapshotted for
// crash recovery.
const recoverySpec = "@every 2m"

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db      *storage.DB
	secrets secret.SecretStore

	rooms   *service.RoomService
	layouts *service.LayoutService
	devices *service.DeviceService

	// The in-memory editing session for the currently open room.
	session      *editor.Session
	activeRoomID string

	watcher *layoutWatcher
}

// New creates a new App.
func New() *App {
	return &App{session: editor.NewSession()}
}

// Emit implements service.EventEmitter by delegating to wailsRuntime.
func (a *App) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "rangedeck")
	dbPath := filepath.Join(dataDir, "rangedeck.db")

	db, err := storage.New(dbPath, filepath.Join(dataDir, "layouts"))
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db
	a.secrets = secret.NewKeychainStore()

	a.layouts = service.NewLayoutService(storage.NewLayoutStore(db), a)
	a.rooms = service.NewRoomService(storage.NewRoomStore(db), a.layouts, a)
	a.devices = service.NewDeviceService(
		storage.NewDeviceSourceStore(db),
		storage.NewDeviceCacheStore(db),
		a.secrets,
		a,
	)

	// Crash-recovery snapshots of whatever room is open with unsaved edits.
	if err := a.layouts.StartRecoverySchedule(recoverySpec, func() (string, domain.Layout, bool) {
		if a.activeRoomID == "" || !a.session.Dirty() {
			return "", domain.Layout{}, false
		}
		return a.activeRoomID, a.session.SerializeLayout(), true
	}); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start recovery schedule: %v", err)
	}

	// Watch the import directory for layout files dropped by other tools.
	watcher, err := newLayoutWatcher(ctx, a, filepath.Join(db.DataDir(), "import"))
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start layout watcher: %v", err)
	} else {
		a.watcher = watcher
		a.watcher.Start()
	}
}

// Shutdown is called when the app is closing. Pending autosaves are flushed
// so edits survive the quit.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.layouts != nil {
		a.layouts.Flush(ctx)
		a.layouts.StopRecoverySchedule()
	}
	if a.db != nil {
		a.db.Close()
	}
}
