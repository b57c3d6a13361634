package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "rangedeck/internal/mcp"
	"rangedeck/internal/secret"
	"rangedeck/internal/service"
	"rangedeck/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "rangedeck")
	dbPath := filepath.Join(dataDir, "rangedeck.db")

	db, err := storage.New(dbPath, filepath.Join(dataDir, "layouts"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := noopEmitter{}
	layoutsSvc := service.NewLayoutService(storage.NewLayoutStore(db), emitter)
	roomsSvc := service.NewRoomService(storage.NewRoomStore(db), layoutsSvc, emitter)
	devicesSvc := service.NewDeviceService(
		storage.NewDeviceSourceStore(db),
		storage.NewDeviceCacheStore(db),
		secret.NewKeychainStore(),
		emitter,
	)

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter: emitter,
		Rooms:   roomsSvc,
		Layouts: layoutsSvc,
		Devices: devicesSvc,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
