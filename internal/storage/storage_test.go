package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"rangedeck/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "rangedeck.db"), filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRoomCRUD(t *testing.T) {
	db := testDB(t)
	store := NewRoomStore(db)

	r := &domain.Room{ID: uuid.New().String(), Name: "Range A", Icon: "🎯"}
	if err := store.CreateRoom(r); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetRoom(r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Range A" {
		t.Errorf("name = %q", got.Name)
	}

	r.Name = "Range B"
	if err := store.UpdateRoom(r); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = store.GetRoom(r.ID)
	if got.Name != "Range B" {
		t.Errorf("name after update = %q", got.Name)
	}

	rooms, err := store.ListRooms()
	if err != nil || len(rooms) != 1 {
		t.Fatalf("list = %v, %v", rooms, err)
	}

	if err := store.DeleteRoom(r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetRoom(r.ID); err == nil {
		t.Error("expected error for deleted room")
	}
}

func TestLayoutSaveIsIdempotent(t *testing.T) {
	db := testDB(t)
	store := NewLayoutStore(db)

	layout := domain.Layout{
		Version:      domain.LayoutVersion,
		CanvasWidth:  1200,
		CanvasHeight: 800,
		GridSize:     20,
		Walls:        []domain.Wall{{ID: "w1", Points: []float64{0, 0, 100, 0}, Thickness: 6}},
	}
	vp := domain.Viewport{Scale: 1.5, X: 10, Y: -20}

	for i := 0; i < 3; i++ {
		if err := store.SaveLayout("room-1", layout, vp); err != nil {
			t.Fatalf("save #%d: %v", i, err)
		}
	}

	rl, err := store.LoadLayout("room-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rl == nil {
		t.Fatal("expected a layout")
	}
	if len(rl.Layout.Walls) != 1 || rl.Layout.Walls[0].ID != "w1" {
		t.Errorf("walls = %+v", rl.Layout.Walls)
	}
	if rl.Viewport.Scale != 1.5 {
		t.Errorf("viewport scale = %v, want 1.5", rl.Viewport.Scale)
	}

	var count int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM room_layouts`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1 after repeated saves", count)
	}
}

func TestLoadLayoutMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	store := NewLayoutStore(db)

	rl, err := store.LoadLayout("no-such-room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rl != nil {
		t.Errorf("expected nil for a room without a layout, got %+v", rl)
	}
}

func TestRecoverySnapshotPruning(t *testing.T) {
	db := testDB(t)
	store := NewLayoutStore(db)

	layout := domain.Layout{Version: domain.LayoutVersion, GridSize: 20}
	var lastID string
	for i := 0; i < 5; i++ {
		lastID = uuid.New().String()
		if err := store.SaveRecoverySnapshot(lastID, "room-1", layout, 3); err != nil {
			t.Fatalf("snapshot #%d: %v", i, err)
		}
		time.Sleep(5 * time.Millisecond) // distinct created_at ordering
	}

	var count int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM recovery_snapshots WHERE room_id = ?`, "room-1").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("snapshot count = %d, want pruned to 3", count)
	}

	latest, err := store.LatestRecoverySnapshot("room-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != lastID {
		t.Errorf("latest = %+v, want id %s", latest, lastID)
	}

	if err := store.DeleteRecoverySnapshots("room-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	latest, _ = store.LatestRecoverySnapshot("room-1")
	if latest != nil {
		t.Error("expected no snapshots after delete")
	}
}

func TestDeviceSourceCRUD(t *testing.T) {
	db := testDB(t)
	store := NewDeviceSourceStore(db)

	src := &domain.DeviceSource{
		ID:       uuid.New().String(),
		Name:     "site inventory",
		Driver:   domain.DeviceDriverPostgres,
		Host:     "db.local",
		Port:     5432,
		Database: "inventory",
		Username: "reader",
		SSLMode:  "disable",
		Table:    "targets",
	}
	if err := store.CreateSource(src); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetSource(src.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Driver != domain.DeviceDriverPostgres || got.Table != "targets" {
		t.Errorf("source = %+v", got)
	}

	src.Table = "devices"
	if err := store.UpdateSource(src); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = store.GetSource(src.ID)
	if got.Table != "devices" {
		t.Errorf("table after update = %q", got.Table)
	}

	if err := store.DeleteSource(src.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if sources, _ := store.ListSources(); len(sources) != 0 {
		t.Errorf("sources after delete = %+v", sources)
	}
}

func TestDeviceCacheReplace(t *testing.T) {
	db := testDB(t)
	store := NewDeviceCacheStore(db)

	first := []domain.TargetDevice{
		{DeviceID: "d1", Name: "Lane 1", Status: domain.DeviceStatusOnline, LastSeen: time.Now()},
		{DeviceID: "d2", Name: "Lane 2", Status: domain.DeviceStatusOffline},
	}
	if err := store.ReplaceDevices(first); err != nil {
		t.Fatalf("replace: %v", err)
	}

	second := []domain.TargetDevice{
		{DeviceID: "d3", Name: "Lane 3", Status: domain.DeviceStatusUnknown},
	}
	if err := store.ReplaceDevices(second); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	devices, err := store.ListDevices()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(devices) != 1 || devices[0].DeviceID != "d3" {
		t.Errorf("devices = %+v, want only the replacement set", devices)
	}
}
