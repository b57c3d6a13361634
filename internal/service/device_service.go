package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rangedeck/internal/devicedb"
	"rangedeck/internal/domain"
	"rangedeck/internal/secret"
	"rangedeck/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Device Service — device sources and the inventory cache
// ─────────────────────────────────────────────────────────────

// connectorFactory lets tests substitute a fake inventory connector.
type connectorFactory func(src *domain.DeviceSource, password string) (devicedb.Connector, error)

// DeviceService manages device inventory sources and keeps a local cache of
// the merged fleet so the editor works while inventories are unreachable.
type DeviceService struct {
	sources *storage.DeviceSourceStore
	cache   *storage.DeviceCacheStore
	secrets secret.SecretStore
	emitter EventEmitter

	newConnector connectorFactory
}

// NewDeviceService creates a DeviceService.
func NewDeviceService(
	sources *storage.DeviceSourceStore,
	cache *storage.DeviceCacheStore,
	secrets secret.SecretStore,
	emitter EventEmitter,
) *DeviceService {
	return &DeviceService{
		sources:      sources,
		cache:        cache,
		secrets:      secrets,
		emitter:      emitter,
		newConnector: devicedb.NewConnector,
	}
}

// ── Sources ────────────────────────────────────────────────

func (s *DeviceService) ListSources() ([]domain.DeviceSource, error) {
	return s.sources.ListSources()
}

// CreateSource stores the source metadata; the password goes to the
// keychain, never to SQLite.
func (s *DeviceService) CreateSource(src *domain.DeviceSource, password string) (*domain.DeviceSource, error) {
	if src.ID == "" {
		src.ID = uuid.New().String()
	}
	if err := s.sources.CreateSource(src); err != nil {
		return nil, fmt.Errorf("create device source: %w", err)
	}
	if password != "" {
		if err := s.secrets.Set(src.ID, []byte(password)); err != nil {
			return nil, fmt.Errorf("store password: %w", err)
		}
	}
	return src, nil
}

// UpdateSource updates the metadata and, when a new password is given,
// rotates the stored secret.
func (s *DeviceService) UpdateSource(src *domain.DeviceSource, password string) error {
	if err := s.sources.UpdateSource(src); err != nil {
		return err
	}
	if password != "" {
		return s.secrets.Set(src.ID, []byte(password))
	}
	return nil
}

func (s *DeviceService) DeleteSource(id string) error {
	if err := s.sources.DeleteSource(id); err != nil {
		return err
	}
	return s.secrets.Delete(id)
}

// TestSource opens a connection to the source and pings it.
func (s *DeviceService) TestSource(ctx context.Context, id string) error {
	src, err := s.sources.GetSource(id)
	if err != nil {
		return err
	}
	password, err := s.secrets.Get(id)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	conn, err := s.newConnector(src, string(password))
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.TestConnection(ctx)
}

// ── Inventory ──────────────────────────────────────────────

// RefreshInventory fetches devices from every configured source, merges
// them by device id (later sources win), and replaces the local cache.
// Sources that fail are reported but do not abort the refresh.
func (s *DeviceService) RefreshInventory(ctx context.Context) ([]domain.TargetDevice, error) {
	sources, err := s.sources.ListSources()
	if err != nil {
		return nil, err
	}

	merged := map[string]domain.TargetDevice{}
	var order []string
	var failures []string

	for i := range sources {
		src := &sources[i]
		password, err := s.secrets.Get(src.ID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", src.Name, err))
			continue
		}
		conn, err := s.newConnector(src, string(password))
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", src.Name, err))
			continue
		}
		devices, err := conn.FetchDevices(ctx)
		conn.Close()
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", src.Name, err))
			continue
		}
		for _, d := range devices {
			if d.DeviceID == "" {
				continue
			}
			if _, seen := merged[d.DeviceID]; !seen {
				order = append(order, d.DeviceID)
			}
			merged[d.DeviceID] = d
		}
	}

	devices := make([]domain.TargetDevice, 0, len(order))
	for _, id := range order {
		devices = append(devices, merged[id])
	}

	if err := s.cache.ReplaceDevices(devices); err != nil {
		return nil, fmt.Errorf("cache devices: %w", err)
	}
	s.emitter.Emit(ctx, "devices:refreshed", len(devices))

	if len(failures) > 0 && len(devices) == 0 {
		return devices, fmt.Errorf("all device sources failed: %v", failures)
	}
	return devices, nil
}

// ListDevices returns the cached inventory.
func (s *DeviceService) ListDevices() ([]domain.TargetDevice, error) {
	return s.cache.ListDevices()
}

// ListUnplacedDevices returns cached devices that have no marker in the
// given document.
func (s *DeviceService) ListUnplacedDevices(doc domain.DocumentSnapshot) ([]domain.TargetDevice, error) {
	devices, err := s.cache.ListDevices()
	if err != nil {
		return nil, err
	}
	placed := map[string]bool{}
	for _, t := range doc.Targets {
		placed[t.TargetDeviceID] = true
	}
	var out []domain.TargetDevice
	for _, d := range devices {
		if !placed[d.DeviceID] {
			out = append(out, d)
		}
	}
	return out, nil
}
