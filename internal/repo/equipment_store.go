package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"injdash/internal/logs"
	"injdash/internal/models"
)

// EquipmentStore keeps the inventory in a single CSV file.
//
// Writers in other processes are not coordinated: the last Save wins.
type EquipmentStore struct {
	path string
	mu   sync.Mutex
}

func NewEquipmentStore(path string) *EquipmentStore { return &EquipmentStore{path: path} }

func (s *EquipmentStore) Path() string { return s.path }

// Load reads the inventory. A missing file is an empty inventory.
func (s *EquipmentStore) Load(ctx context.Context) (*models.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewInventory(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inv, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return inv, nil
}

// Save replaces the file with inv. The new content is written to a temp file
// next to the target and renamed over it.
func (s *EquipmentStore) Save(ctx context.Context, inv *models.Inventory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := encode(tmp, inv); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("save %s: %w", s.path, err)
	}

	logs.Logger.Infof("inventory saved: file=%s records=%d", s.path, len(inv.Records))
	return nil
}
