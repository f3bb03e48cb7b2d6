package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"ladderbot/internal/models"
	"path/filepath"

	"github.com/spf13/afero"
)

const fileMode = 0o644

var ErrDuplicateOrder = errors.New("Повторяющийся идентификатор активного ордера")

// Store keeps the tracked orders as one JSON array. Save replaces the whole
// document through a temp file and rename, so readers see either the old or
// the new snapshot.
type Store struct {
	fs   afero.Fs
	path string
}

func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

func NewOS(path string) *Store {
	return New(afero.NewOsFs(), path)
}

func (s *Store) Path() string {
	return s.path
}

// Load returns an error wrapping fs.ErrNotExist when no snapshot was written yet.
func (s *Store) Load() ([]models.OrderRecord, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("Не удалось прочитать %s: %w", s.path, err)
	}

	var orders []models.OrderRecord
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("Не удалось разобрать %s: %w", s.path, err)
	}

	for i := range orders {
		if orders[i].Status == "" {
			orders[i].Status = models.OrderStatusUnknown
		}
	}

	if err := checkUnique(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) Save(orders []models.OrderRecord) error {
	if orders == nil {
		orders = []models.OrderRecord{}
	}
	if err := checkUnique(orders); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("Не удалось создать каталог %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("Не удалось создать временный файл: %w", err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(orders); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("Не удалось записать ордера: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("Не удалось записать ордера: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("Не удалось записать ордера: %w", err)
	}

	if err := s.fs.Chmod(tmpName, fileMode); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("Не удалось изменить права %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("Не удалось заменить %s: %w", s.path, err)
	}
	return nil
}

// checkUnique enforces one live record per known exchange id.
func checkUnique(orders []models.OrderRecord) error {
	seen := make(map[models.OrderID]struct{}, len(orders))
	for _, o := range orders {
		if !o.Live() || !o.ID.IsKnown() {
			continue
		}
		if _, ok := seen[o.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}
