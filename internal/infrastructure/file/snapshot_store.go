package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotStore)(nil)

// SnapshotStore persiste la foto de artículos y categorías como JSON en el
// directorio de datos. La escritura es atómica (archivo temporal + rename)
// para que una caída a mitad de guardado nunca deje una foto corrupta.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore construye el store sobre dataDir/snapshot.json.
func NewSnapshotStore(dataDir string) *SnapshotStore {
	return &SnapshotStore{path: filepath.Join(dataDir, "snapshot.json")}
}

// Load devuelve la última foto, o nil si todavía no existe.
func (s *SnapshotStore) Load(_ context.Context) (*entity.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer %s: %w", s.path, err)
	}
	var snap entity.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decodificar foto: %w", err)
	}
	return &snap, nil
}

// Save escribe la foto de forma atómica.
func (s *SnapshotStore) Save(_ context.Context, snap *entity.Snapshot) error {
	return writeJSONAtomic(s.path, snap)
}

// writeJSONAtomic serializa v y lo publica con temporal + rename en el mismo
// directorio (rename entre sistemas de archivos no es atómico).
func writeJSONAtomic(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("crear directorio de datos: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("codificar: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publicar %s: %w", path, err)
	}
	return nil
}
