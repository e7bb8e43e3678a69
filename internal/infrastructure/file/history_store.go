package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryStore)(nil)

// HistoryStore persiste los registros diarios agregados como una lista JSON
// ordenada por fecha. El upsert reemplaza el registro de la misma fecha.
type HistoryStore struct {
	path string
}

// NewHistoryStore construye el store sobre dataDir/history.json.
func NewHistoryStore(dataDir string) *HistoryStore {
	return &HistoryStore{path: filepath.Join(dataDir, "history.json")}
}

// Upsert reemplaza o agrega el registro de la fecha.
func (s *HistoryStore) Upsert(ctx context.Context, rec entity.HistoryRecord) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range records {
		if records[i].Date == rec.Date {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return writeJSONAtomic(s.path, records)
}

// GetByDate devuelve el registro de la fecha, o nil si no existe.
func (s *HistoryStore) GetByDate(ctx context.Context, date string) (*entity.HistoryRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Date == date {
			return &records[i], nil
		}
	}
	return nil, nil
}

// List devuelve todos los registros diarios, ordenados por fecha.
func (s *HistoryStore) List(_ context.Context) ([]entity.HistoryRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer %s: %w", s.path, err)
	}
	var records []entity.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decodificar historial: %w", err)
	}
	return records, nil
}
