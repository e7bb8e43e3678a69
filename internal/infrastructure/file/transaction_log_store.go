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

var _ repository.TransactionLogRepository = (*TransactionLogStore)(nil)

// dayLogFile formato en disco del log diario: la fecha más sus entradas.
type dayLogFile struct {
	Date string                       `json:"date"`
	Logs []entity.TransactionLogEntry `json:"logs"`
}

// TransactionLogStore persiste el log de recepciones del día como JSON.
// Si el archivo guardado pertenece a otro día, LoadDay lo trata como vacío:
// la rotación diaria es implícita y el archivado es asunto de reporting,
// no de este store.
type TransactionLogStore struct {
	path string
}

// NewTransactionLogStore construye el store sobre dataDir/transactions.json.
func NewTransactionLogStore(dataDir string) *TransactionLogStore {
	return &TransactionLogStore{path: filepath.Join(dataDir, "transactions.json")}
}

// LoadDay devuelve las entradas guardadas de la fecha pedida, o vacío si el
// archivo no existe o pertenece a otro día (no se mezcla ni se archiva aquí).
func (s *TransactionLogStore) LoadDay(_ context.Context, date string) ([]entity.TransactionLogEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer %s: %w", s.path, err)
	}
	var f dayLogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decodificar log diario: %w", err)
	}
	if f.Date != date {
		return nil, nil
	}
	return f.Logs, nil
}

// SaveDay sobreescribe el log del día de forma atómica.
func (s *TransactionLogStore) SaveDay(_ context.Context, date string, entries []entity.TransactionLogEntry) error {
	return writeJSONAtomic(s.path, dayLogFile{Date: date, Logs: entries})
}
