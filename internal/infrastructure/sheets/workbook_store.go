package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

// Verificar en tiempo de compilación que WorkbookStore implementa RemoteStore.
var _ repository.RemoteStore = (*WorkbookStore)(nil)

// Hoja de relleno: un libro xlsx necesita al menos una hoja viva mientras se
// borra y recrea la hoja de una categoría.
const placeholderSheet = "Sheet1"

// WorkbookStore implementa el puerto RemoteStore sobre un libro .xlsx
// compartido: una hoja por categoría, con la cabecera
// No | Name | Prev | Current | Order | Price | Status.
//
// El libro se abre en cada llamada (no hay estado "conectado"): un libro
// ausente o corrupto se reporta como fallo de esa llamada y la categoría
// siguiente vuelve a intentar. El acceso se serializa porque todas las
// categorías comparten el mismo archivo.
type WorkbookStore struct {
	mu   sync.Mutex
	path string
}

// NewWorkbookStore construye el adaptador sobre la ruta del libro.
func NewWorkbookStore(path string) *WorkbookStore {
	return &WorkbookStore{path: path}
}

// ReadRows lee todas las filas de datos de la hoja de una categoría.
// Libro ausente -> ErrRemoteUnavailable; hoja ausente -> ErrSheetNotFound.
func (s *WorkbookStore) ReadRows(_ context.Context, category string) ([]entity.RemoteRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: libro %s", domain.ErrRemoteUnavailable, s.path)
		}
		return nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(category)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSheetNotFound, category)
	}

	raw, err := f.GetRows(category)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", category, err)
	}
	if len(raw) <= 1 {
		return nil, nil // solo cabecera (o nada)
	}

	rows := make([]entity.RemoteRow, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := entity.RemoteRow{
			No:      cell(r, 0),
			Name:    cell(r, 1),
			Prev:    cell(r, 2),
			Current: cell(r, 3),
			Order:   cell(r, 4),
			Price:   cell(r, 5),
			Status:  cell(r, 6),
		}
		if row.Name == "" {
			continue // fila vacía dejada por el cliente
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReplaceRows sobreescribe por completo la hoja de la categoría: la borra,
// la recrea y escribe cabecera más filas. Si el libro no existe lo crea.
func (s *WorkbookStore) ReplaceRows(_ context.Context, category string, rows []entity.RemoteRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, created, err := s.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(category); err == nil && idx >= 0 {
		if len(f.GetSheetList()) == 1 {
			if _, err := f.NewSheet(placeholderSheet); err != nil {
				return fmt.Errorf("hoja de relleno: %w", err)
			}
		}
		if err := f.DeleteSheet(category); err != nil {
			return fmt.Errorf("borrar hoja %s: %w", category, err)
		}
	}
	if _, err := f.NewSheet(category); err != nil {
		return fmt.Errorf("crear hoja %s: %w", category, err)
	}

	for i, h := range entity.RemoteHeader {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(category, cellName, h); err != nil {
			return fmt.Errorf("escribir cabecera: %w", err)
		}
	}
	for r, row := range rows {
		values := []string{row.No, row.Name, row.Prev, row.Current, row.Order, row.Price, row.Status}
		for c, v := range values {
			cellName, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(category, cellName, v); err != nil {
				return fmt.Errorf("escribir fila %d: %w", r+2, err)
			}
		}
	}

	// La hoja de relleno no debe aparecerle al cliente como categoría.
	if category != placeholderSheet && len(f.GetSheetList()) > 1 {
		if idx, err := f.GetSheetIndex(placeholderSheet); err == nil && idx >= 0 {
			_ = f.DeleteSheet(placeholderSheet)
		}
	}

	if created {
		if err := f.SaveAs(s.path); err != nil {
			return fmt.Errorf("guardar libro nuevo: %w", err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("guardar libro: %w", err)
	}
	return nil
}

// openOrCreate abre el libro existente o arranca uno vacío en memoria.
func (s *WorkbookStore) openOrCreate() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(s.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("abrir libro: %w", err)
}

// cell devuelve la columna i de una fila posiblemente corta.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
