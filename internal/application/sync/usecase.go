package sync

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/store"
	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
	"github.com/jhoicas/namistock-host/pkg/logger"
)

// Límite de lecturas remotas en paralelo. Las hojas son independientes entre
// sí; el límite solo evita saturar el transporte.
const maxParallelReads = 4

// PullUseCase absorbe las ediciones del cliente de conteo desde la tabla
// remota hacia la colección local. Nunca crea artículos: una fila sin
// artículo local se ignora.
type PullUseCase struct {
	store  *store.ItemStore
	remote repository.RemoteStore
	log    *logger.Logger
}

// NewPullUseCase construye el caso de uso.
func NewPullUseCase(st *store.ItemStore, remote repository.RemoteStore, log *logger.Logger) *PullUseCase {
	return &PullUseCase{store: st, remote: remote, log: log}
}

// PullUpdates lee la hoja remota de cada categoría conocida y aplica las
// filas pendientes sobre los artículos locales. Los problemas por fila o por
// categoría nunca abortan la operación: se acumulan en el resultado y decide
// el caller si cero aplicadas es noticia.
//
// Una fila aplica si está marcada Pending o si trae algún valor no nulo en
// Current/Order. El parseo es campo por campo: un Current con basura no
// bloquea un Order válido. Ninguna mutación se observa hasta que todas las
// lecturas remotas confirmaron (sin aplicación especulativa).
func (uc *PullUseCase) PullUpdates(ctx context.Context) (dto.PullResultDTO, error) {
	categories := uc.store.Categories()
	result := dto.PullResultDTO{}

	type readOutcome struct {
		category string
		rows     []entity.RemoteRow
		err      error
	}

	outcomes := make([]readOutcome, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, cat := range categories {
		i, cat := i, cat
		g.Go(func() error {
			rows, err := uc.remote.ReadRows(gctx, cat)
			outcomes[i] = readOutcome{category: cat, rows: rows, err: err}
			return nil // los fallos por categoría no cancelan a las hermanas
		})
	}
	_ = g.Wait()

	// Clasificar fallos antes de tocar la colección.
	var pending []readOutcome
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			result.CategoriesRead++
			pending = append(pending, o)
		case errors.Is(o.err, domain.ErrSheetNotFound):
			// Hoja inexistente: no es fatal, la categoría aún no se publicó.
			result.MissingSheets = append(result.MissingSheets, o.category)
		default:
			uc.log.Warn().Err(o.err).Str("category", o.category).Msg("lectura remota fallida")
			result.FailedCategories = append(result.FailedCategories, o.category)
		}
	}
	sort.Strings(result.MissingSheets)
	sort.Strings(result.FailedCategories)

	err := uc.store.Mutate(func(c store.Collection) error {
		for _, o := range pending {
			for _, row := range o.rows {
				if !row.Pending() && !row.HasData() {
					continue // fila limpia y vacía: no se toca
				}
				item := c.Find(entity.ItemKey{Category: o.category, Name: row.Name})
				if item == nil {
					result.SkippedRows++
					continue
				}
				wrote := false
				if n, ok := entity.ParseCount(row.Current); ok {
					item.StockRemaining = n
					wrote = true
				}
				if n, ok := entity.ParseCount(row.Order); ok {
					item.OrderQty = n
					wrote = true
				}
				if wrote {
					result.Applied++
				}
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if result.Applied > 0 {
		if err := uc.store.Save(ctx); err != nil {
			return result, err
		}
	}

	uc.log.Info().
		Int("applied", result.Applied).
		Int("skipped_rows", result.SkippedRows).
		Int("categories_read", result.CategoriesRead).
		Int("failed", len(result.FailedCategories)).
		Msg("pull de actualizaciones completado")
	return result, nil
}
