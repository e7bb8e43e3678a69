package cycle

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/history"
	"github.com/jhoicas/namistock-host/internal/application/store"
	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
	"github.com/jhoicas/namistock-host/internal/domain/repository"
	"github.com/jhoicas/namistock-host/pkg/logger"
)

// Límite de publicaciones remotas en paralelo al republicar la base.
const maxParallelWrites = 4

// CloseUseCase es el orquestador del cierre de ciclo: convierte los conteos
// frescos en la base del siguiente ciclo, calcula consumo y gasto, registra
// cada recepción en el log diario, guarda el historial del día y republica
// la base limpia en la tabla remota.
//
// El estado local se confirma incondicionalmente una vez calculado; la
// republicación remota es best-effort por categoría y sus fallos no hacen
// rollback ("local por delante de remoto" es una condición re-sincronizable).
type CloseUseCase struct {
	store    *store.ItemStore
	remote   repository.RemoteStore
	logRepo  repository.TransactionLogRepository
	recorder *history.RecordUseCase
	notifier repository.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewCloseUseCase construye el orquestador. notifier puede ser nil (sin aviso).
func NewCloseUseCase(
	st *store.ItemStore,
	remote repository.RemoteStore,
	logRepo repository.TransactionLogRepository,
	recorder *history.RecordUseCase,
	notifier repository.Notifier,
	log *logger.Logger,
) *CloseUseCase {
	return &CloseUseCase{
		store:    st,
		remote:   remote,
		logRepo:  logRepo,
		recorder: recorder,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// closeTotals acumulador del cierre.
type closeTotals struct {
	paid       decimal.Decimal
	usageValue decimal.Decimal
	stockValue decimal.Decimal
	updated    int
	entries    []entity.TransactionLogEntry
}

// CloseCycle cierra el ciclo de conteo actual.
//
// Dos poblaciones se procesan distinto:
//   - artículos con pedido (OrderQty > 0): la cantidad recibida sale de
//     receipts (por defecto, la pedida); generan entrada en el log diario.
//   - artículos solo contados (sin pedido, StockRemaining > 0): el conteo
//     fresco pasa a ser la nueva base, sin recepción.
//
// Un artículo no contado (StockRemaining == 0) no aporta señal de consumo.
// Tras el cierre todo artículo queda con StockRemaining == 0 y OrderQty == 0.
func (uc *CloseUseCase) CloseCycle(ctx context.Context, req dto.CloseCycleRequest) (dto.CloseResultDTO, error) {
	now := uc.now()
	date := now.Format(entity.DayFormat)

	var totals closeTotals
	err := uc.store.Mutate(func(c store.Collection) error {
		open := false
		for _, it := range c.Items() {
			if it.OrderQty > 0 || it.StockRemaining > 0 {
				open = true
				break
			}
		}
		if !open {
			return domain.ErrNoOpenCycle
		}
		totals = uc.applyLocked(c, req.Receipts, now)
		return nil
	})
	if err != nil {
		return dto.CloseResultDTO{}, err
	}

	// Estado local primero: la foto durable se confirma antes de cualquier
	// interacción remota.
	if err := uc.store.Save(ctx); err != nil {
		return dto.CloseResultDTO{}, err
	}

	if err := uc.appendDayLog(ctx, date, totals.entries); err != nil {
		// El log diario es secundario al estado principal: se reporta y sigue.
		uc.log.Error().Err(err).Msg("guardar log diario")
	}

	todaysLog, logErr := uc.logRepo.LoadDay(ctx, date)
	if logErr != nil {
		uc.log.Error().Err(logErr).Msg("leer log diario para historial")
		todaysLog = totals.entries
	}
	if _, err := uc.recorder.RecordDay(ctx, date, uc.store.Items(), todaysLog); err != nil {
		uc.log.Error().Err(err).Msg("registrar historial del día")
	}

	republishFailures := uc.republish(ctx)

	result := dto.CloseResultDTO{
		Date:              date,
		TotalPaid:         totals.paid.String(),
		TotalUsageValue:   totals.usageValue.String(),
		TotalStockValue:   totals.stockValue.String(),
		ItemsUpdated:      totals.updated,
		RepublishFailures: republishFailures,
	}

	uc.notify(ctx, result)

	uc.log.Info().
		Str("date", date).
		Str("total_paid", result.TotalPaid).
		Str("total_usage", result.TotalUsageValue).
		Str("total_stock", result.TotalStockValue).
		Int("items_updated", result.ItemsUpdated).
		Int("republish_failures", len(republishFailures)).
		Msg("ciclo cerrado")
	return result, nil
}

// applyLocked ejecuta las transiciones de contadores bajo el lock del store.
func (uc *CloseUseCase) applyLocked(c store.Collection, receipts map[string]string, now time.Time) closeTotals {
	totals := closeTotals{
		paid:       decimal.Zero,
		usageValue: decimal.Zero,
		stockValue: decimal.Zero,
	}

	for _, it := range c.Items() {
		switch {
		case it.OrderQty > 0:
			received := receiptFor(receipts, it.Key(), it.OrderQty)
			receivedValue := decimal.NewFromInt(int64(received)).Mul(it.UnitPrice)

			if it.Counted() {
				usage := it.PrevStock - it.StockRemaining
				if usage > 0 {
					totals.usageValue = totals.usageValue.Add(decimal.NewFromInt(int64(usage)).Mul(it.UnitPrice))
				}
				it.PrevStock = it.StockRemaining + received
			} else if it.PrevStock == 0 {
				// Primera recepción sin base previa: fijar, no sumar.
				it.PrevStock = received
			} else {
				it.PrevStock += received
			}

			totals.entries = append(totals.entries, entity.TransactionLogEntry{
				ID:          uuid.New().String(),
				Time:        now,
				Category:    it.Category,
				Name:        it.Name,
				OrderedQty:  it.OrderQty,
				ReceivedQty: received,
				Value:       receivedValue,
			})
			totals.paid = totals.paid.Add(receivedValue)
			it.StockRemaining = 0
			it.OrderQty = 0
			totals.updated++

		case it.StockRemaining > 0:
			usage := it.PrevStock - it.StockRemaining
			if usage > 0 {
				totals.usageValue = totals.usageValue.Add(decimal.NewFromInt(int64(usage)).Mul(it.UnitPrice))
			}
			it.PrevStock = it.StockRemaining
			it.StockRemaining = 0
			totals.updated++
		}
	}

	for _, it := range c.Items() {
		totals.stockValue = totals.stockValue.Add(it.StockValue())
	}
	return totals
}

// receiptFor resuelve la cantidad recibida de un artículo pedido: el valor
// del operador si es un entero válido, la cantidad pedida en caso contrario
// ("confiar en el pedido salvo corrección").
func receiptFor(receipts map[string]string, key entity.ItemKey, ordered int) int {
	raw, ok := receipts[key.String()]
	if !ok {
		return ordered
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return ordered
	}
	return n
}

// appendDayLog suma las entradas nuevas al log del día y lo persiste.
func (uc *CloseUseCase) appendDayLog(ctx context.Context, date string, entries []entity.TransactionLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	existing, err := uc.logRepo.LoadDay(ctx, date)
	if err != nil {
		return fmt.Errorf("cargar log del día: %w", err)
	}
	return uc.logRepo.SaveDay(ctx, date, append(existing, entries...))
}

// republish reescribe la hoja remota de cada categoría con la base limpia:
// cabecera más una fila por artículo local con Prev = base nueva, Current y
// Order en cero y Status Clean. Es el mecanismo que resetea la tabla del
// cliente para el siguiente ciclo; repetirlo sin cambios locales produce
// exactamente las mismas filas (republicación idempotente).
func (uc *CloseUseCase) republish(ctx context.Context) []string {
	snap := uc.store.Snapshot()

	failed := make([]string, 0)
	results := make([]error, len(snap.Categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWrites)
	for i, cat := range snap.Categories {
		i, cat := i, cat
		g.Go(func() error {
			results[i] = uc.republishCategory(gctx, cat, snap.Items)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		if err != nil {
			uc.log.Warn().Err(err).Str("category", snap.Categories[i]).Msg("republicación remota fallida")
			failed = append(failed, snap.Categories[i])
		}
	}
	sort.Strings(failed)
	if len(failed) == 0 {
		return nil
	}
	return failed
}

func (uc *CloseUseCase) republishCategory(ctx context.Context, category string, items []entity.Item) error {
	// Leer primero para arrastrar No/Price de filas que el host nunca rellenó.
	existing := map[string]entity.RemoteRow{}
	if rows, err := uc.remote.ReadRows(ctx, category); err == nil {
		for _, r := range rows {
			existing[r.Name] = r
		}
	}

	var rows []entity.RemoteRow
	for _, it := range items {
		if it.Category != category {
			continue
		}
		row := entity.RemoteRow{
			No:      it.ItemNumber,
			Name:    it.Name,
			Prev:    strconv.Itoa(it.PrevStock),
			Current: "0",
			Order:   "0",
			Price:   it.UnitPrice.String(),
			Status:  entity.StatusClean,
		}
		if prev, ok := existing[it.Name]; ok {
			if row.No == "" {
				row.No = prev.No
			}
			if it.UnitPrice.IsZero() && prev.Price != "" {
				row.Price = prev.Price
			}
		}
		rows = append(rows, row)
	}
	return uc.remote.ReplaceRows(ctx, category, rows)
}

// notify envía el resumen del cierre al destino externo. Fire-and-forget:
// el fallo solo se loguea.
func (uc *CloseUseCase) notify(ctx context.Context, res dto.CloseResultDTO) {
	if uc.notifier == nil {
		return
	}
	msg := fmt.Sprintf(
		"Cierre de ciclo %s\nTotal pedido: %s\nConsumo del ciclo: %s\nValor de stock: %s",
		res.Date, res.TotalPaid, res.TotalUsageValue, res.TotalStockValue,
	)
	if err := uc.notifier.Send(ctx, msg); err != nil {
		uc.log.Warn().Err(err).Msg("notificación de cierre fallida")
	}
}
