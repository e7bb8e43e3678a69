package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/namistock-host/internal/application/auth"
	"github.com/jhoicas/namistock-host/internal/application/cycle"
	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/history"
	"github.com/jhoicas/namistock-host/internal/application/store"
	appsync "github.com/jhoicas/namistock-host/internal/application/sync"
	"github.com/jhoicas/namistock-host/internal/application/usecase"
	"github.com/jhoicas/namistock-host/internal/domain"
	"github.com/jhoicas/namistock-host/internal/domain/entity"
	apphttp "github.com/jhoicas/namistock-host/internal/interfaces/http"
	"github.com/jhoicas/namistock-host/pkg/logger"
)

type memSnapshotRepo struct {
	saved *entity.Snapshot
}

func (m *memSnapshotRepo) Load(context.Context) (*entity.Snapshot, error) { return m.saved, nil }
func (m *memSnapshotRepo) Save(_ context.Context, s *entity.Snapshot) error {
	m.saved = s
	return nil
}

type memRemote struct {
	sheets map[string][]entity.RemoteRow
}

func (m *memRemote) ReadRows(_ context.Context, category string) ([]entity.RemoteRow, error) {
	rows, ok := m.sheets[category]
	if !ok {
		return nil, domain.ErrSheetNotFound
	}
	return rows, nil
}

func (m *memRemote) ReplaceRows(_ context.Context, category string, rows []entity.RemoteRow) error {
	if m.sheets == nil {
		m.sheets = map[string][]entity.RemoteRow{}
	}
	m.sheets[category] = rows
	return nil
}

type memLogRepo struct {
	days map[string][]entity.TransactionLogEntry
}

func (m *memLogRepo) LoadDay(_ context.Context, date string) ([]entity.TransactionLogEntry, error) {
	return m.days[date], nil
}

func (m *memLogRepo) SaveDay(_ context.Context, date string, entries []entity.TransactionLogEntry) error {
	if m.days == nil {
		m.days = map[string][]entity.TransactionLogEntry{}
	}
	m.days[date] = entries
	return nil
}

type memHistoryRepo struct {
	records map[string]entity.HistoryRecord
}

func (m *memHistoryRepo) Upsert(_ context.Context, rec entity.HistoryRecord) error {
	if m.records == nil {
		m.records = map[string]entity.HistoryRecord{}
	}
	m.records[rec.Date] = rec
	return nil
}

func (m *memHistoryRepo) GetByDate(_ context.Context, date string) (*entity.HistoryRecord, error) {
	if rec, ok := m.records[date]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (m *memHistoryRepo) List(context.Context) ([]entity.HistoryRecord, error) {
	var out []entity.HistoryRecord
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

type fakeExtractor struct {
	drafts []dto.ExtractedItemDTO
	err    error
}

func (f *fakeExtractor) ExtractItems(context.Context, string) ([]dto.ExtractedItemDTO, error) {
	return f.drafts, f.err
}

type apiFixture struct {
	app    *fiber.App
	store  *store.ItemStore
	remote *memRemote
}

// buildAPI levanta la aplicación completa con el router real y fakes en memoria.
func buildAPI(t *testing.T, extractor *fakeExtractor) *apiFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	st := store.New(&memSnapshotRepo{})
	remote := &memRemote{sheets: map[string][]entity.RemoteRow{}}
	logRepo := &memLogRepo{}
	histRepo := &memHistoryRepo{}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	recorder := history.NewRecordUseCase(histRepo)

	if extractor == nil {
		extractor = &fakeExtractor{}
	}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Store:         st,
		Pull:          appsync.NewPullUseCase(st, remote, log),
		Close:         cycle.NewCloseUseCase(st, remote, logRepo, recorder, nil, log),
		Recorder:      recorder,
		LogRepo:       logRepo,
		SmartAdd:      usecase.NewSmartAddUseCase(extractor),
		Replenishment: usecase.NewReplenishmentUseCase(st),
		AuthUC: auth.NewUseCase(auth.Config{
			Operator:     testOperator,
			PasswordHash: string(hash),
			JWTSecret:    testJWTSecret,
			JWTIssuer:    testIssuer,
			ExpMinutes:   testExpMin,
		}),
		JWTSecret: testJWTSecret,
	})
	return &apiFixture{app: app, store: st, remote: remote}
}

// doJSON lanza una petición con cuerpo JSON opcional y token opcional.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// login autentica al operador de test y devuelve el token.
func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Operator: testOperator,
		Password: "secreto123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	f := buildAPI(t, nil)
	resp := doJSON(t, f.app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Operator: testOperator,
		Password: "incorrecta",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRutasProtegidas_SinToken_Retorna401(t *testing.T) {
	f := buildAPI(t, nil)
	resp := doJSON(t, f.app, http.MethodGet, "/api/items/", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCategorias_CRUD(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	resp := doJSON(t, f.app, http.MethodPost, "/api/categories/", token, dto.CategoryRequest{Name: "Drinks"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodPost, "/api/categories/", token, dto.CategoryRequest{Name: "Drinks"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "categoría duplicada")
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodGet, "/api/categories/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])

	resp = doJSON(t, f.app, http.MethodDelete, "/api/categories/Drinks", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodDelete, "/api/categories/Drinks", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestArticulos_AltaYValidacion(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	// Sin categoría previa: 404.
	resp := doJSON(t, f.app, http.MethodPost, "/api/items/", token, dto.ItemRequest{
		Category: "Drinks", Name: "Cola", PrevStock: 10, UnitPrice: "20",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodPost, "/api/categories/", token, dto.CategoryRequest{Name: "Drinks"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodPost, "/api/items/", token, dto.ItemRequest{
		Category: "Drinks", Name: "Cola", PrevStock: 10, UnitPrice: "20",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Precio no numérico: 400.
	resp = doJSON(t, f.app, http.MethodPost, "/api/items/", token, dto.ItemRequest{
		Category: "Drinks", Name: "Water", UnitPrice: "gratis",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodGet, "/api/items/?category=Drinks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])
}

func TestArticulos_Importacion(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	resp := doJSON(t, f.app, http.MethodPost, "/api/items/import", token, dto.ImportRequest{
		Categories: []string{"Drinks"},
		Items: []dto.ItemRequest{
			{Category: "Drinks", Name: "Cola", PrevStock: 10, UnitPrice: "20"},
			{Category: "Frozen", Name: "Peas", PrevStock: 2, UnitPrice: "5"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, []string{"Drinks", "Frozen"}, f.store.Categories())
}

func TestReplenishment_SugiereBajoMinimo(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	require.NoError(t, f.store.AddCategory("Drinks"))
	require.NoError(t, f.store.AddItem(entity.Item{
		Category: "Drinks", Name: "Cola", PrevStock: 2, MinStockTarget: 6, UnitPrice: decimal.NewFromInt(20),
	}))
	require.NoError(t, f.store.AddItem(entity.Item{
		Category: "Drinks", Name: "Water", PrevStock: 9, MinStockTarget: 5,
	}))

	resp := doJSON(t, f.app, http.MethodGet, "/api/items/replenishment", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"], "solo Cola está bajo su mínimo")
}

func TestSmartAdd_ValidacionYErrorDelExtractor(t *testing.T) {
	f := buildAPI(t, &fakeExtractor{err: errors.New("extractor caído")})
	token := login(t, f.app)

	resp := doJSON(t, f.app, http.MethodPost, "/api/items/smart-add", token, dto.SmartAddRequest{Text: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "texto vacío no llega al extractor")
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodPost, "/api/items/smart-add", token, dto.SmartAddRequest{Text: "2 colas a 20"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()
}

func TestSmartAdd_DevuelveBorradores(t *testing.T) {
	f := buildAPI(t, &fakeExtractor{drafts: []dto.ExtractedItemDTO{
		{Name: "Cola", PrevStock: 2, UnitPrice: "20"},
	}})
	token := login(t, f.app)

	resp := doJSON(t, f.app, http.MethodPost, "/api/items/smart-add", token, dto.SmartAddRequest{Text: "2 colas a 20"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total"])
	assert.Empty(t, f.store.Items(), "el alta inteligente solo propone, nunca escribe")
}

func TestSyncPull_AplicaEdicionesRemotas(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	require.NoError(t, f.store.AddCategory("Drinks"))
	require.NoError(t, f.store.AddItem(entity.Item{Category: "Drinks", Name: "Cola", PrevStock: 10}))
	f.remote.sheets["Drinks"] = []entity.RemoteRow{
		{Name: "Cola", Current: "4", Order: "2", Status: entity.StatusPending},
	}

	resp := doJSON(t, f.app, http.MethodPost, "/api/sync/pull", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["applied"])

	it, err := f.store.Find(entity.ItemKey{Category: "Drinks", Name: "Cola"})
	require.NoError(t, err)
	assert.Equal(t, 4, it.StockRemaining)
	assert.Equal(t, 2, it.OrderQty)
}

func TestCycleClose_SinCicloAbierto_Retorna409(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	resp := doJSON(t, f.app, http.MethodPost, "/api/cycle/close", token, dto.CloseCycleRequest{})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "NO_OPEN_CYCLE", body["code"])
}

func TestCycleClose_DevuelveTotales(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	require.NoError(t, f.store.AddCategory("Drinks"))
	require.NoError(t, f.store.AddItem(entity.Item{
		Category: "Drinks", Name: "Cola", PrevStock: 10, StockRemaining: 4, UnitPrice: decimal.NewFromInt(20),
	}))

	resp := doJSON(t, f.app, http.MethodPost, "/api/cycle/close", token, dto.CloseCycleRequest{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "120", body["total_usage_value"])
	assert.Equal(t, "80", body["total_stock_value"])
	assert.Equal(t, float64(1), body["items_updated"])
}

func TestHistory_FechaInvalidaYAusente(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	resp := doJSON(t, f.app, http.MethodGet, "/api/history/15-03-2026", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "el formato de fecha es YYYY-MM-DD")
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodGet, "/api/history/2026-03-15", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, f.app, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["total"])
}

func TestLogsToday_VacioSinCierres(t *testing.T) {
	f := buildAPI(t, nil)
	token := login(t, f.app)

	resp := doJSON(t, f.app, http.MethodGet, "/api/logs/today", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["total"])
}
