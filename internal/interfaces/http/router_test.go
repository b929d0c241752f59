package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/application/auth"
	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/application/report"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/infrastructure/memory"
	"github.com/jhoicas/insumos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/insumos-api/internal/interfaces/http"
)

const adminPassword = "clave-segura-123"

// newAPI arma la API completa sobre el store en memoria con un ADMIN activo.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	admin, err := usecase.NewStaffMember(dto.StaffRequest{
		Name: "Dra. Helena", CPF: "123.456.789-00", Email: "helena@clinica.test", Password: adminPassword,
	}, entity.RoleAdmin, true, time.Now())
	require.NoError(t, err)
	require.NoError(t, repos.Staff.Create(ctx, admin))

	authUC := auth.NewAuthUseCase(repos.Staff, nil, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})
	stockUC := inventory.NewStockMovementUseCase(store, repos.Items, repos.Batches, nil, nil)
	reportUC := report.NewReportUseCase(store.Reports(), repos.Items, pdf.NewConsumptionPDFGenerator("Clínica"))

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		ItemUC:     usecase.NewItemUseCase(repos.Items),
		SupplierUC: usecase.NewSupplierUseCase(repos.Suppliers),
		StaffUC:    usecase.NewStaffUseCase(repos.Staff, nil),
		StockUC:    stockUC,
		ReportUC:   reportUC,
		JWTSecret:  testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, raw := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestAPI_FlujoEntradaSalida(t *testing.T) {
	app := newAPI(t)
	token := login(t, app, "helena@clinica.test", adminPassword)

	resp, raw := call(t, app, http.MethodPost, "/api/items", token, map[string]any{
		"name": "Luva nitrílica", "category": entity.CategoryProtectiveEquipment, "unit_measure": entity.UnitBox,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, int64(0), item.Balance)
	assert.Equal(t, int64(entity.DefaultReorderThreshold), item.ReorderThreshold)

	resp, raw = call(t, app, http.MethodPost, "/api/suppliers", token, dto.SupplierRequest{Name: "Dental Sul"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var sup dto.SupplierResponse
	require.NoError(t, json.Unmarshal(raw, &sup))

	resp, raw = call(t, app, http.MethodPost, "/api/inventory/entries", token, map[string]any{
		"item_id": item.ID, "supplier_id": sup.ID, "quantity": 30, "total_cost": "150",
		"lot_number": "L-01", "expiry_date": "2030-01-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var entry dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, int64(30), entry.Item.Balance)
	assert.Equal(t, "5", entry.Item.AverageCost.String())
	assert.Equal(t, "2030-01-31", entry.Batch.ExpiryDate)

	// salida mayor que el saldo del lote
	resp, raw = call(t, app, http.MethodPost, "/api/inventory/exits", token, dto.ExitRequest{BatchID: entry.Batch.ID, Quantity: 40})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))
	var insufficient dto.InsufficientStockResponse
	require.NoError(t, json.Unmarshal(raw, &insufficient))
	assert.Equal(t, "INSUFFICIENT_STOCK", insufficient.Code)
	assert.Equal(t, int64(40), insufficient.Requested)
	assert.Equal(t, int64(30), insufficient.Available)

	resp, raw = call(t, app, http.MethodPost, "/api/inventory/exits", token, dto.ExitRequest{BatchID: entry.Batch.ID, Quantity: 10, Reason: "uso clínico"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var exit dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &exit))
	assert.Equal(t, int64(20), exit.Item.Balance)
	assert.Equal(t, int64(20), exit.Batch.RemainingQuantity)
	assert.Equal(t, "5", exit.Item.AverageCost.String())

	resp, raw = call(t, app, http.MethodGet, "/api/items/"+item.ID+"/batches", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var batches dto.ListResponse[dto.BatchResponse]
	require.NoError(t, json.Unmarshal(raw, &batches))
	require.Len(t, batches.Items, 1)

	resp, raw = call(t, app, http.MethodGet, "/api/reports/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var dash dto.DashboardResponse
	require.NoError(t, json.Unmarshal(raw, &dash))
	assert.Equal(t, "100", dash.InventoryValue.String())

	resp, _ = call(t, app, http.MethodGet, "/api/reports/consumption?format=pdf", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestAPI_ValidacionYErrores(t *testing.T) {
	app := newAPI(t)
	token := login(t, app, "helena@clinica.test", adminPassword)

	resp, raw := call(t, app, http.MethodPost, "/api/inventory/exits", token, map[string]any{"batch_id": "x", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var verr dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &verr))
	assert.Equal(t, "quantity", verr.Field)

	resp, _ = call(t, app, http.MethodPost, "/api/inventory/exits", token, dto.ExitRequest{BatchID: "no-existe", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPut, "/api/items/cualquiera", token, map[string]any{"balance": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_EntradaSinCostoTotalEsRechazada(t *testing.T) {
	app := newAPI(t)
	token := login(t, app, "helena@clinica.test", adminPassword)

	resp, raw := call(t, app, http.MethodPost, "/api/items", token, map[string]any{
		"name": "Gaze estéril", "category": entity.CategoryConsumable, "unit_measure": entity.UnitPackage,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &item))
	resp, raw = call(t, app, http.MethodPost, "/api/suppliers", token, dto.SupplierRequest{Name: "Cirúrgica Norte"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var sup dto.SupplierResponse
	require.NoError(t, json.Unmarshal(raw, &sup))

	entry := func(body map[string]any) (*http.Response, []byte) {
		body["item_id"], body["supplier_id"] = item.ID, sup.ID
		body["lot_number"], body["expiry_date"] = "G-7", "2031-03-01"
		return call(t, app, http.MethodPost, "/api/inventory/entries", token, body)
	}

	resp, raw = entry(map[string]any{"quantity": 10, "total_cost": "100"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var first dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &first))

	resp, raw = entry(map[string]any{"quantity": 10})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
	var verr dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &verr))
	assert.Equal(t, "total_cost", verr.Field)

	resp, raw = call(t, app, http.MethodGet, "/api/inventory/batches/"+first.Batch.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var batch dto.BatchResponse
	require.NoError(t, json.Unmarshal(raw, &batch))
	assert.Equal(t, int64(10), batch.RemainingQuantity)

	// un costo total explícito de cero (donación) sigue siendo válido
	resp, raw = entry(map[string]any{"quantity": 10, "total_cost": "0"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var donated dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &donated))
	assert.Equal(t, int64(20), donated.Item.Balance)
	assert.Equal(t, "5", donated.Item.AverageCost.String())
}

func TestAPI_RegistroPendienteYAprobacion(t *testing.T) {
	app := newAPI(t)
	admin := login(t, app, "helena@clinica.test", adminPassword)

	resp, raw := call(t, app, http.MethodPost, "/api/auth/register", "", dto.StaffRequest{
		Name: "Carlos", CPF: "987.654.321-00", Email: "carlos@clinica.test", Password: "otra-clave-123", Role: entity.RoleAdmin,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var reg dto.RegisterResponse
	require.NoError(t, json.Unmarshal(raw, &reg))
	assert.Equal(t, entity.RoleStandard, reg.Staff.Role)
	assert.False(t, reg.Staff.Active)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "carlos@clinica.test", Password: "otra-clave-123"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = call(t, app, http.MethodPost, "/api/staff/"+reg.Staff.ID+"/activate", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	standard := login(t, app, "carlos@clinica.test", "otra-clave-123")
	resp, raw = call(t, app, http.MethodPost, "/api/suppliers", standard, dto.SupplierRequest{Name: "Orto Brasil"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var sup dto.SupplierResponse
	require.NoError(t, json.Unmarshal(raw, &sup))

	resp, _ = call(t, app, http.MethodDelete, "/api/suppliers/"+sup.ID, standard, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, http.MethodDelete, "/api/suppliers/"+sup.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newAPI(t)
	resp, raw := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"status":"ok"`)
}
