package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/kardex-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/kardex-api/pkg/jwt"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App de integración: router completo sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

func buildKardexApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	uc := ledger.New(
		memory.NewTxRunner(store),
		memory.NewLotRepository(store),
		memory.NewMovementRepository(store),
		memory.NewBalanceRepository(store),
		nil,
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:       uc,
		KardexReport: report.NewKardexReportUseCase(uc, pdf.NewMarotoKardexGenerator()),
		Log:          logger.New(logger.Config{Env: "production", Level: "error"}),
		JWTSecret:    testJWTSecret,
	})
	return app
}

// doJSON lanza una petición con body JSON y el rol indicado.
func doJSON(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// createLotHTTP da de alta un lote de 100 unidades en BODEGA-A vía la API y
// devuelve su id.
func createLotHTTP(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/lots", pkgjwt.RoleAlmacenista, fiber.Map{
		"part_id":          "PART-001",
		"batch_code":       "LOTE-2026-001",
		"initial_quantity": "100",
		"initial_location": "BODEGA-A",
		"unit_cost":        "12.50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Lot struct {
			ID string `json:"id"`
		} `json:"lot"`
		Movement struct {
			Type     string `json:"type"`
			Quantity string `json:"quantity"`
		} `json:"movement"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Lot.ID)
	require.Equal(t, "RECEIPT", body.Movement.Type)
	return body.Lot.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: alta, traslado, consumo, saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoAltaTrasladoConsumoSaldo(t *testing.T) {
	app := buildKardexApp(t)
	lotID := createLotHTTP(t, app)

	// Traslado de 40 a BODEGA-B.
	resp := doJSON(t, app, http.MethodPost, "/api/stock/transfers", pkgjwt.RoleAlmacenista, fiber.Map{
		"lot_id":        lotID,
		"from_location": "BODEGA-A",
		"to_location":   "BODEGA-B",
		"quantity":      "40",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var transfer struct {
		TransferGroup string `json:"transfer_group"`
		Out           struct {
			Type     string `json:"type"`
			Quantity string `json:"quantity"`
		} `json:"out"`
		In struct {
			Type string `json:"type"`
		} `json:"in"`
	}
	decodeJSON(t, resp, &transfer)
	assert.NotEmpty(t, transfer.TransferGroup)
	assert.Equal(t, "TRANSFER_OUT", transfer.Out.Type)
	assert.Equal(t, "TRANSFER_IN", transfer.In.Type)

	// Consumo de 10 en destino.
	resp = doJSON(t, app, http.MethodPost, "/api/stock/consumptions", pkgjwt.RoleAlmacenista, fiber.Map{
		"lot_id":   lotID,
		"location": "BODEGA-B",
		"quantity": "10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Saldo: 60 en A, 30 en B, total 90.
	resp = doJSON(t, app, http.MethodGet, "/api/lots/"+lotID+"/balance", pkgjwt.RoleAuditor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balance struct {
		Total     string `json:"total"`
		Locations []struct {
			Location string `json:"location"`
			Quantity string `json:"quantity"`
		} `json:"locations"`
	}
	decodeJSON(t, resp, &balance)
	assert.Equal(t, "90", balance.Total)
	require.Len(t, balance.Locations, 2)

	// El grupo del traslado verifica limpio para el admin.
	resp = doJSON(t, app, http.MethodGet, "/api/admin/transfers/"+transfer.TransferGroup+"/verify", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verify struct {
		OK   bool `json:"ok"`
		Legs int  `json:"legs"`
	}
	decodeJSON(t, resp, &verify)
	assert.True(t, verify.OK)
	assert.Equal(t, 2, verify.Legs)
}

func TestAPI_SaldoInsuficienteRetorna409(t *testing.T) {
	app := buildKardexApp(t)
	lotID := createLotHTTP(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/consumptions", pkgjwt.RoleAlmacenista, fiber.Map{
		"lot_id":   lotID,
		"location": "BODEGA-A",
		"quantity": "101",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var body struct {
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestAPI_LoteInexistenteRetorna404(t *testing.T) {
	app := buildKardexApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/lots/no-existe/balance", pkgjwt.RoleAuditor, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RBAC sobre las rutas del kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_AuditorSoloLectura(t *testing.T) {
	app := buildKardexApp(t)
	lotID := createLotHTTP(t, app)

	// El auditor puede leer...
	resp := doJSON(t, app, http.MethodGet, "/api/lots/"+lotID+"/movements", pkgjwt.RoleAuditor, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// ...pero no escribir stock...
	resp = doJSON(t, app, http.MethodPost, "/api/stock/adjustments", pkgjwt.RoleAuditor, fiber.Map{
		"lot_id": lotID, "location": "BODEGA-A", "quantity": "-1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// ...ni tocar rutas administrativas.
	resp = doJSON(t, app, http.MethodPost, "/api/admin/balances/rebuild", pkgjwt.RoleAuditor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	app := buildKardexApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/lots/x/balance", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas administrativas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_AdminVerifyYRebuild(t *testing.T) {
	app := buildKardexApp(t)
	createLotHTTP(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/balances/verify", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verify struct {
		Total int `json:"total"`
	}
	decodeJSON(t, resp, &verify)
	assert.Equal(t, 0, verify.Total, "sin corrupción no debe haber discrepancias")

	resp = doJSON(t, app, http.MethodPost, "/api/admin/balances/rebuild", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rebuild struct {
		Rebuilt int `json:"rebuilt"`
	}
	decodeJSON(t, resp, &rebuild)
	assert.Equal(t, 1, rebuild.Rebuilt)
}
