package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/pkg/jwt"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger       *ledger.UseCase
	KardexReport *report.KardexReportUseCase
	Log          *logger.Logger
	JWTSecret    string
}

// Router registra las rutas de la API. Todas las rutas del kardex requieren
// Bearer Token; las administrativas exigen además rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	lotHandler := NewLotHandler(deps.Ledger, deps.KardexReport)
	stockHandler := NewStockHandler(deps.Ledger)
	adminHandler := NewAdminHandler(deps.Ledger, deps.Log)

	// Lotes: escritura para admin/almacenista, lectura también para auditor
	lots := api.Group("/lots")
	lots.Post("/", RequireRole(jwt.RoleAdmin, jwt.RoleAlmacenista), lotHandler.Create)
	lots.Get("/expiring", lotHandler.ListExpiring)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Patch("/:id", RequireRole(jwt.RoleAdmin, jwt.RoleAlmacenista), lotHandler.Update)
	lots.Get("/:id/balance", lotHandler.GetBalance)
	lots.Get("/:id/movements", lotHandler.GetHistory)
	lots.Get("/:id/kardex.pdf", lotHandler.KardexPDF)

	// Operaciones de stock (escritura)
	stock := api.Group("/stock", RequireRole(jwt.RoleAdmin, jwt.RoleAlmacenista))
	stock.Post("/transfers", stockHandler.Transfer)
	stock.Post("/consumptions", stockHandler.Consume)
	stock.Post("/scraps", stockHandler.Scrap)
	stock.Post("/adjustments", stockHandler.Adjust)

	// Administración/auditoría
	admin := api.Group("/admin", RequireRole(jwt.RoleAdmin))
	admin.Get("/transfers/:group_id/verify", adminHandler.VerifyTransfer)
	admin.Get("/balances/verify", adminHandler.VerifyBalances)
	admin.Post("/balances/rebuild", adminHandler.RebuildBalances)
}
