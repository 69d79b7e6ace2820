package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
)

// LotHandler maneja las peticiones HTTP de lotes (protegido).
type LotHandler struct {
	uc     *ledger.UseCase
	kardex *report.KardexReportUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *ledger.UseCase, kardex *report.KardexReportUseCase) *LotHandler {
	return &LotHandler{uc: uc, kardex: kardex}
}

// Create godoc
// @Summary      Crear lote con su recepción inicial
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "part_id, batch_code, initial_quantity, initial_location"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, receipt, err := h.uc.CreateLot(c.Context(), ledger.CreateLotInput{
		PartID:          in.PartID,
		BatchCode:       in.BatchCode,
		InitialQuantity: in.InitialQuantity,
		InitialLocation: in.InitialLocation,
		UnitCost:        in.UnitCost,
		ManufacturedAt:  in.ManufacturedAt,
		ExpiresAt:       in.ExpiresAt,
		Notes:           in.Notes,
		DocumentType:    in.DocumentType,
		DocumentRef:     in.DocumentRef,
		Actor:           GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"lot":      dto.NewLotResponse(lot),
		"movement": dto.NewMovementResponse(receipt),
	})
}

// Update godoc
// @Summary      Actualizar metadatos del lote (nunca cantidades)
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                true  "ID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "estado, costo, fechas, notas"
// @Success      200   {object}  dto.LotResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [patch]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lotID := c.Params("id")
	if err := h.uc.UpdateLotMetadata(c.Context(), lotID, in.Metadata()); err != nil {
		return respondError(c, err)
	}
	lot, err := h.uc.GetLot(c.Context(), lotID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewLotResponse(lot))
}

// GetByID godoc
// @Summary      Consultar un lote
// @Tags         lots
// @Security     Bearer
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	lot, err := h.uc.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewLotResponse(lot))
}

// GetBalance godoc
// @Summary      Saldos del lote por ubicación
// @Description  Con ?location= devuelve solo esa ubicación; sin el parámetro,
//               el desglose completo más el total del lote.
// @Tags         lots
// @Security     Bearer
// @Param        id        path   string  true   "ID del lote"
// @Param        location  query  string  false  "Ubicación puntual"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/balance [get]
func (h *LotHandler) GetBalance(c *fiber.Ctx) error {
	balances, err := h.uc.GetBalance(c.Context(), c.Params("id"), c.Query("location"))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.BalanceResponse{LotID: balances.LotID, Total: balances.Total}
	for _, b := range balances.Locations {
		resp.Locations = append(resp.Locations, dto.LocationBalance{
			Location:  b.Location,
			Quantity:  b.Quantity,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return c.JSON(resp)
}

// GetHistory godoc
// @Summary      Historial de movimientos del lote
// @Tags         lots
// @Security     Bearer
// @Param        id     path   string  true   "ID del lote"
// @Param        limit  query  int     false  "Máximo de movimientos (default 50)"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/movements [get]
func (h *LotHandler) GetHistory(c *fiber.Ctx) error {
	movs, err := h.uc.GetMovementHistory(c.Context(), c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(movs),
		"movements": dto.NewMovementResponses(movs),
	})
}

// ListExpiring godoc
// @Summary      Lotes activos próximos a vencer
// @Tags         lots
// @Security     Bearer
// @Param        days  query  int  false  "Horizonte en días (default 30)"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots/expiring [get]
func (h *LotHandler) ListExpiring(c *fiber.Ctx) error {
	days := c.QueryInt("days")
	if days <= 0 {
		days = 30
	}
	lots, err := h.uc.ListExpiring(c.Context(), time.Now().AddDate(0, 0, days))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, dto.NewLotResponse(lot))
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// KardexPDF godoc
// @Summary      Exportar el kardex del lote en PDF
// @Tags         lots
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/kardex.pdf [get]
func (h *LotHandler) KardexPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.kardex.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}
