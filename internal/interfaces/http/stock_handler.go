package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
)

// StockHandler maneja las operaciones de stock: traslados, consumos, bajas y
// ajustes (protegido).
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Crea las dos patas del traslado (TRANSFER_OUT y TRANSFER_IN)
//               bajo un mismo grupo, en una sola transacción.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "lot_id, from_location, to_location, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	outMov, inMov, err := h.uc.Transfer(c.Context(), ledger.TransferInput{
		LotID:        in.LotID,
		FromLocation: in.FromLocation,
		ToLocation:   in.ToLocation,
		Quantity:     in.Quantity,
		DocumentType: in.DocumentType,
		DocumentRef:  in.DocumentRef,
		Note:         in.Note,
		Actor:        GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		TransferGroup: outMov.TransferGroup,
		Out:           dto.NewMovementResponse(outMov),
		In:            dto.NewMovementResponse(inMov),
	})
}

// Consume godoc
// @Summary      Registrar consumo de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.StockOperationRequest  true  "lot_id, location, quantity (positiva)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/consumptions [post]
func (h *StockHandler) Consume(c *fiber.Ctx) error {
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.Consume(c.Context(), in.LotID, in.Location, in.Quantity,
		in.DocumentType, in.DocumentRef, in.Note, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// Scrap godoc
// @Summary      Registrar baja/descarte de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.StockOperationRequest  true  "lot_id, location, quantity (positiva)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/scraps [post]
func (h *StockHandler) Scrap(c *fiber.Ctx) error {
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.Scrap(c.Context(), in.LotID, in.Location, in.Quantity,
		in.DocumentType, in.DocumentRef, in.Note, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// Adjust godoc
// @Summary      Registrar corrección manual de conteo
// @Description  La cantidad lleva el signo de la corrección: positiva suma,
//               negativa resta.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.StockOperationRequest  true  "lot_id, location, quantity (con signo), note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.Adjust(c.Context(), in.LotID, in.Location, in.Quantity,
		in.DocumentType, in.DocumentRef, in.Note, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}
