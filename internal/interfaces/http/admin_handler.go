package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// AdminHandler expone las operaciones administrativas y de auditoría del
// kardex (protegido, solo rol admin).
type AdminHandler struct {
	uc  *ledger.UseCase
	log *logger.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *ledger.UseCase, log *logger.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, log: log}
}

// VerifyTransfer godoc
// @Summary      Auditar un grupo de traslado
// @Description  Verifica que el grupo tenga exactamente dos patas
//               (TRANSFER_OUT + TRANSFER_IN) que neteen a cero. Detecta, no
//               corrige: una violación se reporta para revisión del operador.
// @Tags         admin
// @Security     Bearer
// @Param        group_id  path  string  true  "ID del grupo de traslado"
// @Success      200  {object}  ledger.TransferReport
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  ledger.TransferReport
// @Router       /api/admin/transfers/{group_id}/verify [get]
func (h *AdminHandler) VerifyTransfer(c *fiber.Ctx) error {
	report, err := h.uc.VerifyTransfer(c.Context(), c.Params("group_id"))
	if err != nil {
		if errors.Is(err, domain.ErrIntegrityViolation) {
			h.log.Warn().
				Str("transfer_group", report.TransferGroup).
				Strs("violations", report.Violations).
				Msg("violación de integridad en grupo de traslado")
			return c.Status(fiber.StatusConflict).JSON(report)
		}
		return respondError(c, err)
	}
	return c.JSON(report)
}

// VerifyBalances godoc
// @Summary      Verificar saldos materializados contra el ledger
// @Description  Contraparte de solo lectura del rebuild: compara cada saldo
//               con una agregación fresca del ledger y lista las diferencias.
// @Tags         admin
// @Security     Bearer
// @Success      200  {array}  ledger.BalanceDiscrepancy
// @Router       /api/admin/balances/verify [get]
func (h *AdminHandler) VerifyBalances(c *fiber.Ctx) error {
	diffs, err := h.uc.VerifyBalances(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if len(diffs) > 0 {
		h.log.Warn().Int("discrepancies", len(diffs)).Msg("saldos materializados difieren del ledger")
	}
	return c.JSON(fiber.Map{"total": len(diffs), "discrepancies": diffs})
}

// RebuildBalances godoc
// @Summary      Regenerar todos los saldos desde el ledger
// @Description  Operación de mantenimiento: descarta la vista materializada
//               y la recalcula reproduciendo el ledger. Ejecutar fuera del
//               camino de requests.
// @Tags         admin
// @Security     Bearer
// @Success      200  {object}  map[string]int
// @Router       /api/admin/balances/rebuild [post]
func (h *AdminHandler) RebuildBalances(c *fiber.Ctx) error {
	rebuilt, err := h.uc.RebuildBalances(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	h.log.Info().Int("balances", rebuilt).Str("actor", GetUserID(c)).Msg("saldos regenerados desde el ledger")
	return c.JSON(fiber.Map{"rebuilt": rebuilt})
}
