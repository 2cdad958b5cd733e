package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-local/internal/application/dto"
	"github.com/jhoicas/inventario-local/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP del catálogo.
type ItemHandler struct {
	uc *usecase.InventoryUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.InventoryUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// List lista o filtra el catálogo.
// GET /api/items?q=texto
func (h *ItemHandler) List(c *fiber.Ctx) error {
	q := c.Query("q")
	return c.JSON(dto.ToItemList(h.uc.Search(q), q))
}

// Create registra un producto.
// POST /api/items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.AddItem(c.UserContext(), in.ToDraft())
	if markPersistence(c, err) {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(item))
}

// GetByID obtiene un producto.
// GET /api/items/:id
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// GetByBarcode consulta directa por código de barras.
// GET /api/items/barcode/:code
func (h *ItemHandler) GetByBarcode(c *fiber.Ctx) error {
	res := h.uc.LookupBarcode(c.Params("code"))
	if !res.Found {
		return c.Status(fiber.StatusNotFound).JSON(dto.ToLookupResponse(res))
	}
	return c.JSON(dto.ToLookupResponse(res))
}

// Update edita los campos descriptivos.
// PUT /api/items/:id
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateItem(c.UserContext(), c.Params("id"), in.ToPatch())
	if markPersistence(c, err) {
		return writeError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// AdjustStock suma o resta unidades.
// POST /api/items/:id/stock  {"delta": -1}
func (h *ItemHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.AdjustStock(c.UserContext(), c.Params("id"), in.Delta)
	if markPersistence(c, err) {
		return writeError(c, err)
	}
	return c.JSON(dto.ToItemResponse(res.Item))
}

// Delete elimina un producto; requiere ?confirm=true.
// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	ctx := WithConfirmation(c.UserContext(), c.QueryBool("confirm", false))
	err := h.uc.DeleteItem(ctx, c.Params("id"))
	if markPersistence(c, err) {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats agregados del inventario.
// GET /api/stats
func (h *ItemHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(dto.ToStatsResponse(h.uc.Stats()))
}

// Replenishment lista de reposición priorizada.
// GET /api/replenishment
func (h *ItemHandler) Replenishment(c *fiber.Ctx) error {
	return c.JSON(dto.ToReplenishmentList(h.uc.Replenishment()))
}

// Report reporte PDF del inventario.
// GET /api/report.pdf
func (h *ItemHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.StockReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario.pdf"`)
	return c.Send(pdf)
}
