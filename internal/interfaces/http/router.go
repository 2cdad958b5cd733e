package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-local/internal/application/usecase"
	"github.com/jhoicas/inventario-local/internal/infrastructure/notify"
	"github.com/jhoicas/inventario-local/internal/infrastructure/scanner"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *usecase.InventoryUseCase
	Recognizer  *scanner.ChannelRecognizer
	Feed        *notify.Feed
	Categories  []string
}

// Router registra las rutas de la API local.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	itemHandler := NewItemHandler(deps.InventoryUC)
	items := api.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Get("/barcode/:code", itemHandler.GetByBarcode)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/stock", itemHandler.AdjustStock)

	api.Get("/stats", itemHandler.Stats)
	api.Get("/replenishment", itemHandler.Replenishment)
	api.Get("/report.pdf", itemHandler.Report)
	api.Get("/categories", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"categories": deps.Categories})
	})

	notificationHandler := NewNotificationHandler(deps.Feed)
	api.Get("/notifications", notificationHandler.List)

	scanHandler := NewScanHandler(deps.InventoryUC, deps.Recognizer)
	scanGroup := api.Group("/scan")
	scanGroup.Get("/", scanHandler.State)
	scanGroup.Post("/add", scanHandler.StartAdd)
	scanGroup.Post("/lookup", scanHandler.StartLookup)
	scanGroup.Post("/stop", scanHandler.Stop)
	scanGroup.Post("/close", scanHandler.Close)
	scanGroup.Put("/mode", scanHandler.SetMode)
	scanGroup.Post("/manual", scanHandler.Manual)
	scanGroup.Post("/detections", scanHandler.Detection)
}
