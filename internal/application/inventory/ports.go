package inventory

import (
	"context"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// Notifier recibe los resultados tipados que se muestran al operador.
type Notifier interface {
	Notify(n entity.Notification)
}

// Confirmer pide confirmación al operador antes de una acción irreversible.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// ReportGenerator genera la representación imprimible del inventario.
type ReportGenerator interface {
	GenerateStockReport(ctx context.Context, items []entity.Item, stats entity.InventoryStats) ([]byte, error)
}
