package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// StockStatus clasifica el stock de un producto (servicio de dominio, sin efectos).
// Agotado si stock == 0; bajo si 0 < stock <= mínimo (el empate cuenta como bajo); si no, OK.
func StockStatus(item entity.Item) entity.StockStatus {
	if item.CurrentStock <= 0 {
		return entity.StockOut
	}
	if item.CurrentStock <= item.MinStock {
		return entity.StockLow
	}
	return entity.StockOK
}

// LineValue = CurrentStock * Price, sin redondear.
func LineValue(item entity.Item) decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.CurrentStock)))
}

// DisplayMoney redondea a dos decimales solo para mostrar.
func DisplayMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AggregateStats recalcula los agregados del catálogo.
func AggregateStats(items []entity.Item) entity.InventoryStats {
	stats := entity.InventoryStats{TotalItems: len(items), TotalValue: decimal.Zero}
	for _, it := range items {
		switch StockStatus(it) {
		case entity.StockLow:
			stats.LowStockCount++
		case entity.StockOut:
			stats.OutOfStockCount++
		}
		stats.TotalValue = stats.TotalValue.Add(LineValue(it))
	}
	return stats
}
