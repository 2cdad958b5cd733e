package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

var idealFactor = decimal.NewFromFloat(1.5)

// Replenishment genera la lista de reposición para los productos bajos o agotados.
// Orden: agotados primero, luego mayor déficit frente al mínimo; el empate conserva el orden del catálogo.
func Replenishment(items []entity.Item) []entity.ReplenishmentSuggestion {
	out := make([]entity.ReplenishmentSuggestion, 0)
	for _, it := range items {
		status := StockStatus(it)
		if status == entity.StockOK {
			continue
		}
		ideal := int(decimal.NewFromInt(int64(it.MinStock)).Mul(idealFactor).Ceil().IntPart())
		if ideal == 0 {
			// Agotado sin mínimo configurado: al menos una unidad
			ideal = 1
		}
		qty := ideal - it.CurrentStock
		if qty < 0 {
			qty = 0
		}
		out = append(out, entity.ReplenishmentSuggestion{
			ItemID:        it.ID,
			Name:          it.Name,
			Barcode:       it.BarcodeValue(),
			Supplier:      it.SupplierValue(),
			Status:        status,
			CurrentStock:  it.CurrentStock,
			MinStock:      it.MinStock,
			IdealStock:    ideal,
			SuggestedQty:  qty,
			EstimatedCost: it.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Status == entity.StockOut) != (b.Status == entity.StockOut) {
			return a.Status == entity.StockOut
		}
		return a.MinStock-a.CurrentStock > b.MinStock-b.CurrentStock
	})

	for i := range out {
		out[i].Priority = i + 1
	}
	return out
}
