package entity

import "github.com/shopspring/decimal"

// StockStatus clasificación derivada del stock actual frente al mínimo.
type StockStatus string

const (
	StockOK  StockStatus = "ok"
	StockLow StockStatus = "low"
	StockOut StockStatus = "out"
)

// Label texto para mostrar al operador.
func (s StockStatus) Label() string {
	switch s {
	case StockOut:
		return "Agotado"
	case StockLow:
		return "Stock bajo"
	default:
		return "En stock"
	}
}

// InventoryStats agregados del catálogo. LowStockCount excluye los agotados.
type InventoryStats struct {
	TotalItems      int
	LowStockCount   int
	OutOfStockCount int
	TotalValue      decimal.Decimal
}

// ReplenishmentSuggestion sugerencia de pedido para un producto bajo su punto de reorden.
type ReplenishmentSuggestion struct {
	ItemID        string
	Name          string
	Barcode       string
	Supplier      string
	Status        StockStatus
	CurrentStock  int
	MinStock      int
	IdealStock    int             // ceil(MinStock * 1.5)
	SuggestedQty  int             // IdealStock - CurrentStock
	EstimatedCost decimal.Decimal // SuggestedQty * Price
	Priority      int             // 1 = más urgente
}
