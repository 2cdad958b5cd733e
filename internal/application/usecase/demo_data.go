package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// demoDrafts catálogo de ejemplo para el primer uso.
func demoDrafts() []entity.ItemDraft {
	str := func(s string) *string { return &s }
	return []entity.ItemDraft{
		{
			Name:         "Kimchi",
			Category:     "Refrigerated",
			CurrentStock: 15,
			MinStock:     5,
			Price:        decimal.RequireFromString("8.99"),
			Supplier:     str("KFT Wholesale"),
			Barcode:      str("1234567890123"),
		},
		{
			Name:         "Shin Ramyun",
			Category:     "Noodles",
			CurrentStock: 2,
			MinStock:     10,
			Price:        decimal.RequireFromString("1.50"),
			Supplier:     str("Korea Food Trading"),
			Barcode:      str("8801043001441"),
		},
		{
			Name:         "Gochujang",
			Category:     "Seasonings",
			CurrentStock: 8,
			MinStock:     3,
			Price:        decimal.RequireFromString("4.99"),
			Supplier:     str("Manna Food"),
			Barcode:      str("8801056412345"),
		},
	}
}
