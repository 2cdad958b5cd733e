package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un producto (SKU) del catálogo local.
// ID y DateAdded son inmutables; CurrentStock nunca es negativo.
type Item struct {
	ID           string
	Barcode      *string // opcional, único entre los productos que lo tienen
	Name         string
	Category     string
	CurrentStock int
	MinStock     int             // punto de reorden
	Price        decimal.Decimal // precio unitario
	Supplier     *string
	DateAdded    time.Time
}

// HasBarcode indica si el producto tiene código de barras asignado.
func (i Item) HasBarcode() bool { return i.Barcode != nil && *i.Barcode != "" }

// BarcodeValue devuelve el código de barras o "" si no tiene.
func (i Item) BarcodeValue() string {
	if i.Barcode == nil {
		return ""
	}
	return *i.Barcode
}

// SupplierValue devuelve el proveedor o "" si no tiene.
func (i Item) SupplierValue() string {
	if i.Supplier == nil {
		return ""
	}
	return *i.Supplier
}

// Clone copia el producto incluyendo los punteros opcionales.
func (i Item) Clone() Item {
	out := i
	if i.Barcode != nil {
		b := *i.Barcode
		out.Barcode = &b
	}
	if i.Supplier != nil {
		s := *i.Supplier
		out.Supplier = &s
	}
	return out
}

// ItemDraft datos de entrada para crear un producto (antes de validar).
type ItemDraft struct {
	Barcode      *string
	Name         string
	Category     string
	CurrentStock int
	MinStock     int
	Price        decimal.Decimal
	Supplier     *string
}

// ItemPatch edición parcial de un producto. Los campos nil no se modifican.
// CurrentStock solo cambia vía ajuste de stock.
type ItemPatch struct {
	Barcode  *string // "" elimina el código de barras
	Name     *string
	Category *string
	MinStock *int
	Price    *decimal.Decimal
	Supplier *string // "" elimina el proveedor
}
