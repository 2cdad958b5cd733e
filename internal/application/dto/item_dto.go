package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-local/internal/domain/inventory"
)

// CreateItemRequest entrada para registrar un producto.
// Barcode ausente (null) usa el código pendiente del escaneo.
type CreateItemRequest struct {
	Barcode      *string         `json:"barcode"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	CurrentStock int             `json:"current_stock"`
	MinStock     int             `json:"min_stock"`
	Price        decimal.Decimal `json:"price"`
	Supplier     *string         `json:"supplier"`
}

// ToDraft convierte a borrador de dominio.
func (r CreateItemRequest) ToDraft() entity.ItemDraft {
	return entity.ItemDraft{
		Barcode:      r.Barcode,
		Name:         r.Name,
		Category:     r.Category,
		CurrentStock: r.CurrentStock,
		MinStock:     r.MinStock,
		Price:        r.Price,
		Supplier:     r.Supplier,
	}
}

// UpdateItemRequest edición parcial (sin stock actual, que se maneja con ajustes).
type UpdateItemRequest struct {
	Barcode  *string          `json:"barcode"`
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	MinStock *int             `json:"min_stock"`
	Price    *decimal.Decimal `json:"price"`
	Supplier *string          `json:"supplier"`
}

// ToPatch convierte a edición de dominio.
func (r UpdateItemRequest) ToPatch() entity.ItemPatch {
	return entity.ItemPatch{
		Barcode:  r.Barcode,
		Name:     r.Name,
		Category: r.Category,
		MinStock: r.MinStock,
		Price:    r.Price,
		Supplier: r.Supplier,
	}
}

// AdjustStockRequest body para POST /api/items/:id/stock.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// ItemResponse salida de un producto con sus valores derivados.
type ItemResponse struct {
	ID           string    `json:"id"`
	Barcode      *string   `json:"barcode"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	CurrentStock int       `json:"current_stock"`
	MinStock     int       `json:"min_stock"`
	Price        string    `json:"price"`
	Supplier     *string   `json:"supplier"`
	DateAdded    time.Time `json:"date_added"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	LineValue    string    `json:"line_value"` // redondeado a 2 decimales
}

// ItemListResponse listado (filtrado o completo) de productos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
	Query string         `json:"query,omitempty"`
}

// StatsResponse agregados del catálogo.
type StatsResponse struct {
	TotalItems      int    `json:"total_items"`
	LowStockCount   int    `json:"low_stock_count"`
	OutOfStockCount int    `json:"out_of_stock_count"`
	TotalValue      string `json:"total_value"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo o agotado.
type ReplenishmentSuggestionDTO struct {
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	Barcode       string `json:"barcode,omitempty"`
	Supplier      string `json:"supplier,omitempty"`
	Status        string `json:"status"`
	CurrentStock  int    `json:"current_stock"`
	MinStock      int    `json:"min_stock"`
	IdealStock    int    `json:"ideal_stock"`    // ceil(MinStock * 1.5)
	SuggestedQty  int    `json:"suggested_qty"`  // IdealStock - CurrentStock
	EstimatedCost string `json:"estimated_cost"` // SuggestedQty * Price
	Priority      int    `json:"priority"`       // 1 = más urgente
}

// NotificationResponse aviso para el operador.
type NotificationResponse struct {
	Message  string    `json:"message"`
	Severity string    `json:"severity"`
	Code     string    `json:"code"`
	At       time.Time `json:"at"`
}

// ToItemResponse arma la salida con estado y valor de línea.
func ToItemResponse(it entity.Item) ItemResponse {
	status := domaininv.StockStatus(it)
	return ItemResponse{
		ID:           it.ID,
		Barcode:      it.Barcode,
		Name:         it.Name,
		Category:     it.Category,
		CurrentStock: it.CurrentStock,
		MinStock:     it.MinStock,
		Price:        domaininv.DisplayMoney(it.Price),
		Supplier:     it.Supplier,
		DateAdded:    it.DateAdded,
		Status:       string(status),
		StatusLabel:  status.Label(),
		LineValue:    domaininv.DisplayMoney(domaininv.LineValue(it)),
	}
}

// ToItemList arma el listado.
func ToItemList(items []entity.Item, query string) ItemListResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemResponse(it))
	}
	return ItemListResponse{Items: out, Total: len(out), Query: query}
}

// ToStatsResponse agregados con el valor redondeado.
func ToStatsResponse(s entity.InventoryStats) StatsResponse {
	return StatsResponse{
		TotalItems:      s.TotalItems,
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
		TotalValue:      domaininv.DisplayMoney(s.TotalValue),
	}
}

// ToReplenishmentList convierte las sugerencias.
func ToReplenishmentList(list []entity.ReplenishmentSuggestion) []ReplenishmentSuggestionDTO {
	out := make([]ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, ReplenishmentSuggestionDTO{
			ItemID:        s.ItemID,
			Name:          s.Name,
			Barcode:       s.Barcode,
			Supplier:      s.Supplier,
			Status:        string(s.Status),
			CurrentStock:  s.CurrentStock,
			MinStock:      s.MinStock,
			IdealStock:    s.IdealStock,
			SuggestedQty:  s.SuggestedQty,
			EstimatedCost: domaininv.DisplayMoney(s.EstimatedCost),
			Priority:      s.Priority,
		})
	}
	return out
}

// ToNotifications convierte avisos.
func ToNotifications(list []entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationResponse{Message: n.Message, Severity: string(n.Severity), Code: n.Code, At: n.At})
	}
	return out
}
