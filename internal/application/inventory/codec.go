package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-local/internal/domain"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// legacyDateLayout formato de fecha que guardaba la versión anterior (toLocaleDateString en-US).
const legacyDateLayout = "1/2/2006"

// itemRecord forma persistida de un producto (claves camelCase, compatibles con catálogos previos).
type itemRecord struct {
	ID           recordID        `json:"id"`
	Barcode      *string         `json:"barcode"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	CurrentStock int             `json:"currentStock"`
	MinStock     int             `json:"minStock"`
	Price        decimal.Decimal `json:"price"`
	Supplier     *string         `json:"supplier"`
	DateAdded    recordDate      `json:"dateAdded"`
}

// recordID acepta ids de texto y los ids numéricos de catálogos antiguos.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = recordID(n.String())
	return nil
}

type recordDate time.Time

func (d recordDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.RFC3339Nano))
}

func (d *recordDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("dateAdded: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*d = recordDate(t)
		return nil
	}
	t, err := time.Parse(legacyDateLayout, s)
	if err != nil {
		return fmt.Errorf("dateAdded %q: formato no reconocido", s)
	}
	*d = recordDate(t)
	return nil
}

// EncodeCatalog serializa el catálogo completo (orden de inserción).
func EncodeCatalog(items []entity.Item) ([]byte, error) {
	records := make([]itemRecord, 0, len(items))
	for _, it := range items {
		records = append(records, itemRecord{
			ID:           recordID(it.ID),
			Barcode:      it.Barcode,
			Name:         it.Name,
			Category:     it.Category,
			CurrentStock: it.CurrentStock,
			MinStock:     it.MinStock,
			Price:        it.Price,
			Supplier:     it.Supplier,
			DateAdded:    recordDate(it.DateAdded),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("codificar catálogo: %w", err)
	}
	return data, nil
}

// DecodeCatalog deserializa y valida el catálogo. Cualquier dato malformado o que rompa
// las invariantes (ids/códigos duplicados, stock negativo, campos vacíos) devuelve ErrDataCorruption.
func DecodeCatalog(data []byte) ([]entity.Item, error) {
	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataCorruption, err)
	}

	items := make([]entity.Item, 0, len(records))
	ids := make(map[string]struct{}, len(records))
	barcodes := make(map[string]struct{}, len(records))
	for i, r := range records {
		it := entity.Item{
			ID:           string(r.ID),
			Barcode:      optional(r.Barcode),
			Name:         r.Name,
			Category:     r.Category,
			CurrentStock: r.CurrentStock,
			MinStock:     r.MinStock,
			Price:        r.Price,
			Supplier:     optional(r.Supplier),
			DateAdded:    time.Time(r.DateAdded),
		}
		if err := checkRecord(it, ids, barcodes); err != nil {
			return nil, fmt.Errorf("%w: registro %d: %v", domain.ErrDataCorruption, i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func checkRecord(it entity.Item, ids, barcodes map[string]struct{}) error {
	if it.ID == "" {
		return fmt.Errorf("id vacío")
	}
	if _, dup := ids[it.ID]; dup {
		return fmt.Errorf("id duplicado %q", it.ID)
	}
	ids[it.ID] = struct{}{}
	if it.Barcode != nil {
		if _, dup := barcodes[*it.Barcode]; dup {
			return fmt.Errorf("código de barras duplicado %q", *it.Barcode)
		}
		barcodes[*it.Barcode] = struct{}{}
	}
	if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Category) == "" {
		return fmt.Errorf("nombre o categoría vacíos")
	}
	if it.CurrentStock < 0 || it.MinStock < 0 || it.Price.IsNegative() {
		return fmt.Errorf("valores negativos")
	}
	return nil
}

// optional trata "" igual que ausente.
func optional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
