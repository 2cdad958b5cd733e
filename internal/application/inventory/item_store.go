package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-local/internal/domain"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-local/internal/domain/inventory"
	"github.com/jhoicas/inventario-local/internal/domain/repository"
)

// ItemStore es dueño del catálogo en memoria y lo replica al BlobStore en cada mutación
// (write-through). No es seguro para uso concurrente: el controlador serializa el acceso.
type ItemStore struct {
	blobs repository.BlobStore
	key   string
	items []entity.Item
	now   func() time.Time
	newID func() string
}

// StoreOption personaliza el ItemStore (reloj e ids, usados en tests).
type StoreOption func(*ItemStore)

// WithClock reemplaza el reloj usado para DateAdded.
func WithClock(now func() time.Time) StoreOption {
	return func(s *ItemStore) { s.now = now }
}

// WithIDGenerator reemplaza el generador de ids.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *ItemStore) { s.newID = gen }
}

// NewItemStore construye el store con catálogo vacío; llamar Load para restaurar.
func NewItemStore(blobs repository.BlobStore, key string, opts ...StoreOption) *ItemStore {
	s := &ItemStore{
		blobs: blobs,
		key:   key,
		items: []entity.Item{},
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AdjustResult producto actualizado más el estado de stock derivado.
type AdjustResult struct {
	Item   entity.Item
	Status entity.StockStatus
}

// Load restaura el catálogo. Clave ausente → catálogo vacío sin error.
// Datos corruptos → catálogo vacío y error que envuelve ErrDataCorruption.
// Un fallo de lectura del backend también deja el catálogo vacío y se devuelve tal cual.
func (s *ItemStore) Load(ctx context.Context) error {
	s.items = []entity.Item{}
	data, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("leer catálogo %q: %w", s.key, err)
	}
	if !ok {
		return nil
	}
	items, err := DecodeCatalog(data)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// Items devuelve una copia del catálogo en orden de inserción.
func (s *ItemStore) Items() []entity.Item {
	out := make([]entity.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Clone())
	}
	return out
}

// Len cantidad de productos en el catálogo.
func (s *ItemStore) Len() int { return len(s.items) }

// Add valida el borrador, verifica unicidad del código de barras y agrega el producto al final.
// Si la persistencia falla, el producto queda agregado en memoria y se devuelve junto con
// un error que envuelve ErrPersistence.
func (s *ItemStore) Add(ctx context.Context, draft entity.ItemDraft) (entity.Item, error) {
	item, err := s.insert(draft)
	if err != nil {
		return entity.Item{}, err
	}
	return item, s.persist(ctx)
}

// Seed agrega varios borradores y persiste una sola vez. Si alguno es inválido no agrega ninguno.
func (s *ItemStore) Seed(ctx context.Context, drafts []entity.ItemDraft) ([]entity.Item, error) {
	before := len(s.items)
	added := make([]entity.Item, 0, len(drafts))
	for _, d := range drafts {
		it, err := s.insert(d)
		if err != nil {
			s.items = s.items[:before]
			return nil, err
		}
		added = append(added, it)
	}
	return added, s.persist(ctx)
}

func (s *ItemStore) insert(draft entity.ItemDraft) (entity.Item, error) {
	barcode := optionalTrimmed(draft.Barcode)
	item := entity.Item{
		Barcode:      barcode,
		Name:         strings.TrimSpace(draft.Name),
		Category:     strings.TrimSpace(draft.Category),
		CurrentStock: draft.CurrentStock,
		MinStock:     draft.MinStock,
		Price:        draft.Price,
		Supplier:     optionalTrimmed(draft.Supplier),
	}
	if err := validate(item); err != nil {
		return entity.Item{}, err
	}
	if barcode != nil && s.indexOfBarcode(*barcode, "") >= 0 {
		return entity.Item{}, domain.ErrDuplicateBarcode
	}

	item.ID = s.uniqueID()
	item.DateAdded = s.now().UTC()
	s.items = append(s.items, item)
	return item.Clone(), nil
}

// AdjustStock suma delta al stock y lo limita en cero. Devuelve el estado derivado para que
// el llamador avise si quedó bajo o agotado.
func (s *ItemStore) AdjustStock(ctx context.Context, id string, delta int) (AdjustResult, error) {
	idx := s.indexOfID(id)
	if idx < 0 {
		return AdjustResult{}, domain.ErrNotFound
	}
	next := s.items[idx].CurrentStock + delta
	if next < 0 {
		next = 0
	}
	s.items[idx].CurrentStock = next
	item := s.items[idx].Clone()
	return AdjustResult{Item: item, Status: domaininv.StockStatus(item)}, s.persist(ctx)
}

// Update aplica una edición parcial con la misma validación que Add.
func (s *ItemStore) Update(ctx context.Context, id string, patch entity.ItemPatch) (entity.Item, error) {
	idx := s.indexOfID(id)
	if idx < 0 {
		return entity.Item{}, domain.ErrNotFound
	}
	item := s.items[idx].Clone()
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.MinStock != nil {
		item.MinStock = *patch.MinStock
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Supplier != nil {
		item.Supplier = optionalTrimmed(patch.Supplier)
	}
	if patch.Barcode != nil {
		item.Barcode = optionalTrimmed(patch.Barcode)
	}
	if err := validate(item); err != nil {
		return entity.Item{}, err
	}
	if item.Barcode != nil && s.indexOfBarcode(*item.Barcode, id) >= 0 {
		return entity.Item{}, domain.ErrDuplicateBarcode
	}

	s.items[idx] = item
	return item.Clone(), s.persist(ctx)
}

// Delete elimina el producto (irreversible). La confirmación es responsabilidad del llamador.
func (s *ItemStore) Delete(ctx context.Context, id string) (entity.Item, error) {
	idx := s.indexOfID(id)
	if idx < 0 {
		return entity.Item{}, domain.ErrNotFound
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	return removed, s.persist(ctx)
}

// FindByID búsqueda lineal por id.
func (s *ItemStore) FindByID(id string) (entity.Item, error) {
	idx := s.indexOfID(id)
	if idx < 0 {
		return entity.Item{}, domain.ErrNotFound
	}
	return s.items[idx].Clone(), nil
}

// FindByBarcode búsqueda lineal por código de barras exacto.
func (s *ItemStore) FindByBarcode(barcode string) (entity.Item, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return entity.Item{}, domain.ErrNotFound
	}
	idx := s.indexOfBarcode(barcode, "")
	if idx < 0 {
		return entity.Item{}, domain.ErrNotFound
	}
	return s.items[idx].Clone(), nil
}

func (s *ItemStore) persist(ctx context.Context) error {
	data, err := EncodeCatalog(s.items)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := s.blobs.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *ItemStore) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOfID(id) < 0 {
			return id
		}
	}
}

func (s *ItemStore) indexOfID(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// indexOfBarcode ignora el producto exceptID (edición del propio producto).
func (s *ItemStore) indexOfBarcode(barcode, exceptID string) int {
	for i := range s.items {
		if s.items[i].ID != exceptID && s.items[i].Barcode != nil && *s.items[i].Barcode == barcode {
			return i
		}
	}
	return -1
}

func validate(it entity.Item) error {
	switch {
	case it.Name == "":
		return domain.NewValidationError("name", "ingrese el nombre del producto")
	case it.Category == "":
		return domain.NewValidationError("category", "seleccione una categoría")
	case it.CurrentStock < 0:
		return domain.NewValidationError("currentStock", "ingrese un stock actual válido")
	case it.MinStock < 0:
		return domain.NewValidationError("minStock", "ingrese un stock mínimo válido")
	case it.Price.IsNegative():
		return domain.NewValidationError("price", "ingrese un precio válido")
	}
	return nil
}

func optionalTrimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
