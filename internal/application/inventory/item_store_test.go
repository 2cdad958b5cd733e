package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-local/internal/application/inventory"
	"github.com/jhoicas/inventario-local/internal/domain"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

const testKey = "koreanMarketInventory"

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

// fakeBlobs BlobStore en memoria con fallos configurables.
type fakeBlobs struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	setCall int
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{data: map[string][]byte{}} }

func (f *fakeBlobs) Get(_ context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeBlobs) Set(_ context.Context, key string, data []byte) error {
	f.setCall++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = append([]byte(nil), data...)
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func newStore(blobs *fakeBlobs) *inventory.ItemStore {
	return inventory.NewItemStore(blobs, testKey,
		inventory.WithClock(func() time.Time { return fixedNow }),
		inventory.WithIDGenerator(sequentialIDs()),
	)
}

func strPtr(s string) *string { return &s }

func kimchiDraft() entity.ItemDraft {
	return entity.ItemDraft{
		Barcode:      strPtr("1234567890123"),
		Name:         "Kimchi",
		Category:     "Refrigerated",
		CurrentStock: 15,
		MinStock:     5,
		Price:        decimal.RequireFromString("8.99"),
		Supplier:     strPtr("KFT Wholesale"),
	}
}

func TestItemStore_AddKimchi(t *testing.T) {
	blobs := newFakeBlobs()
	s := newStore(blobs)
	ctx := context.Background()

	item, err := s.Add(ctx, kimchiDraft())
	require.NoError(t, err)

	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, fixedNow, item.DateAdded)
	assert.Equal(t, 1, s.Len())
	assert.Contains(t, string(blobs.data[testKey]), `"1234567890123"`)
}

func TestItemStore_DuplicateBarcode(t *testing.T) {
	s := newStore(newFakeBlobs())
	ctx := context.Background()

	_, err := s.Add(ctx, kimchiDraft())
	require.NoError(t, err)

	other := kimchiDraft()
	other.Name = "Kimchi grande"
	_, err = s.Add(ctx, other)
	assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)
	assert.Equal(t, 1, s.Len())
}

func TestItemStore_UnicidadDeIDs(t *testing.T) {
	// el generador repite ids: el store debe pedir otro
	ids := []string{"a", "a", "b", "b", "c"}
	i := 0
	s := inventory.NewItemStore(newFakeBlobs(), testKey, inventory.WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))
	ctx := context.Background()

	for n := 0; n < 3; n++ {
		d := kimchiDraft()
		d.Barcode = nil
		_, err := s.Add(ctx, d)
		require.NoError(t, err)
	}
	seen := map[string]bool{}
	for _, it := range s.Items() {
		assert.False(t, seen[it.ID], "id repetido %s", it.ID)
		seen[it.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestItemStore_SinCodigoDeBarrasNoColisiona(t *testing.T) {
	s := newStore(newFakeBlobs())
	ctx := context.Background()

	for _, bc := range []*string{nil, strPtr(""), strPtr("   ")} {
		d := kimchiDraft()
		d.Barcode = bc
		item, err := s.Add(ctx, d)
		require.NoError(t, err)
		assert.Nil(t, item.Barcode)
	}
	assert.Equal(t, 3, s.Len())
}

func TestItemStore_Validacion(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*entity.ItemDraft)
	}{
		{"name", func(d *entity.ItemDraft) { d.Name = "  " }},
		{"category", func(d *entity.ItemDraft) { d.Category = "" }},
		{"currentStock", func(d *entity.ItemDraft) { d.CurrentStock = -1 }},
		{"minStock", func(d *entity.ItemDraft) { d.MinStock = -3 }},
		{"price", func(d *entity.ItemDraft) { d.Price = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			blobs := newFakeBlobs()
			s := newStore(blobs)
			d := kimchiDraft()
			tt.mutate(&d)

			_, err := s.Add(context.Background(), d)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, s.Len())
			assert.Zero(t, blobs.setCall)
		})
	}
}

func TestItemStore_AdjustStockNuncaNegativo(t *testing.T) {
	s := newStore(newFakeBlobs())
	ctx := context.Background()
	item, err := s.Add(ctx, kimchiDraft())
	require.NoError(t, err)

	for _, delta := range []int{-1, +3, -20, -1, +2, -7} {
		res, err := s.AdjustStock(ctx, item.ID, delta)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Item.CurrentStock, 0)
	}
}

func TestItemStore_AdjustStockAgotado(t *testing.T) {
	s := newStore(newFakeBlobs())
	ctx := context.Background()
	item, err := s.Add(ctx, kimchiDraft())
	require.NoError(t, err)

	res, err := s.AdjustStock(ctx, item.ID, -20)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Item.CurrentStock)
	assert.Equal(t, entity.StockOut, res.Status)

	res, err = s.AdjustStock(ctx, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, entity.StockLow, res.Status)
}

func TestItemStore_NotFound(t *testing.T) {
	s := newStore(newFakeBlobs())
	ctx := context.Background()

	_, err := s.AdjustStock(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Update(ctx, "nope", entity.ItemPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Delete(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.FindByID("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.FindByBarcode("")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStore_Update(t *testing.T) {
	s := newStore(newFakeBlobs())
	ctx := context.Background()
	kimchi, err := s.Add(ctx, kimchiDraft())
	require.NoError(t, err)
	ramyun, err := s.Add(ctx, entity.ItemDraft{
		Barcode: strPtr("8801043001441"), Name: "Shin Ramyun", Category: "Noodles",
		CurrentStock: 2, MinStock: 10, Price: decimal.RequireFromString("1.50"),
	})
	require.NoError(t, err)

	// conservar su propio código no es un duplicado
	price := decimal.RequireFromString("9.50")
	updated, err := s.Update(ctx, kimchi.ID, entity.ItemPatch{
		Barcode:  strPtr("1234567890123"),
		Price:    &price,
		Supplier: strPtr(""),
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.Nil(t, updated.Supplier)
	assert.Equal(t, 15, updated.CurrentStock)
	assert.Equal(t, kimchi.DateAdded, updated.DateAdded)

	_, err = s.Update(ctx, ramyun.ID, entity.ItemPatch{Barcode: strPtr("1234567890123")})
	assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)

	empty := ""
	_, err = s.Update(ctx, ramyun.ID, entity.ItemPatch{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := s.FindByID(ramyun.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shin Ramyun", got.Name)
}

func TestItemStore_DeleteYFindByBarcode(t *testing.T) {
	s := newStore(newFakeBlobs())
	ctx := context.Background()
	item, err := s.Add(ctx, kimchiDraft())
	require.NoError(t, err)

	found, err := s.FindByBarcode(" 1234567890123 ")
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)

	removed, err := s.Delete(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kimchi", removed.Name)
	assert.Zero(t, s.Len())

	_, err = s.FindByBarcode("1234567890123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStore_FalloDePersistenciaConservaMemoria(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.setErr = errors.New("quota exceeded")
	s := newStore(blobs)
	ctx := context.Background()

	item, err := s.Add(ctx, kimchiDraft())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, "Kimchi", item.Name)
	assert.Equal(t, 1, s.Len())

	res, err := s.AdjustStock(ctx, item.ID, -1)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 14, res.Item.CurrentStock)

	// la siguiente escritura exitosa guarda todo
	blobs.setErr = nil
	_, err = s.AdjustStock(ctx, item.ID, -1)
	require.NoError(t, err)

	reloaded := newStore(blobs)
	require.NoError(t, reloaded.Load(ctx))
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 13, items[0].CurrentStock)
}

func TestItemStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("clave ausente", func(t *testing.T) {
		s := newStore(newFakeBlobs())
		require.NoError(t, s.Load(ctx))
		assert.Zero(t, s.Len())
	})

	t.Run("datos corruptos", func(t *testing.T) {
		blobs := newFakeBlobs()
		blobs.data[testKey] = []byte("not json")
		s := newStore(blobs)
		err := s.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrDataCorruption)
		assert.Zero(t, s.Len())
	})

	t.Run("fallo de lectura", func(t *testing.T) {
		blobs := newFakeBlobs()
		blobs.getErr = errors.New("disk error")
		s := newStore(blobs)
		err := s.Load(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrDataCorruption)
		assert.Zero(t, s.Len())
	})
}

func TestItemStore_SeedRevierteSiFalla(t *testing.T) {
	blobs := newFakeBlobs()
	s := newStore(blobs)
	ctx := context.Background()

	bad := kimchiDraft()
	bad.Name = ""
	_, err := s.Seed(ctx, []entity.ItemDraft{kimchiDraft(), bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, s.Len())
	assert.Zero(t, blobs.setCall)

	added, err := s.Seed(ctx, []entity.ItemDraft{kimchiDraft()})
	require.NoError(t, err)
	assert.Len(t, added, 1)
	assert.Equal(t, 1, blobs.setCall)
}

func TestItemStore_ItemsDevuelveCopias(t *testing.T) {
	s := newStore(newFakeBlobs())
	_, err := s.Add(context.Background(), kimchiDraft())
	require.NoError(t, err)

	items := s.Items()
	*items[0].Barcode = "000"
	items[0].Name = "otro"

	again := s.Items()
	assert.Equal(t, "Kimchi", again[0].Name)
	assert.Equal(t, "1234567890123", again[0].BarcodeValue())
}
