package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-local/internal/application/inventory"
	"github.com/jhoicas/inventario-local/internal/application/scan"
	"github.com/jhoicas/inventario-local/internal/application/usecase"
	"github.com/jhoicas/inventario-local/internal/domain"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
	"github.com/jhoicas/inventario-local/internal/infrastructure/scanner"
	"github.com/jhoicas/inventario-local/internal/infrastructure/storage"
)

const storageKey = "koreanMarketInventory"

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu  sync.Mutex
	got []entity.Notification
}

func (n *recordingNotifier) Notify(msg entity.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, msg)
}

func (n *recordingNotifier) all() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Notification(nil), n.got...)
}

func (n *recordingNotifier) last(t *testing.T) entity.Notification {
	t.Helper()
	all := n.all()
	require.NotEmpty(t, all, "se esperaba al menos una notificación")
	return all[len(all)-1]
}

func (n *recordingNotifier) codes() []string {
	var out []string
	for _, m := range n.all() {
		out = append(out, m.Code)
	}
	return out
}

type stubConfirmer struct {
	answer bool
	asked  []string
}

func (c *stubConfirmer) Confirm(_ context.Context, msg string) bool {
	c.asked = append(c.asked, msg)
	return c.answer
}

type failingBlobs struct{ *storage.MemoryStore }

func (failingBlobs) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }

type fixture struct {
	uc         *usecase.InventoryUseCase
	blobs      *storage.MemoryStore
	notifier   *recordingNotifier
	confirmer  *stubConfirmer
	recognizer *scanner.ChannelRecognizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		blobs:      storage.NewMemoryStore(),
		notifier:   &recordingNotifier{},
		confirmer:  &stubConfirmer{answer: true},
		recognizer: scanner.NewChannelRecognizer(true, 4),
	}
	f.uc = usecase.NewInventoryUseCase(usecase.Deps{
		Store:      inventory.NewItemStore(f.blobs, storageKey),
		Recognizer: f.recognizer,
		ScanConfig: scan.Config{MinConfidence: 20},
		Notifier:   f.notifier,
		Confirmer:  f.confirmer,
	})
	t.Cleanup(f.uc.CloseScan)
	return f
}

func strPtr(s string) *string { return &s }

func kimchi() entity.ItemDraft {
	return entity.ItemDraft{
		Barcode:      strPtr("1234567890123"),
		Name:         "Kimchi",
		Category:     "Refrigerated",
		CurrentStock: 15,
		MinStock:     5,
		Price:        decimal.RequireFromString("8.99"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_Kimchi(t *testing.T) {
	f := newFixture(t)

	item, err := f.uc.AddItem(context.Background(), kimchi())
	require.NoError(t, err)

	assert.Len(t, f.uc.Items(), 1)
	stats := f.uc.Stats()
	assert.Equal(t, 0, stats.LowStockCount)
	assert.True(t, stats.TotalValue.Equal(decimal.RequireFromString("134.85")))

	last := f.notifier.last(t)
	assert.Equal(t, entity.SeveritySuccess, last.Severity)
	assert.Equal(t, entity.CodeItemAdded, last.Code)

	got, err := f.uc.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kimchi", got.Name)
}

func TestAdjustStock_AgotadoNotificaError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)

	res, err := f.uc.AdjustStock(ctx, item.ID, -20)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Item.CurrentStock)
	assert.Equal(t, entity.StockOut, res.Status)

	last := f.notifier.last(t)
	assert.Equal(t, entity.SeverityError, last.Severity)
	assert.Equal(t, entity.CodeOutOfStock, last.Code)
}

func TestAdjustStock_BajoNotificaWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)

	_, err = f.uc.AdjustStock(ctx, item.ID, -10)
	require.NoError(t, err)
	last := f.notifier.last(t)
	assert.Equal(t, entity.SeverityWarning, last.Severity)
	assert.Equal(t, entity.CodeLowStock, last.Code)

	before := len(f.notifier.all())
	_, err = f.uc.AdjustStock(ctx, item.ID, +10)
	require.NoError(t, err)
	assert.Len(t, f.notifier.all(), before, "sin aviso cuando el stock queda OK")
}

func TestAddItem_CodigoDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)

	_, err = f.uc.AddItem(ctx, kimchi())
	assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)
	assert.Len(t, f.uc.Items(), 1)

	last := f.notifier.last(t)
	assert.Equal(t, entity.SeverityError, last.Severity)
	assert.Equal(t, entity.CodeDuplicateBarcode, last.Code)
}

func TestAddItem_Validacion(t *testing.T) {
	f := newFixture(t)
	d := kimchi()
	d.Name = ""

	_, err := f.uc.AddItem(context.Background(), d)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	last := f.notifier.last(t)
	assert.Equal(t, entity.CodeValidation, last.Code)
	assert.Equal(t, "ingrese el nombre del producto", last.Message)
}

func TestAddItem_FalloDePersistencia(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewInventoryUseCase(usecase.Deps{
		Store:    inventory.NewItemStore(failingBlobs{storage.NewMemoryStore()}, storageKey),
		Notifier: f.notifier,
	})

	item, err := uc.AddItem(context.Background(), kimchi())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, "Kimchi", item.Name)
	assert.Len(t, uc.Items(), 1, "el cambio se conserva en memoria")
	assert.Equal(t, []string{entity.CodeItemAdded, entity.CodePersistence}, f.notifier.codes())
}

func TestDeleteItem_Confirmado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteItem(ctx, item.ID))
	assert.Empty(t, f.uc.Items())
	require.Len(t, f.confirmer.asked, 1)
	assert.Contains(t, f.confirmer.asked[0], "Kimchi")
	assert.Equal(t, entity.CodeItemDeleted, f.notifier.last(t).Code)
}

func TestDeleteItem_Rechazado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)
	f.confirmer.answer = false

	err = f.uc.DeleteItem(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.Len(t, f.uc.Items(), 1)
}

func TestDeleteItem_NoExiste(t *testing.T) {
	f := newFixture(t)
	err := f.uc.DeleteItem(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.confirmer.asked)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)

	minStock := 20
	updated, err := f.uc.UpdateItem(ctx, item.ID, entity.ItemPatch{MinStock: &minStock})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.MinStock)
	assert.Equal(t, entity.CodeItemUpdated, f.notifier.last(t).Code)

	repl := f.uc.Replenishment()
	require.Len(t, repl, 1)
	assert.Equal(t, 30, repl[0].IdealStock)
	assert.Equal(t, 15, repl[0].SuggestedQty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga y datos demo
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_DatosCorruptos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blobs.Set(ctx, storageKey, []byte("not json")))

	err := f.uc.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrDataCorruption)
	assert.Empty(t, f.uc.Items())

	last := f.notifier.last(t)
	assert.Equal(t, entity.SeverityWarning, last.Severity)
	assert.Equal(t, entity.CodeDataCorruption, last.Code)

	// el proceso sigue utilizable
	_, err = f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)
}

func TestLoad_Persistido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)

	other := usecase.NewInventoryUseCase(usecase.Deps{Store: inventory.NewItemStore(f.blobs, storageKey)})
	require.NoError(t, other.Load(ctx))
	assert.Len(t, other.Items(), 1)
}

func TestSeedDemo_SoloConCatalogoVacio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	added, err := f.uc.SeedDemo(ctx)
	require.NoError(t, err)
	assert.Len(t, added, 3)
	assert.Equal(t, entity.CodeDemoData, f.notifier.last(t).Code)

	again, err := f.uc.SeedDemo(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, f.uc.Items(), 3)

	stats := f.uc.Stats()
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Len(t, f.uc.Search("ramyun"), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escaneo
// ──────────────────────────────────────────────────────────────────────────────

func TestScan_ConsultaNoEncontrada(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uc.StartLookupScan(context.Background(), entity.ModeLiveCapture))
	assert.True(t, f.recognizer.Running())

	out := f.uc.HandleDetection("8801043001441", 85)
	require.NotNil(t, out.Lookup)
	assert.False(t, out.Lookup.Found)

	assert.Equal(t, entity.ScanIdle, f.uc.ScanSnapshot().State)
	assert.False(t, f.recognizer.Running())

	last := f.notifier.last(t)
	assert.Equal(t, entity.CodeLookupNotFound, last.Code)
	assert.Equal(t, entity.SeverityWarning, last.Severity)
}

func TestScan_ConsultaDesdeElDecodificador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)
	require.NoError(t, f.uc.StartLookupScan(ctx, entity.ModeLiveCapture))

	require.NoError(t, f.recognizer.Push(entity.Detection{Code: "1234567890123", Confidence: 90}))

	assert.Eventually(t, func() bool {
		codes := f.notifier.codes()
		return len(codes) > 0 && codes[len(codes)-1] == entity.CodeLookupFound
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !f.recognizer.Running() }, time.Second, 5*time.Millisecond)
}

func TestScan_AltaUsaElCodigoPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.uc.StartAddScan(ctx))

	out := f.uc.HandleDetection("8801056412345", 70)
	require.True(t, out.Accepted)
	assert.Equal(t, entity.CodeBarcodeScanned, f.notifier.last(t).Code)
	assert.Equal(t, entity.ScanManualEntry, f.uc.ScanSnapshot().State)

	d := kimchi()
	d.Barcode = nil
	item, err := f.uc.AddItem(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "8801056412345", item.BarcodeValue())
	assert.Empty(t, f.uc.ScanSnapshot().PendingBarcode)
}

func TestScan_ConsultaPreviaNoContaminaElAlta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)

	for _, code := range []string{"1234567890123", "8801043001441"} {
		require.NoError(t, f.uc.StartLookupScan(ctx, entity.ModeLiveCapture))
		require.True(t, f.uc.HandleDetection(code, 90).Accepted)
		f.uc.StopScan()
	}
	assert.Empty(t, f.uc.ScanSnapshot().PendingBarcode)

	d := entity.ItemDraft{Name: "Tteok", Category: "Refrigerated", CurrentStock: 3, MinStock: 1, Price: decimal.RequireFromString("4.50")}
	item, err := f.uc.AddItem(ctx, d)
	require.NoError(t, err)
	assert.Nil(t, item.Barcode)
}

func TestScan_AltaConservaUnaLecturaNueva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.uc.SubmitManualBarcode("8801056412345")

	// el alta usa un código explícito distinto: la ranura pendiente sigue intacta
	_, err := f.uc.AddItem(ctx, kimchi())
	require.NoError(t, err)
	assert.Equal(t, "8801056412345", f.uc.ScanSnapshot().PendingBarcode)
}

func TestScan_EscanerNoDisponible(t *testing.T) {
	f := newFixture(t)
	f.recognizer.SetEnabled(false)

	err := f.uc.StartAddScan(context.Background())
	assert.ErrorIs(t, err, domain.ErrScannerUnavailable)

	last := f.notifier.last(t)
	assert.Equal(t, entity.CodeScannerUnavailable, last.Code)
	assert.Equal(t, entity.SeverityError, last.Severity)
	assert.Equal(t, entity.ModeManual, f.uc.ScanSnapshot().Mode)
}

func TestScan_BajaConfianzaSinEfectos(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uc.StartLookupScan(context.Background(), entity.ModeLiveCapture))
	before := len(f.notifier.all())

	out := f.uc.HandleDetection("1234567890123", 10)
	assert.Equal(t, scan.IgnoreLowConfidence, out.Ignored)
	assert.Len(t, f.notifier.all(), before)
	assert.Empty(t, f.uc.ScanSnapshot().PendingBarcode)
}

func TestLookupBarcode(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.AddItem(context.Background(), kimchi())
	require.NoError(t, err)

	assert.True(t, f.uc.LookupBarcode("1234567890123").Found)
	assert.False(t, f.uc.LookupBarcode("0000").Found)
}
