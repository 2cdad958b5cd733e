package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-local/internal/application/inventory"
	"github.com/jhoicas/inventario-local/internal/application/scan"
	"github.com/jhoicas/inventario-local/internal/domain"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-local/internal/domain/inventory"
	"github.com/jhoicas/inventario-local/pkg/logger"
)

// InventoryUseCase es el controlador único del inventario: dueño del catálogo y de la sesión
// de escaneo. La capa de presentación solo invoca estos comandos y muestra las notificaciones.
//
// Orden de locks: el coordinador de escaneo puede llamar al catálogo (consulta por código),
// nunca al revés; por eso ningún método llama al coordinador mientras tiene uc.mu.
type InventoryUseCase struct {
	mu        sync.Mutex
	store     *inventory.ItemStore
	scanner   *scan.Coordinator
	notifier  inventory.Notifier
	confirmer inventory.Confirmer
	reports   inventory.ReportGenerator
	log       *logger.Logger
	now       func() time.Time
}

// Deps dependencias del controlador.
type Deps struct {
	Store      *inventory.ItemStore
	Recognizer scan.Recognizer
	ScanConfig scan.Config
	Notifier   inventory.Notifier
	Confirmer  inventory.Confirmer
	Reports    inventory.ReportGenerator
	Log        *logger.Logger
	Now        func() time.Time
}

// NewInventoryUseCase construye el controlador y su coordinador de escaneo.
func NewInventoryUseCase(deps Deps) *InventoryUseCase {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	uc := &InventoryUseCase{
		store:     deps.Store,
		notifier:  deps.Notifier,
		confirmer: deps.Confirmer,
		reports:   deps.Reports,
		log:       log,
		now:       deps.Now,
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	uc.scanner = scan.NewCoordinator(deps.Recognizer, scan.FinderFunc(uc.findByBarcode), deps.ScanConfig, log.Component("scan"))
	uc.scanner.SetOutcomeSink(uc.onScanOutcome)
	return uc
}

// Load restaura el catálogo desde el almacenamiento. Nunca deja el proceso en estado inválido:
// ante datos corruptos o un fallo de lectura el catálogo queda vacío y se avisa al operador.
func (uc *InventoryUseCase) Load(ctx context.Context) error {
	uc.mu.Lock()
	err := uc.store.Load(ctx)
	count := uc.store.Len()
	uc.mu.Unlock()

	switch {
	case err == nil:
		uc.log.Info().Int("items", count).Msg("catálogo cargado")
		return nil
	case errors.Is(err, domain.ErrDataCorruption):
		uc.log.Warn().Err(err).Msg("catálogo corrupto, se inicia vacío")
		uc.notify(entity.SeverityWarning, entity.CodeDataCorruption,
			"Los datos guardados estaban dañados; se inició un inventario vacío.")
	default:
		uc.log.Error().Err(err).Msg("cargar catálogo")
		uc.notify(entity.SeverityError, entity.CodePersistence,
			"No se pudo leer el inventario guardado; se inició un inventario vacío.")
	}
	return err
}

// SeedDemo agrega los productos de demostración solo si el catálogo está vacío.
func (uc *InventoryUseCase) SeedDemo(ctx context.Context) ([]entity.Item, error) {
	uc.mu.Lock()
	if uc.store.Len() > 0 {
		uc.mu.Unlock()
		return nil, nil
	}
	added, err := uc.store.Seed(ctx, demoDrafts())
	uc.mu.Unlock()

	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return nil, err
	}
	uc.notify(entity.SeveritySuccess, entity.CodeDemoData, "Datos de demostración agregados.")
	uc.reportPersistence(err)
	return added, err
}

// AddItem registra un producto. Si el borrador no trae código de barras se usa el código
// pendiente del escaneo; tras el alta la ranura se limpia solo si aún contiene el código
// usado, para no perder una lectura que llegó mientras tanto.
func (uc *InventoryUseCase) AddItem(ctx context.Context, draft entity.ItemDraft) (entity.Item, error) {
	var used string
	if draft.Barcode == nil {
		if pending := uc.scanner.PendingBarcode(); pending != "" {
			draft.Barcode = &pending
		}
	}
	if draft.Barcode != nil {
		used = strings.TrimSpace(*draft.Barcode)
	}

	uc.mu.Lock()
	item, err := uc.store.Add(ctx, draft)
	uc.mu.Unlock()

	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		uc.notifyRejected(err)
		return entity.Item{}, err
	}
	if used != "" {
		uc.scanner.ConsumePending(used)
	}
	uc.log.Info().Str("item_id", item.ID).Str("barcode", item.BarcodeValue()).Msg("producto agregado")
	uc.notify(entity.SeveritySuccess, entity.CodeItemAdded, "¡Producto agregado correctamente!")
	uc.reportPersistence(err)
	return item, err
}

// UpdateItem edita los campos descriptivos de un producto.
func (uc *InventoryUseCase) UpdateItem(ctx context.Context, id string, patch entity.ItemPatch) (entity.Item, error) {
	uc.mu.Lock()
	item, err := uc.store.Update(ctx, id, patch)
	uc.mu.Unlock()

	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		uc.notifyRejected(err)
		return entity.Item{}, err
	}
	uc.notify(entity.SeveritySuccess, entity.CodeItemUpdated, fmt.Sprintf("%s actualizado.", item.Name))
	uc.reportPersistence(err)
	return item, err
}

// AdjustStock suma delta (±1 o cualquier valor) al stock, limitado en cero.
// Avisa con warning si queda bajo y con error si queda agotado.
func (uc *InventoryUseCase) AdjustStock(ctx context.Context, id string, delta int) (inventory.AdjustResult, error) {
	uc.mu.Lock()
	res, err := uc.store.AdjustStock(ctx, id, delta)
	uc.mu.Unlock()

	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		uc.notifyRejected(err)
		return inventory.AdjustResult{}, err
	}
	uc.log.Debug().Str("item_id", id).Int("delta", delta).Int("stock", res.Item.CurrentStock).Msg("stock ajustado")
	switch res.Status {
	case entity.StockLow:
		uc.notify(entity.SeverityWarning, entity.CodeLowStock, fmt.Sprintf("⚠️ %s tiene stock bajo.", res.Item.Name))
	case entity.StockOut:
		uc.notify(entity.SeverityError, entity.CodeOutOfStock, fmt.Sprintf("❌ %s está agotado.", res.Item.Name))
	}
	uc.reportPersistence(err)
	return res, err
}

// DeleteItem elimina un producto tras la confirmación del operador.
// Si el operador no confirma devuelve ErrCancelled y no cambia nada.
func (uc *InventoryUseCase) DeleteItem(ctx context.Context, id string) error {
	item, err := uc.GetItem(id)
	if err != nil {
		uc.notifyRejected(err)
		return err
	}
	// La confirmación puede esperar al operador: no se mantiene el lock
	if uc.confirmer == nil || !uc.confirmer.Confirm(ctx, fmt.Sprintf("¿Seguro que desea eliminar %q?", item.Name)) {
		return domain.ErrCancelled
	}

	uc.mu.Lock()
	_, err = uc.store.Delete(ctx, id)
	uc.mu.Unlock()

	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		uc.notifyRejected(err)
		return err
	}
	uc.log.Info().Str("item_id", id).Msg("producto eliminado")
	uc.notify(entity.SeverityInfo, entity.CodeItemDeleted, "Producto eliminado.")
	uc.reportPersistence(err)
	return err
}

// GetItem obtiene un producto por id.
func (uc *InventoryUseCase) GetItem(id string) (entity.Item, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.store.FindByID(id)
}

// LookupBarcode consulta directa por código de barras, sin sesión de escaneo.
func (uc *InventoryUseCase) LookupBarcode(code string) entity.LookupResult {
	res := entity.LookupResult{Barcode: code}
	if item, err := uc.findByBarcode(code); err == nil {
		res.Found = true
		res.Item = &item
	}
	return res
}

// Items devuelve el catálogo completo en orden de inserción.
func (uc *InventoryUseCase) Items() []entity.Item {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.store.Items()
}

// Search filtra el catálogo; consulta vacía devuelve todo.
func (uc *InventoryUseCase) Search(query string) []entity.Item {
	return domaininv.Search(uc.Items(), query)
}

// Stats agregados del catálogo actual.
func (uc *InventoryUseCase) Stats() entity.InventoryStats {
	return domaininv.AggregateStats(uc.Items())
}

// Replenishment lista de reposición priorizada.
func (uc *InventoryUseCase) Replenishment() []entity.ReplenishmentSuggestion {
	return domaininv.Replenishment(uc.Items())
}

// StockReport genera el reporte imprimible del inventario.
func (uc *InventoryUseCase) StockReport(ctx context.Context) ([]byte, error) {
	if uc.reports == nil {
		return nil, errors.New("generador de reportes no configurado")
	}
	items := uc.Items()
	return uc.reports.GenerateStockReport(ctx, items, domaininv.AggregateStats(items))
}

// StartAddScan inicia la captura para registrar un producto nuevo.
func (uc *InventoryUseCase) StartAddScan(ctx context.Context) error {
	err := uc.scanner.StartAddScan(ctx)
	uc.reportScannerFailure(err)
	return err
}

// StartLookupScan inicia una consulta rápida (cámara o texto).
func (uc *InventoryUseCase) StartLookupScan(ctx context.Context, mode entity.ScanMode) error {
	err := uc.scanner.StartLookupScan(ctx, mode)
	uc.reportScannerFailure(err)
	return err
}

// SubmitManualBarcode entrada de texto del código de barras.
func (uc *InventoryUseCase) SubmitManualBarcode(code string) scan.Outcome {
	return uc.scanner.SubmitManualBarcode(code)
}

// HandleDetection entrega una lectura del motor directamente al coordinador.
func (uc *InventoryUseCase) HandleDetection(code string, confidence float64) scan.Outcome {
	return uc.scanner.OnRecognitionEvent(code, confidence)
}

// SetScanMode cambia entre entrada manual y cámara.
func (uc *InventoryUseCase) SetScanMode(mode entity.ScanMode) { uc.scanner.SetMode(mode) }

// StopScan detiene la captura (idempotente).
func (uc *InventoryUseCase) StopScan() { uc.scanner.Stop() }

// CloseScan cierra el flujo de escaneo (modal cerrado).
func (uc *InventoryUseCase) CloseScan() { uc.scanner.Close() }

// ScanSnapshot estado actual del escaneo.
func (uc *InventoryUseCase) ScanSnapshot() scan.Snapshot { return uc.scanner.Snapshot() }

// RecognizerConfig parámetros de captura para el decodificador externo.
func (uc *InventoryUseCase) RecognizerConfig() scan.RecognizerConfig {
	return uc.scanner.RecognizerConfig()
}

func (uc *InventoryUseCase) findByBarcode(code string) (entity.Item, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.store.FindByBarcode(code)
}

// onScanOutcome recibe los resultados aceptados del coordinador (puede ejecutarse en la
// goroutine del motor de reconocimiento).
func (uc *InventoryUseCase) onScanOutcome(out scan.Outcome) {
	switch {
	case out.Lookup != nil && out.Lookup.Found:
		item := out.Lookup.Item
		uc.notify(entity.SeverityInfo, entity.CodeLookupFound, fmt.Sprintf("%s: %d en stock (%s).",
			item.Name, item.CurrentStock, domaininv.StockStatus(*item).Label()))
	case out.Lookup != nil:
		uc.notify(entity.SeverityWarning, entity.CodeLookupNotFound,
			fmt.Sprintf("Producto no encontrado: %s.", out.Barcode))
	case out.Source == scan.SourceLive:
		uc.notify(entity.SeveritySuccess, entity.CodeBarcodeScanned,
			fmt.Sprintf("Código escaneado: %s", out.Barcode))
	}
}

func (uc *InventoryUseCase) notifyRejected(err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		uc.notify(entity.SeverityError, entity.CodeValidation, verr.Message)
	case errors.Is(err, domain.ErrDuplicateBarcode):
		uc.notify(entity.SeverityError, entity.CodeDuplicateBarcode, "¡Ya existe un producto con este código de barras!")
	case errors.Is(err, domain.ErrNotFound):
		uc.notify(entity.SeverityWarning, entity.CodeNotFound, "El producto ya no existe.")
	default:
		uc.log.Error().Err(err).Msg("operación de inventario")
		uc.notify(entity.SeverityError, entity.CodePersistence, err.Error())
	}
}

// reportPersistence avisa que el cambio quedó solo en memoria hasta la próxima escritura exitosa.
func (uc *InventoryUseCase) reportPersistence(err error) {
	if err == nil {
		return
	}
	uc.log.Error().Err(err).Msg("persistir catálogo")
	uc.notify(entity.SeverityError, entity.CodePersistence,
		"No se pudo guardar el inventario; los cambios se conservan en memoria.")
}

func (uc *InventoryUseCase) reportScannerFailure(err error) {
	if err == nil {
		return
	}
	uc.notify(entity.SeverityError, entity.CodeScannerUnavailable,
		"No se pudo acceder a la cámara. Conceda el permiso e intente de nuevo.")
}

func (uc *InventoryUseCase) notify(sev entity.Severity, code, msg string) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.Notify(entity.Notification{Message: msg, Severity: sev, Code: code, At: uc.now()})
}
