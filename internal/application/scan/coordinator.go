package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-local/internal/domain"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
	"github.com/jhoicas/inventario-local/pkg/logger"
)

// DefaultMinConfidence umbral de aceptación por defecto (0-100).
const DefaultMinConfidence = 20

// IgnoreReason motivo por el que se descartó una detección.
type IgnoreReason string

const (
	IgnoreInactive      IgnoreReason = "inactive"
	IgnoreLowConfidence IgnoreReason = "low_confidence"
	IgnoreEmpty         IgnoreReason = "empty"
)

// Source origen del código: cámara o texto manual.
type Source string

const (
	SourceLive   Source = "live"
	SourceManual Source = "manual"
)

// Outcome resultado de procesar una detección o una entrada manual.
type Outcome struct {
	Accepted   bool
	Ignored    IgnoreReason
	Source     Source
	Intent     entity.ScanIntent
	Barcode    string
	Confidence float64
	Lookup     *entity.LookupResult // solo con intención Lookup
}

// Config parámetros del coordinador.
type Config struct {
	MinConfidence float64       // 0, negativo o NaN = DefaultMinConfidence
	IdleTimeout   time.Duration // 0 = sin límite
	Recognizer    RecognizerConfig
}

// Snapshot vista de solo lectura del estado de escaneo.
type Snapshot struct {
	State          entity.ScanState
	Mode           entity.ScanMode
	Session        *entity.ScanSession
	PendingBarcode string
	LastLookup     *entity.LookupResult
	MinConfidence  float64
}

// Coordinator máquina de estados del flujo de escaneo (Idle, ManualEntry, LiveCapture).
// Garantiza que nunca haya dos flujos de captura activos ni captura y entrada manual a la vez.
type Coordinator struct {
	mu         sync.Mutex
	recognizer Recognizer
	finder     BarcodeFinder
	cfg        Config
	log        *logger.Logger
	sink       func(Outcome)

	state      entity.ScanState
	mode       entity.ScanMode
	session    *entity.ScanSession
	pending    string
	lastLookup *entity.LookupResult

	running bool
	gen     uint64
	done    chan struct{}
	idle    *time.Timer
}

// NewCoordinator construye el coordinador en estado Idle y modo manual.
func NewCoordinator(recognizer Recognizer, finder BarcodeFinder, cfg Config, log *logger.Logger) *Coordinator {
	if !(cfg.MinConfidence > 0) {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if len(cfg.Recognizer.Readers) == 0 {
		cfg.Recognizer = DefaultRecognizerConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		recognizer: recognizer,
		finder:     finder,
		cfg:        cfg,
		log:        log,
		state:      entity.ScanIdle,
		mode:       entity.ModeManual,
	}
}

// SetOutcomeSink registra la función que recibe los resultados aceptados
// (incluidos los que llegan de forma asíncrona desde el motor).
func (c *Coordinator) SetOutcomeSink(sink func(Outcome)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = sink
}

// RecognizerConfig configuración de captura vigente.
func (c *Coordinator) RecognizerConfig() RecognizerConfig {
	return c.cfg.Recognizer
}

// StartAddScan abre una sesión para registrar un producto nuevo con captura en vivo.
func (c *Coordinator) StartAddScan(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.session = &entity.ScanSession{Intent: entity.IntentAdd, Mode: entity.ModeLiveCapture, Active: true}
	c.mode = entity.ModeLiveCapture
	return c.startCaptureLocked(ctx)
}

// StartLookupScan abre una sesión de consulta. En modo LiveCapture inicia la cámara;
// en modo Manual solo habilita la entrada de texto.
func (c *Coordinator) StartLookupScan(ctx context.Context, mode entity.ScanMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.session = &entity.ScanSession{Intent: entity.IntentLookup, Mode: mode, Active: true}
	c.mode = mode
	if mode == entity.ModeManual {
		c.state = entity.ScanManualEntry
		return nil
	}
	return c.startCaptureLocked(ctx)
}

// OnRecognitionEvent procesa una detección de la sesión activa.
func (c *Coordinator) OnRecognitionEvent(candidate string, confidence float64) Outcome {
	c.mu.Lock()
	out := c.onEventLocked(entity.Detection{Code: candidate, Confidence: confidence})
	sink := c.sink
	c.mu.Unlock()

	if out.Accepted && sink != nil {
		sink(out)
	}
	return out
}

// SubmitManualBarcode escribe el código en la ranura pendiente (gana la última escritura).
// Durante una sesión de consulta, un código no vacío se busca de inmediato y la ranura
// pendiente no se toca.
func (c *Coordinator) SubmitManualBarcode(code string) Outcome {
	c.mu.Lock()
	code = strings.TrimSpace(code)
	lookup := c.session != nil && c.session.Intent == entity.IntentLookup
	if !lookup {
		c.pending = code
	}

	out := Outcome{Source: SourceManual, Intent: entity.IntentAdd, Barcode: code, Confidence: 100}
	if lookup {
		out.Intent = entity.IntentLookup
	}
	if code == "" {
		out.Ignored = IgnoreEmpty
		c.mu.Unlock()
		return out
	}
	out.Accepted = true
	var sink func(Outcome)
	if lookup {
		c.session.LastAccepted = code
		res := c.lookupLocked(code)
		out.Lookup = &res
		sink = c.sink
	}
	c.mu.Unlock()

	if sink != nil {
		sink(out)
	}
	return out
}

// Stop detiene la captura y vuelve a Idle. Es idempotente.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// SetMode cambia el contexto de entrada. Pasar a Manual siempre detiene la captura;
// pasar a LiveCapture no la inicia (eso lo hacen StartAddScan/StartLookupScan).
func (c *Coordinator) SetMode(mode entity.ScanMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mode == entity.ModeManual {
		c.stopLocked()
		c.state = entity.ScanManualEntry
	}
	c.mode = mode
	if c.session != nil {
		c.session.Mode = mode
	}
}

// Close cierra el flujo de escaneo: detiene la captura y descarta la sesión y la ranura pendiente.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.session = nil
	c.pending = ""
	c.lastLookup = nil
}

// PendingBarcode código pendiente para el formulario de alta ("" si no hay).
func (c *Coordinator) PendingBarcode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// ConsumePending limpia la ranura solo si aún contiene code. Devuelve false si otra
// lectura la reemplazó entre la lectura y el alta.
func (c *Coordinator) ConsumePending(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != code {
		return false
	}
	c.pending = ""
	return true
}

// Snapshot devuelve una copia del estado actual.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:          c.state,
		Mode:           c.mode,
		PendingBarcode: c.pending,
		MinConfidence:  c.cfg.MinConfidence,
	}
	if c.session != nil {
		s := *c.session
		snap.Session = &s
	}
	if c.lastLookup != nil {
		l := *c.lastLookup
		snap.LastLookup = &l
	}
	return snap
}

func (c *Coordinator) startCaptureLocked(ctx context.Context) error {
	if c.recognizer == nil {
		c.failStartLocked()
		return fmt.Errorf("%w: motor de reconocimiento no configurado", domain.ErrScannerUnavailable)
	}
	events, err := c.recognizer.Start(ctx, c.cfg.Recognizer)
	if err != nil {
		c.failStartLocked()
		c.log.Warn().Err(err).Msg("no se pudo iniciar el escáner")
		return fmt.Errorf("%w: %v", domain.ErrScannerUnavailable, err)
	}

	c.gen++
	c.running = true
	c.done = make(chan struct{})
	c.state = entity.ScanLiveCapture
	c.armIdleLocked(c.gen)
	c.log.Debug().Str("intent", string(c.session.Intent)).Uint64("gen", c.gen).Msg("captura iniciada")

	go c.pump(c.gen, events, c.done)
	return nil
}

// failStartLocked sin reintento: vuelve a Idle en modo manual.
func (c *Coordinator) failStartLocked() {
	if c.session != nil {
		c.session.Active = false
		c.session.Mode = entity.ModeManual
	}
	c.mode = entity.ModeManual
	c.state = entity.ScanIdle
}

func (c *Coordinator) pump(gen uint64, events <-chan entity.Detection, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case d, ok := <-events:
			if !ok {
				return
			}
			c.handle(gen, d)
		}
	}
}

func (c *Coordinator) handle(gen uint64, d entity.Detection) {
	c.mu.Lock()
	if gen != c.gen {
		// flujo detenido o reemplazado
		c.mu.Unlock()
		return
	}
	out := c.onEventLocked(d)
	sink := c.sink
	c.mu.Unlock()

	if out.Accepted && sink != nil {
		sink(out)
	}
}

func (c *Coordinator) onEventLocked(d entity.Detection) Outcome {
	out := Outcome{Source: SourceLive, Barcode: strings.TrimSpace(d.Code), Confidence: d.Confidence}
	if c.session == nil || !c.session.Active {
		out.Ignored = IgnoreInactive
		return out
	}
	out.Intent = c.session.Intent
	c.resetIdleLocked()

	if out.Barcode == "" {
		out.Ignored = IgnoreEmpty
		return out
	}
	// NaN nunca supera el umbral
	if !(d.Confidence >= c.cfg.MinConfidence) {
		c.log.Debug().Str("barcode", out.Barcode).Float64("confidence", d.Confidence).Msg("lectura de baja confianza descartada")
		out.Ignored = IgnoreLowConfidence
		return out
	}

	out.Accepted = true
	c.session.LastAccepted = out.Barcode

	switch c.session.Intent {
	case entity.IntentAdd:
		c.pending = out.Barcode
		// La captura se detiene y el formulario manual completa el resto de campos
		c.stopCaptureLocked()
		c.session.Active = false
		c.session.Mode = entity.ModeManual
		c.mode = entity.ModeManual
		c.state = entity.ScanManualEntry
	case entity.IntentLookup:
		res := c.lookupLocked(out.Barcode)
		out.Lookup = &res
		c.stopLocked()
	}
	c.log.Info().Str("barcode", out.Barcode).Float64("confidence", d.Confidence).Str("intent", string(out.Intent)).Msg("código aceptado")
	return out
}

func (c *Coordinator) lookupLocked(code string) entity.LookupResult {
	res := entity.LookupResult{Barcode: code}
	if c.finder != nil {
		item, err := c.finder.FindByBarcode(code)
		switch {
		case err == nil:
			res.Found = true
			res.Item = &item
		case !errors.Is(err, domain.ErrNotFound):
			c.log.Error().Err(err).Str("barcode", code).Msg("consulta por código de barras")
		}
	}
	c.lastLookup = &res
	return res
}

func (c *Coordinator) stopLocked() {
	c.stopCaptureLocked()
	if c.session != nil {
		c.session.Active = false
	}
	c.state = entity.ScanIdle
}

// stopCaptureLocked detiene el motor si está corriendo e invalida eventos del flujo anterior.
func (c *Coordinator) stopCaptureLocked() {
	c.gen++
	if c.idle != nil {
		c.idle.Stop()
		c.idle = nil
	}
	if !c.running {
		return
	}
	c.running = false
	close(c.done)
	if err := c.recognizer.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("detener escáner")
	}
}

func (c *Coordinator) armIdleLocked(gen uint64) {
	if c.cfg.IdleTimeout <= 0 {
		return
	}
	c.idle = time.AfterFunc(c.cfg.IdleTimeout, func() { c.expire(gen) })
}

func (c *Coordinator) resetIdleLocked() {
	if c.idle != nil {
		c.idle.Reset(c.cfg.IdleTimeout)
	}
}

func (c *Coordinator) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || !c.running {
		return
	}
	c.log.Info().Dur("idle_timeout", c.cfg.IdleTimeout).Msg("sesión de escaneo inactiva, deteniendo captura")
	c.stopLocked()
}
