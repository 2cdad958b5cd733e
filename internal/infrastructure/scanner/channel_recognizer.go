// Package scanner implementa el puerto Recognizer para un decodificador externo
// (por ejemplo el navegador del operador) que envía sus lecturas al proceso.
package scanner

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/inventario-local/internal/application/scan"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

var _ scan.Recognizer = (*ChannelRecognizer)(nil)

var (
	// ErrDisabled el escáner está deshabilitado por configuración (equivale a permiso denegado).
	ErrDisabled = errors.New("escáner deshabilitado")
	// ErrNotRunning no hay captura activa para recibir lecturas.
	ErrNotRunning = errors.New("no hay captura activa")
	// ErrBusy el buffer de lecturas está lleno; la lectura se descarta.
	ErrBusy = errors.New("buffer de lecturas lleno")
)

const defaultBuffer = 16

// ChannelRecognizer entrega las lecturas recibidas con Push por un canal mientras está iniciado.
type ChannelRecognizer struct {
	mu      sync.Mutex
	enabled bool
	buffer  int
	events  chan entity.Detection
	cfg     scan.RecognizerConfig
}

// NewChannelRecognizer construye el adaptador. enabled=false hace fallar Start.
func NewChannelRecognizer(enabled bool, buffer int) *ChannelRecognizer {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &ChannelRecognizer{enabled: enabled, buffer: buffer}
}

// Start implementa scan.Recognizer. Reinicia cualquier flujo previo.
func (r *ChannelRecognizer) Start(ctx context.Context, cfg scan.RecognizerConfig) (<-chan entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled {
		return nil, ErrDisabled
	}
	r.closeLocked()
	r.events = make(chan entity.Detection, r.buffer)
	r.cfg = cfg
	return r.events, nil
}

// Stop implementa scan.Recognizer. Es idempotente.
func (r *ChannelRecognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
	return nil
}

// Running indica si hay una captura activa.
func (r *ChannelRecognizer) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events != nil
}

// Config configuración recibida en el último Start (la consulta el decodificador externo).
func (r *ChannelRecognizer) Config() scan.RecognizerConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Push entrega una lectura sin bloquear.
func (r *ChannelRecognizer) Push(d entity.Detection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.events == nil {
		return ErrNotRunning
	}
	select {
	case r.events <- d:
		return nil
	default:
		return ErrBusy
	}
}

// SetEnabled habilita o deshabilita el escáner (p. ej. el operador concedió permiso de cámara).
func (r *ChannelRecognizer) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
	if !enabled {
		r.closeLocked()
	}
}

func (r *ChannelRecognizer) closeLocked() {
	if r.events != nil {
		close(r.events)
		r.events = nil
	}
}
