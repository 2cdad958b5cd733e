package scan

import (
	"context"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// Recognizer puerto del motor de reconocimiento de códigos de barras.
// Start inicia la captura y devuelve el flujo de detecciones; ctx solo cubre la inicialización.
// El flujo termina (se cierra) después de Stop.
type Recognizer interface {
	Start(ctx context.Context, cfg RecognizerConfig) (<-chan entity.Detection, error)
	Stop() error
}

// BarcodeFinder resuelve un código de barras contra el catálogo.
type BarcodeFinder interface {
	FindByBarcode(barcode string) (entity.Item, error)
}

// FinderFunc adapta una función a BarcodeFinder.
type FinderFunc func(barcode string) (entity.Item, error)

// FindByBarcode implementa BarcodeFinder.
func (f FinderFunc) FindByBarcode(barcode string) (entity.Item, error) { return f(barcode) }

// RecognizerConfig parámetros de captura que se envían al motor.
type RecognizerConfig struct {
	Readers     []string `json:"readers"`
	IdealWidth  int      `json:"ideal_width"`
	IdealHeight int      `json:"ideal_height"`
	MinWidth    int      `json:"min_width"`
	MinHeight   int      `json:"min_height"`
	FacingMode  string   `json:"facing_mode"`
	PatchSize   string   `json:"patch_size"`
	HalfSample  bool     `json:"half_sample"`
	Workers     int      `json:"workers"`
	Frequency   int      `json:"frequency"` // lecturas por segundo
}

// DefaultRecognizerConfig configuración por defecto: cámara trasera 1280x720 y lectores 1D comunes.
func DefaultRecognizerConfig() RecognizerConfig {
	return RecognizerConfig{
		Readers: []string{
			"code_128_reader",
			"ean_reader",
			"ean_8_reader",
			"code_39_reader",
			"code_93_reader",
			"codabar_reader",
		},
		IdealWidth:  1280,
		IdealHeight: 720,
		MinWidth:    640,
		MinHeight:   480,
		FacingMode:  "environment",
		PatchSize:   "large",
		HalfSample:  false,
		Workers:     4,
		Frequency:   5,
	}
}
