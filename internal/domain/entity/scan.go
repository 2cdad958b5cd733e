package entity

// ScanIntent propósito de la sesión de escaneo.
type ScanIntent string

const (
	IntentAdd    ScanIntent = "add"
	IntentLookup ScanIntent = "lookup"
)

// ScanMode contexto de entrada: formulario manual o cámara en vivo.
type ScanMode string

const (
	ModeManual      ScanMode = "manual"
	ModeLiveCapture ScanMode = "live_capture"
)

// ScanState estado del coordinador de escaneo.
type ScanState string

const (
	ScanIdle        ScanState = "idle"
	ScanManualEntry ScanState = "manual_entry"
	ScanLiveCapture ScanState = "live_capture"
)

// ScanSession existe solo mientras el flujo de escaneo está abierto.
type ScanSession struct {
	Intent       ScanIntent
	Mode         ScanMode
	Active       bool
	LastAccepted string // "" = ninguno
}

// Detection evento del motor de reconocimiento: candidato y confianza 0-100.
type Detection struct {
	Code       string
	Confidence float64
}

// LookupResult resultado de buscar un código escaneado en el catálogo.
type LookupResult struct {
	Barcode string
	Found   bool
	Item    *Item
}
