package dto

import (
	"github.com/jhoicas/inventario-local/internal/application/scan"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// StartLookupRequest body para POST /api/scan/lookup. Mode: "manual" o "live_capture".
type StartLookupRequest struct {
	Mode string `json:"mode"`
}

// SetModeRequest body para PUT /api/scan/mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// ManualBarcodeRequest body para POST /api/scan/manual.
type ManualBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

// DetectionRequest lectura enviada por el decodificador externo.
type DetectionRequest struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}

// LookupResponse resultado de una consulta por código.
type LookupResponse struct {
	Barcode string        `json:"barcode"`
	Found   bool          `json:"found"`
	Item    *ItemResponse `json:"item,omitempty"`
}

// ScanSessionResponse sesión abierta.
type ScanSessionResponse struct {
	Intent       string `json:"intent"`
	Mode         string `json:"mode"`
	Active       bool   `json:"active"`
	LastAccepted string `json:"last_accepted,omitempty"`
}

// ScanStateResponse estado del escaneo para la presentación.
type ScanStateResponse struct {
	State          string                `json:"state"`
	Mode           string                `json:"mode"`
	Session        *ScanSessionResponse  `json:"session,omitempty"`
	PendingBarcode string                `json:"pending_barcode,omitempty"`
	LastLookup     *LookupResponse       `json:"last_lookup,omitempty"`
	MinConfidence  float64               `json:"min_confidence"`
	Recognizer     scan.RecognizerConfig `json:"recognizer"`
}

// ScanOutcomeResponse resultado de una lectura o entrada manual.
type ScanOutcomeResponse struct {
	Accepted bool            `json:"accepted"`
	Ignored  string          `json:"ignored,omitempty"`
	Intent   string          `json:"intent,omitempty"`
	Barcode  string          `json:"barcode"`
	Lookup   *LookupResponse `json:"lookup,omitempty"`
}

// ToLookupResponse convierte el resultado de una consulta.
func ToLookupResponse(res entity.LookupResult) *LookupResponse {
	out := &LookupResponse{Barcode: res.Barcode, Found: res.Found}
	if res.Item != nil {
		item := ToItemResponse(*res.Item)
		out.Item = &item
	}
	return out
}

// ToScanState arma el estado de escaneo.
func ToScanState(snap scan.Snapshot, rec scan.RecognizerConfig) ScanStateResponse {
	out := ScanStateResponse{
		State:          string(snap.State),
		Mode:           string(snap.Mode),
		PendingBarcode: snap.PendingBarcode,
		MinConfidence:  snap.MinConfidence,
		Recognizer:     rec,
	}
	if snap.Session != nil {
		out.Session = &ScanSessionResponse{
			Intent:       string(snap.Session.Intent),
			Mode:         string(snap.Session.Mode),
			Active:       snap.Session.Active,
			LastAccepted: snap.Session.LastAccepted,
		}
	}
	if snap.LastLookup != nil {
		out.LastLookup = ToLookupResponse(*snap.LastLookup)
	}
	return out
}

// ToScanOutcome convierte el resultado de una lectura.
func ToScanOutcome(o scan.Outcome) ScanOutcomeResponse {
	out := ScanOutcomeResponse{
		Accepted: o.Accepted,
		Ignored:  string(o.Ignored),
		Intent:   string(o.Intent),
		Barcode:  o.Barcode,
	}
	if o.Lookup != nil {
		out.Lookup = ToLookupResponse(*o.Lookup)
	}
	return out
}
