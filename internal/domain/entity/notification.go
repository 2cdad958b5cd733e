package entity

import "time"

// Severity nivel de un aviso al operador.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Códigos de notificación estables para la capa de presentación.
const (
	CodeItemAdded          = "ITEM_ADDED"
	CodeItemUpdated        = "ITEM_UPDATED"
	CodeItemDeleted        = "ITEM_DELETED"
	CodeValidation         = "VALIDATION"
	CodeDuplicateBarcode   = "DUPLICATE_BARCODE"
	CodeNotFound           = "NOT_FOUND"
	CodeLowStock           = "LOW_STOCK"
	CodeOutOfStock         = "OUT_OF_STOCK"
	CodeDataCorruption     = "DATA_CORRUPTION"
	CodePersistence        = "PERSISTENCE_FAILURE"
	CodeScannerUnavailable = "SCANNER_UNAVAILABLE"
	CodeBarcodeScanned     = "BARCODE_SCANNED"
	CodeLookupFound        = "LOOKUP_FOUND"
	CodeLookupNotFound     = "LOOKUP_NOT_FOUND"
	CodeDemoData           = "DEMO_DATA"
)

// Notification resultado tipado que se muestra al operador.
type Notification struct {
	Message  string
	Severity Severity
	Code     string
	At       time.Time
}
