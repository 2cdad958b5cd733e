package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-local/internal/application/dto"
	"github.com/jhoicas/inventario-local/internal/application/usecase"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
	"github.com/jhoicas/inventario-local/internal/infrastructure/scanner"
)

// ScanHandler expone el flujo de escaneo a la presentación.
type ScanHandler struct {
	uc         *usecase.InventoryUseCase
	recognizer *scanner.ChannelRecognizer
}

// NewScanHandler construye el handler. recognizer recibe las lecturas del decodificador externo.
func NewScanHandler(uc *usecase.InventoryUseCase, recognizer *scanner.ChannelRecognizer) *ScanHandler {
	return &ScanHandler{uc: uc, recognizer: recognizer}
}

// State estado actual del escaneo.
// GET /api/scan
func (h *ScanHandler) State(c *fiber.Ctx) error {
	return c.JSON(dto.ToScanState(h.uc.ScanSnapshot(), h.uc.RecognizerConfig()))
}

// StartAdd inicia la captura para registrar un producto.
// POST /api/scan/add
func (h *ScanHandler) StartAdd(c *fiber.Ctx) error {
	if err := h.uc.StartAddScan(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return h.State(c)
}

// StartLookup inicia una consulta rápida. Mode por defecto: live_capture.
// POST /api/scan/lookup
func (h *ScanHandler) StartLookup(c *fiber.Ctx) error {
	var in dto.StartLookupRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	mode := entity.ModeLiveCapture
	if in.Mode != "" {
		m, ok := parseMode(in.Mode)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MODE", Message: "mode debe ser manual o live_capture"})
		}
		mode = m
	}
	if err := h.uc.StartLookupScan(c.UserContext(), mode); err != nil {
		return writeError(c, err)
	}
	return h.State(c)
}

// Stop detiene la captura.
// POST /api/scan/stop
func (h *ScanHandler) Stop(c *fiber.Ctx) error {
	h.uc.StopScan()
	return h.State(c)
}

// Close cierra el flujo de escaneo.
// POST /api/scan/close
func (h *ScanHandler) Close(c *fiber.Ctx) error {
	h.uc.CloseScan()
	return h.State(c)
}

// SetMode cambia entre manual y cámara.
// PUT /api/scan/mode
func (h *ScanHandler) SetMode(c *fiber.Ctx) error {
	var in dto.SetModeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mode, ok := parseMode(in.Mode)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MODE", Message: "mode debe ser manual o live_capture"})
	}
	h.uc.SetScanMode(mode)
	return h.State(c)
}

// Manual entrada de texto del código de barras.
// POST /api/scan/manual
func (h *ScanHandler) Manual(c *fiber.Ctx) error {
	var in dto.ManualBarcodeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(dto.ToScanOutcome(h.uc.SubmitManualBarcode(in.Barcode)))
}

// Detection recibe una lectura del decodificador externo y la encola en el flujo activo.
// POST /api/scan/detections
func (h *ScanHandler) Detection(c *fiber.Ctx) error {
	var in dto.DetectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.recognizer.Push(entity.Detection{Code: in.Code, Confidence: in.Confidence})
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusAccepted)
	case errors.Is(err, scanner.ErrNotRunning):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_SCANNING", Message: err.Error()})
	case errors.Is(err, scanner.ErrBusy):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "BUSY", Message: err.Error()})
	default:
		return writeError(c, err)
	}
}

func parseMode(s string) (entity.ScanMode, bool) {
	switch entity.ScanMode(s) {
	case entity.ModeManual:
		return entity.ModeManual, true
	case entity.ModeLiveCapture, "camera":
		return entity.ModeLiveCapture, true
	}
	return "", false
}
