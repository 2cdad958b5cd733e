package notify

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-local/internal/application/inventory"
	"github.com/jhoicas/inventario-local/internal/domain/entity"
	"github.com/jhoicas/inventario-local/pkg/logger"
)

var _ inventory.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe cada notificación en el log estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify implementa inventory.Notifier.
func (n *LogNotifier) Notify(msg entity.Notification) {
	var ev *zerolog.Event
	switch msg.Severity {
	case entity.SeverityError:
		ev = n.log.Error()
	case entity.SeverityWarning:
		ev = n.log.Warn()
	default:
		ev = n.log.Info()
	}
	ev.Str("severity", string(msg.Severity)).Str("code", msg.Code).Msg(msg.Message)
}

// Fanout reenvía cada notificación a varios destinos.
type Fanout []inventory.Notifier

// Notify implementa inventory.Notifier.
func (f Fanout) Notify(msg entity.Notification) {
	for _, n := range f {
		if n != nil {
			n.Notify(msg)
		}
	}
}
