package notify

import (
	"sync"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// DefaultFeedSize capacidad por defecto del buffer de avisos.
const DefaultFeedSize = 50

// Feed guarda las últimas notificaciones para que la presentación las consulte.
// Al llenarse descarta las más antiguas.
type Feed struct {
	mu    sync.Mutex
	buf   []entity.Notification
	start int
	size  int
}

// NewFeed construye el buffer con la capacidad indicada.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedSize
	}
	return &Feed{buf: make([]entity.Notification, capacity)}
}

// Notify implementa inventory.Notifier.
func (f *Feed) Notify(msg entity.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := (f.start + f.size) % len(f.buf)
	f.buf[idx] = msg
	if f.size < len(f.buf) {
		f.size++
		return
	}
	f.start = (f.start + 1) % len(f.buf)
}

// Recent devuelve las notificaciones retenidas, de la más antigua a la más reciente.
func (f *Feed) Recent() []entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Drain devuelve las notificaciones retenidas y vacía el buffer.
func (f *Feed) Drain() []entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.snapshotLocked()
	f.start, f.size = 0, 0
	return out
}

func (f *Feed) snapshotLocked() []entity.Notification {
	out := make([]entity.Notification, 0, f.size)
	for i := 0; i < f.size; i++ {
		out = append(out, f.buf[(f.start+i)%len(f.buf)])
	}
	return out
}
