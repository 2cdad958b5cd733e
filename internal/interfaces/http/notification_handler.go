package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-local/internal/application/dto"
	"github.com/jhoicas/inventario-local/internal/infrastructure/notify"
)

// NotificationHandler expone los avisos pendientes al operador.
type NotificationHandler struct {
	feed *notify.Feed
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(feed *notify.Feed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// List devuelve los avisos retenidos. Con ?drain=true además los descarta.
// GET /api/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	if c.QueryBool("drain", false) {
		return c.JSON(dto.ToNotifications(h.feed.Drain()))
	}
	return c.JSON(dto.ToNotifications(h.feed.Recent()))
}
