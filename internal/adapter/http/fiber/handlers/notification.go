package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/adapter/http/fiber/middleware"
	"github.com/citypulse/citypulse/internal/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service ports.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, log: log}
}

func (h *NotificationHandler) ListMine(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	notifications, err := h.service.ListByUser(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(notifications)
}

func (h *NotificationHandler) ListUnread(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	notifications, err := h.service.ListUnread(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(notifications)
}

func (h *NotificationHandler) ListByTime(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	days, err := strconv.Atoi(c.Params("days"))
	if err != nil || days < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid day window"})
	}

	notifications, err := h.service.ListSince(c.Context(), user.ID, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(notifications)
}

// MarkRead handles both forms: with an :id parameter it marks that one
// notification (ownership enforced), without it marks all of the caller's
// unread notifications.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var id *uint
	if raw := c.Params("id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
		}
		v := uint(parsed)
		id = &v
	}

	if err := h.service.MarkRead(c.Context(), user.ID, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Notification not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	message := "All notifications marked as read"
	if id != nil {
		message = "Notification marked as read"
	}
	return c.JSON(fiber.Map{"status": "success", "message": message})
}
