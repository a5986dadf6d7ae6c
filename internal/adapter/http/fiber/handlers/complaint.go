package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/adapter/http/fiber/middleware"
	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

type ComplaintHandler struct {
	service ports.ComplaintService
	log     *zap.Logger
}

func NewComplaintHandler(service ports.ComplaintService, log *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{service: service, log: log}
}

type CreateComplaintRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Latitude    float64 `json:"location_lat"`
	Longitude   float64 `json:"location_lng"`
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
}

func (h *ComplaintHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	complaint := domain.Complaint{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    domain.Category(req.Category),
		Severity:    domain.Severity(req.Severity),
	}

	if err := h.service.Create(c.Context(), &complaint); err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(complaint)
}

func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	complaints, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(complaints)
}

func (h *ComplaintHandler) ListMine(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	complaints, err := h.service.ListByUser(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(complaints)
}

func (h *ComplaintHandler) StatusHistory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid complaint id"})
	}

	statuses, err := h.service.StatusHistory(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Complaint not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(statuses)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ComplaintHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid complaint id"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	row, err := h.service.UpdateStatus(c.Context(), uint(id), domain.Status(req.Status))
	if err != nil {
		var verrs domain.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
		case errors.Is(err, ports.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Complaint not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}
