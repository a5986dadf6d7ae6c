package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

type WorkerHandler struct {
	service ports.WorkerService
	log     *zap.Logger
}

func NewWorkerHandler(service ports.WorkerService, log *zap.Logger) *WorkerHandler {
	return &WorkerHandler{service: service, log: log}
}

func (h *WorkerHandler) List(c *fiber.Ctx) error {
	workers, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(workers)
}

func (h *WorkerHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.service.ListTasks(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tasks)
}

func (h *WorkerHandler) ListTasksByWorker(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid worker id"})
	}

	tasks, err := h.service.ListTasksByWorker(c.Context(), uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tasks)
}

type AssignTaskRequest struct {
	WorkerID    uint `json:"worker_id"`
	ComplaintID uint `json:"complaint_id"`
}

func (h *WorkerHandler) AssignTask(c *fiber.Ctx) error {
	var req AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := h.service.AssignTask(c.Context(), req.WorkerID, req.ComplaintID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker or complaint not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

type CreateWorkerRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

func (h *WorkerHandler) Create(c *fiber.Ctx) error {
	var req CreateWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	worker := domain.Worker{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Specialization: domain.Category(req.Specialization),
		Active:         true,
	}
	if err := h.service.Create(c.Context(), &worker); err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(worker)
}
