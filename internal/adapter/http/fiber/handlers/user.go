package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/adapter/http/fiber/middleware"
	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

type UserHandler struct {
	service ports.UserService
	log     *zap.Logger
}

func NewUserHandler(service ports.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

type AddUserRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
	Profile struct {
		Role    string `json:"role"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	} `json:"profile"`
	Specialization string `json:"specialization"`
}

// AddWorkerOrUser is admin-only (enforced by route middleware): it creates a
// user with its profile and, for role=worker, the linked worker record.
func (h *UserHandler) AddWorkerOrUser(c *fiber.Ctx) error {
	var req AddUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := domain.User{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	}
	profile := domain.Profile{
		Role:    domain.Role(req.Profile.Role),
		Phone:   req.Profile.Phone,
		Address: req.Profile.Address,
	}

	err := h.service.CreateWithProfile(c.Context(), &user, &profile, domain.Category(req.Specialization))
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User and profile created successfully.",
	})
}

func (h *UserHandler) ListAll(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(users)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return c.JSON(user)
}
