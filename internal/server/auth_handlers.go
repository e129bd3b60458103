package server

import (
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type authHandler struct {
	svc UserAPI
}

// Register handles POST /api/auth/register
func (h *authHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	res, err := h.svc.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login handles POST /api/auth/login
func (h *authHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	res, err := h.svc.Login(c.UserContext(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}

// Logout handles POST /api/auth/logout
func (h *authHandler) Logout(c *fiber.Ctx) error {
	if err := h.svc.Logout(c.UserContext(), auth.ClaimsFrom(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(messageResponse{Message: "Logged out"})
}

// Me handles GET /api/auth/me
func (h *authHandler) Me(c *fiber.Ctx) error {
	user, err := h.svc.Me(c.UserContext(), auth.UserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}
