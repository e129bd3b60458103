package server

import (
	"blog/internal/auth"
	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type likeHandler struct {
	svc LikeAPI
}

// List handles GET /api/likes/:postId
func (h *likeHandler) List(c *fiber.Ctx) error {
	summary, err := h.svc.ListLikes(c.UserContext(), c.Params("postId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(summary)
}

// Toggle handles POST /api/likes/:postId
func (h *likeHandler) Toggle(c *fiber.Ctx) error {
	res, err := h.svc.ToggleLike(c.UserContext(), c.Params("postId"), auth.UserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(res)
}
