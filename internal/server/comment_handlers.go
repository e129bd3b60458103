package server

import (
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentHandler struct {
	svc CommentAPI
}

// List handles GET /api/comments/:postId
func (h *commentHandler) List(c *fiber.Ctx) error {
	comments, err := h.svc.ListComments(c.UserContext(), c.Params("postId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comments)
}

// Add handles POST /api/comments/:postId
func (h *commentHandler) Add(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	comment, err := h.svc.AddComment(c.UserContext(), service.AddCommentInput{
		PostID:   c.Params("postId"),
		AuthorID: auth.UserID(c),
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// Delete handles DELETE /api/comments/delete/:id
func (h *commentHandler) Delete(c *fiber.Ctx) error {
	err := h.svc.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    auth.UserID(c),
		CommentID: c.Params("id"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(messageResponse{Message: "Comment deleted"})
}
