package server

import (
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postHandler struct {
	svc PostAPI
}

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// updatePostRequest uses pointers so omitted and null fields stay untouched.
type updatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

// Create handles POST /api/posts
func (h *postHandler) Create(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	post, err := h.svc.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: auth.UserID(c),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// List handles GET /api/posts
func (h *postHandler) List(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	posts, err := h.svc.ListPosts(c.UserContext(), service.ListPostsInput{Limit: limit, Offset: offset})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// Get handles GET /api/posts/:id
func (h *postHandler) Get(c *fiber.Ctx) error {
	post, err := h.svc.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// Update handles PUT /api/posts/:id
func (h *postHandler) Update(c *fiber.Ctx) error {
	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	post, err := h.svc.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID: auth.UserID(c),
		PostID: c.Params("id"),
		Fields: models.PostUpdate{
			Title:    req.Title,
			Content:  req.Content,
			ImageURL: req.ImageURL,
		},
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// Delete handles DELETE /api/posts/:id
func (h *postHandler) Delete(c *fiber.Ctx) error {
	err := h.svc.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: auth.UserID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(messageResponse{Message: "Post deleted"})
}
