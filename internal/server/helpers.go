package server

import (
	"strconv"

	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxPaginationLimit = 100

// messageResponse is the body of successful calls that return no resource.
type messageResponse struct {
	Message string `json:"message"`
}

// parsePagination reads optional limit and offset. No limit means every post.
func parsePagination(c *fiber.Ctx) (limit, offset int, err error) {
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, models.NewValidationError("limit must be a non-negative integer")
		}
		if limit > maxPaginationLimit {
			limit = maxPaginationLimit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, models.NewValidationError("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
}
