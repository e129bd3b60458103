package server

import "github.com/gofiber/fiber/v2"

// route is one API endpoint. auth routes require a bearer token; write routes
// are also rate limited per user.
type route struct {
	method  string
	path    string
	auth    bool
	write   bool
	handler fiber.Handler
}

func (s *Server) routes() []route {
	return []route{
		{fiber.MethodPost, "/api/auth/register", false, false, s.users.Register},
		{fiber.MethodPost, "/api/auth/login", false, false, s.users.Login},
		{fiber.MethodPost, "/api/auth/logout", true, false, s.users.Logout},
		{fiber.MethodGet, "/api/auth/me", true, false, s.users.Me},
		{fiber.MethodGet, "/api/feature-flags", true, false, s.GetFeatureFlags},

		{fiber.MethodPost, "/api/posts", true, true, s.posts.Create},
		{fiber.MethodGet, "/api/posts", false, false, s.posts.List},
		{fiber.MethodGet, "/api/posts/:id", false, false, s.posts.Get},
		{fiber.MethodPut, "/api/posts/:id", true, true, s.posts.Update},
		{fiber.MethodDelete, "/api/posts/:id", true, true, s.posts.Delete},

		{fiber.MethodGet, "/api/comments/:postId", false, false, s.comments.List},
		{fiber.MethodPost, "/api/comments/:postId", true, true, s.comments.Add},
		{fiber.MethodDelete, "/api/comments/delete/:id", true, true, s.comments.Delete},

		{fiber.MethodGet, "/api/likes/:postId", false, false, s.likes.List},
		{fiber.MethodPost, "/api/likes/:postId", true, true, s.likes.Toggle},

		{fiber.MethodGet, "/api/ws/feed", false, false, s.feedUpgrade},
	}
}
