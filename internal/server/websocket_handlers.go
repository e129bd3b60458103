package server

import (
	"log/slog"

	"blog/internal/middleware"
	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// feedUpgrade handles GET /api/ws/feed. The feed is public; a valid token in
// ?token= tags the connection with the reader's user ID.
func (s *Server) feedUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if raw := c.Query("token"); raw != "" {
		claims, err := s.tokens.Verify(c.UserContext(), raw)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		c.Locals("userID", claims.Subject)
	}
	return s.feedSocket(c)
}

func (s *Server) newFeedSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("feed connection rejected", slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
