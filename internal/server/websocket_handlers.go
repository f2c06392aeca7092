package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"numbertalk/internal/auth"
	"numbertalk/internal/middleware"
)

// WebSocketUpgrade admits upgrade requests. Viewing is public; a valid token
// in the Authorization header or the token query parameter attributes the
// connection to its user.
func (s *Server) WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			token = c.Query("token")
		}
		if token != "" {
			if claims, err := s.userService.Authenticate(c.UserContext(), token); err == nil {
				setIdentity(c, claims)
			}
		}
		return c.Next()
	}
}

// BoardEventsHandler streams board events to one viewer.
// @Summary Live board events
// @Tags realtime
// @Router /ws [get]
func (s *Server) BoardEventsHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(localUserID).(string)

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("websocket registration refused",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
