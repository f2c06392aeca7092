package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"numbertalk/internal/auth"
	"numbertalk/internal/authz"
	"numbertalk/internal/middleware"
	"numbertalk/internal/models"
	"numbertalk/internal/notifications"
)

const (
	localUserID = "userID"
	localActor  = "actor"
	localClaims = "claims"
)

// AuthRequired rejects requests without a valid, unrevoked bearer token.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.userService.Authenticate(c.UserContext(), token)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		setIdentity(c, claims)
		return c.Next()
	}
}

// setIdentity stores the token subject for handlers, logs and rate limits.
func setIdentity(c *fiber.Ctx, claims *auth.Claims) {
	actor := claims.Actor()
	c.Locals(localUserID, actor.ID)
	c.Locals(localActor, actor)
	c.Locals(localClaims, claims)
	c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, actor.ID))
}

// actorFrom returns the authenticated actor, or the zero actor on public routes.
func actorFrom(c *fiber.Ctx) authz.Actor {
	actor, _ := c.Locals(localActor).(authz.Actor)
	return actor
}

func claimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(localClaims).(*auth.Claims)
	return claims
}

// parseBody decodes the JSON body. On failure it writes a 400 and reports false.
func parseBody(c *fiber.Ctx, dest any) bool {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return false
	}
	return true
}

// data wraps a payload in the success envelope.
func data(payload any) fiber.Map {
	return fiber.Map{"data": payload}
}

// publishBoardEvent sends an event to every viewer. With Redis the event goes
// through the shared channel so other instances see it too; without Redis it
// is delivered to this instance's hub directly.
func (s *Server) publishBoardEvent(ctx context.Context, eventType string, payload any) {
	message, err := notifications.Encode(eventType, payload)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode board event", slog.String("error", err.Error()))
		return
	}

	if s.notifier.Enabled() {
		if err := s.notifier.PublishBoard(context.WithoutCancel(ctx), message); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish board event",
				slog.String("type", eventType),
				slog.String("error", err.Error()))
			s.hub.BroadcastAll(message)
		}
		return
	}
	s.hub.BroadcastAll(message)
}
