package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

// NotificationsHandler authenticates an upgraded connection and joins it to
// the caller's notification group. The bearer token travels in the "token"
// query parameter since the usual Authorization header flow does not apply
// to a websocket upgrade from a browser.
func NotificationsHandler(hub *Hub, auth ports.AuthService, log *zap.Logger) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		token := c.Query("token")
		if token == "" {
			c.Close()
			return
		}

		user, err := auth.ValidateToken(context.Background(), token)
		if err != nil || user == nil {
			// No identity, no group join.
			log.Debug("Rejected websocket connection", zap.Error(err))
			c.Close()
			return
		}

		sessionID := uuid.NewString()
		group := domain.NotificationGroup(user.ID)
		log.Info("Websocket session opened",
			zap.String("session_id", sessionID),
			zap.Uint("user_id", user.ID),
			zap.String("group", group),
		)
		hub.AddClient(c, group)
		log.Info("Websocket session closed",
			zap.String("session_id", sessionID),
			zap.Uint("user_id", user.ID),
		)
	}
}
