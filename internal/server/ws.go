package server

import (
	"net/http"

	"activsante/internal/reco"
	"activsante/internal/utility"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow CORS for development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// recommendationSocketHandler streams store snapshots to the browser so the
// prescription and conseils pages re-render on every state change.
func (s *Server) recommendationSocketHandler(c echo.Context) error {
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Str("user_id", userID).Msg("Recommendation socket connected")

	store := s.registry.Get(userID)

	// Snapshots arrive synchronously from store updates; buffer a few and drop
	// the oldest rather than block the updater behind a slow socket.
	snapshots := make(chan reco.Snapshot, 8)
	subID := store.Subscribe(func(snap reco.Snapshot) {
		for {
			select {
			case snapshots <- snap:
				return
			default:
				// Buffer full: drop the oldest snapshot and retry.
				select {
				case <-snapshots:
				default:
				}
			}
		}
	})
	defer store.Unsubscribe(subID)

	// Read pump: we only care about the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap := <-snapshots:
			if err := conn.WriteJSON(snap); err != nil {
				log.Info().Str("user_id", userID).Err(err).Msg("Recommendation socket closed")
				return nil
			}
		case <-done:
			log.Info().Str("user_id", userID).Msg("Recommendation socket disconnected")
			return nil
		}
	}
}
