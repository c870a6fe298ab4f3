package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"socialstream/backend/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /ws
func (a *API) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Debugw("websocket upgrade failed", "error", err)
		return
	}

	session := realtime.NewSession(conn, a.hub, a.registry, a.messenger, a.store, a.log)
	session.Run()
}
