package router

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"socialstream/backend/handlers"
)

// New wires the REST and websocket endpoints and wraps the mux with
// panic recovery.
func New(api *handlers.API, log *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", api.HandleWebSocket)

	mux.HandleFunc("/api/signup", api.SignupHandler)
	mux.HandleFunc("/api/login", api.LoginHandler)
	mux.HandleFunc("/api/logout", api.LogoutHandler)
	mux.HandleFunc("/api/session", api.SessionHandler)
	mux.HandleFunc("/api/posts", api.PostsHandler)
	mux.HandleFunc("/api/posts/", api.PostSubresourceHandler)
	mux.HandleFunc("/api/profile/image", api.ProfileImageHandler)
	mux.HandleFunc("/api/history", api.HistoryHandler)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})

	return RecoveryMiddleware(mux, log)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// RecoveryMiddleware turns handler panics into a JSON 500 instead of
// a dropped connection.
func RecoveryMiddleware(next http.Handler, log *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorw("handler panic recovered", "path", r.URL.Path, "panic", err)
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
