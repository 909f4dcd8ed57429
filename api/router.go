package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the resource endpoints. Routes mirror the public resource
// identifiers: rooms and users at the top level, messages nested under their
// room, and a single poll endpoint observing changes across all kinds.
func NewRouter(h *Handler, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.ModifyUser)
	})

	r.Route("/chatrooms", func(r chi.Router) {
		r.Get("/", h.ListChatRooms)
		r.Post("/", h.CreateChatRoom)
		r.Get("/{chatroomID}", h.GetChatRoom)
		r.Put("/{chatroomID}", h.ModifyChatRoom)

		r.Route("/{chatroomID}/chatmessages", func(r chi.Router) {
			r.Get("/", h.ListChatMessages)
			r.Post("/", h.PostChatMessage)
			r.Get("/{messageID}", h.GetChatMessage)
			r.Put("/{messageID}", h.ModifyChatMessage)
		})
	})

	r.Get("/notifications", h.GetNotifications)

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}
