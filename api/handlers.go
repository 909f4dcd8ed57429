// Package api is the thin HTTP layer over the services: routing, body
// parsing and status mapping. No business rule lives here.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
	"collab-chat/services"
)

type Handler struct {
	users         *services.UserService
	messaging     *services.MessagingService
	notifications *services.NotificationService
	log           *slog.Logger
}

func NewHandler(
	users *services.UserService,
	messaging *services.MessagingService,
	notifications *services.NotificationService,
	log *slog.Logger,
) *Handler {
	return &Handler{users: users, messaging: messaging, notifications: notifications, log: log}
}

// ---- users ----

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.RetrieveAllUsers()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lo.Map(users, func(u domain.User, _ int) UserResponse { return toUserResponse(u) }))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("test") == "true" {
		users, err := h.users.CreateTestUsers(queryCount(r, 2))
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, lo.Map(users, func(u domain.User, _ int) UserResponse { return toUserResponse(u) }))
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.users.CreateUser(services.CreateUserCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Nickname:  req.Nickname,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.RetrieveUser(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) ModifyUser(w http.ResponseWriter, r *http.Request) {
	var req ModifyUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.users.ModifyUser(domain.User{
		UserID:   chi.URLParam(r, "id"),
		Nickname: req.Nickname,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ---- chat rooms ----

func (h *Handler) ListChatRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.messaging.RetrieveAllChatRooms()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lo.Map(rooms, func(c domain.ChatRoom, _ int) ChatRoomResponse { return toChatRoomResponse(c) }))
}

func (h *Handler) CreateChatRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	room, err := h.messaging.CreateChatRoom(services.CreateChatRoomCommand{
		Topic:             req.Topic,
		CreatorUserID:     req.CreatorUserID,
		ParticipantUserID: req.ParticipantUserID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toChatRoomResponse(room))
}

func (h *Handler) GetChatRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.messaging.RetrieveChatRoom(chi.URLParam(r, "chatroomID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toChatRoomResponse(room))
}

func (h *Handler) ModifyChatRoom(w http.ResponseWriter, r *http.Request) {
	var req ModifyChatRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	room, err := h.messaging.ModifyChatRoom(domain.ChatRoom{
		ChatRoomID: chi.URLParam(r, "chatroomID"),
		Topic:      req.Topic,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toChatRoomResponse(room))
}

// ---- chat messages ----

func (h *Handler) ListChatMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messaging.RetrieveAllChatMessages(chi.URLParam(r, "chatroomID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lo.Map(messages, func(m domain.ChatMessage, _ int) ChatMessageResponse { return toChatMessageResponse(m) }))
}

func (h *Handler) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	chatRoomID := chi.URLParam(r, "chatroomID")

	if r.URL.Query().Get("test") == "true" {
		messages, err := h.messaging.CreateTestMessages(chatRoomID, queryCount(r, 2))
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, lo.Map(messages, func(m domain.ChatMessage, _ int) ChatMessageResponse { return toChatMessageResponse(m) }))
		return
	}

	var req PostChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	message, err := h.messaging.PostChatMessage(services.PostChatMessageCommand{
		ChatRoomID:        chatRoomID,
		FromParticipantID: req.FromParticipantID,
		Message:           req.Message,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toChatMessageResponse(message))
}

func (h *Handler) GetChatMessage(w http.ResponseWriter, r *http.Request) {
	message, err := h.messaging.RetrieveChatMessage(chi.URLParam(r, "messageID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toChatMessageResponse(message))
}

func (h *Handler) ModifyChatMessage(w http.ResponseWriter, r *http.Request) {
	var req ModifyChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	message, err := h.messaging.ModifyChatMessage(domain.ChatMessage{
		ChatMessageID: chi.URLParam(r, "messageID"),
		ReadReceipt:   req.ReadReceipt,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toChatMessageResponse(message))
}

// ---- notifications ----

// GetNotifications serves the poll endpoint. With test=true it manufactures
// activity in the named room instead of scanning; otherwise lastTimestamp
// (Unix milliseconds) bounds the change scan.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("test") == "true" {
		chatRoomID := r.URL.Query().Get("chatroomID")
		if chatRoomID == "" {
			h.writeError(w, http.StatusBadRequest, "chatroomID is required with test=true")
			return
		}
		notifications, err := h.notifications.SimulateActivity(chatRoomID, queryCount(r, 2))
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, lo.Map(notifications, func(n domain.Notification, _ int) NotificationResponse { return toNotificationResponse(n) }))
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("lastTimestamp"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "lastTimestamp must be Unix milliseconds")
			return
		}
		since = time.UnixMilli(ms)
	}

	notifications, err := h.notifications.CheckForNewEvents(since)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lo.Map(notifications, func(n domain.Notification, _ int) NotificationResponse { return toNotificationResponse(n) }))
}

// ---- helpers ----

func queryCount(r *http.Request, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("num"))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErrs):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrCorruptRecord), errors.Is(err, apperrors.ErrIntegrityFault):
		h.log.Error("data integrity problem", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		h.log.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
