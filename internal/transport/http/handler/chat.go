package handler

import (
	"net/http"

	"github.com/hr-compass/internal/application/chat"
	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type ChatHandler struct {
	svc chat.Service
	log *zap.Logger
}

func NewChatHandler(svc chat.Service, log *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(w, r, h.log, domain.ErrNoSession)
		return
	}
	var req domain.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Messages == nil {
		writeError(w, http.StatusBadRequest, "Invalid messages format")
		return
	}
	reply, err := h.svc.Relay(r.Context(), *sess, req.Messages)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
