package httpapi

import (
	"net/http"

	"github.com/riskibarqy/courtside/internal/domain/chat"
	"github.com/riskibarqy/courtside/internal/usecase"
)

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChat")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.chatView())
}

func (h *Handler) SelectChatScope(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectChatScope")
	defer span.End()

	var req chatScopeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "select chat scope failed", err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, "select chat scope failed", err)
		return
	}

	mode, _ := chat.ParseMode(req.Mode)
	if _, err := h.chat.SelectScope(ctx, usecase.SelectChatScopeInput{
		Mode:    mode,
		CourtID: req.CourtID,
	}); err != nil {
		h.fail(ctx, w, "select chat scope failed", err, "mode", req.Mode, "court_id", req.CourtID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.chatView())
}

func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendChatMessage")
	defer span.End()

	var req chatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "send chat message failed", err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, "send chat message failed", err)
		return
	}

	created, err := h.chat.Send(ctx, req.Message)
	if err != nil {
		h.fail(ctx, w, "send chat message failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toChatMessageDTO(created, h.clock.Now()))
}

func (h *Handler) SetChatPanel(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetChatPanel")
	defer span.End()

	var req chatPanelRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "set chat panel failed", err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, "set chat panel failed", err)
		return
	}

	h.chat.SetPanelOpen(*req.Open)
	writeSuccess(ctx, w, http.StatusOK, h.chatView())
}

func (h *Handler) chatView() chatDTO {
	now := h.clock.Now()
	out := chatDTO{
		Unread:   h.chat.Unread(),
		Messages: []chatMessageDTO{},
	}

	scope, active := h.chat.Scope()
	if !active {
		return out
	}
	out.Active = true
	out.Scope = toChatScopeDTO(scope)
	for _, item := range h.chat.Messages() {
		out.Messages = append(out.Messages, toChatMessageDTO(item, now))
	}
	return out
}
