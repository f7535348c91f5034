package httpapi

import (
	"net/http"

	"github.com/riskibarqy/courtside/internal/usecase"
)

func (h *Handler) ListBroadcasts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBroadcasts")
	defer span.End()

	now := h.clock.Now()
	items := h.broadcasts.List()
	out := make([]broadcastDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toBroadcastDTO(item, now))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) PublishBroadcast(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishBroadcast")
	defer span.End()

	var req publishBroadcastRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "publish broadcast failed", err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, "publish broadcast failed", err)
		return
	}

	created, err := h.broadcasts.Publish(ctx, usecase.PublishBroadcastInput{
		Message:       req.Message,
		PlayerName:    req.PlayerName,
		CourtName:     req.CourtName,
		PlayersNeeded: req.PlayersNeeded,
		SkillLevel:    req.SkillLevel,
		RunType:       req.RunType,
	})
	if err != nil {
		h.fail(ctx, w, "publish broadcast failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toBroadcastDTO(created, h.clock.Now()))
}

func (h *Handler) DismissBroadcast(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DismissBroadcast")
	defer span.End()

	broadcastID := r.PathValue("broadcastID")
	if err := h.broadcasts.Dismiss(broadcastID); err != nil {
		h.fail(ctx, w, "dismiss broadcast failed", err, "broadcast_id", broadcastID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"dismissed": broadcastID})
}
