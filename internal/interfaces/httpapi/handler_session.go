package httpapi

import (
	"net/http"
)

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, toSessionDTO(h.onboarding.Session(ctx)))
}

func (h *Handler) SetSessionName(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetSessionName")
	defer span.End()

	var req setNameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "set session name failed", err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, "set session name failed", err)
		return
	}

	view, err := h.onboarding.SetName(ctx, *req.Name)
	if err != nil {
		h.fail(ctx, w, "set session name failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toSessionDTO(view))
}
