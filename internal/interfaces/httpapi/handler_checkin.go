package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/courtside/internal/usecase"
)

const (
	remotePending   = "pending"
	remoteConfirmed = "confirmed"
	remoteFailed    = "failed"
)

// CheckIn applies the check-in locally and answers before the remote write
// settles, unless the caller asks to wait with ?wait=true.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckIn")
	defer span.End()

	wait, err := parseWait(r)
	if err != nil {
		h.fail(ctx, w, "check in failed", err)
		return
	}

	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(ctx, w, "check in failed", err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.fail(ctx, w, "check in failed", err)
		return
	}

	pending, err := h.checkIns.CheckIn(ctx, usecase.CheckInInput{
		CourtID:    req.CourtID,
		Duration:   req.Duration,
		PlayerName: req.PlayerName,
	})
	if err != nil {
		h.fail(ctx, w, "check in failed", err, "court_id", req.CourtID)
		return
	}

	h.writePending(ctx, w, pending, wait)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckOut")
	defer span.End()

	wait, err := parseWait(r)
	if err != nil {
		h.fail(ctx, w, "check out failed", err)
		return
	}

	pending, err := h.checkIns.CheckOut(ctx)
	if err != nil {
		h.fail(ctx, w, "check out failed", err)
		return
	}

	h.writePending(ctx, w, pending, wait)
}

func (h *Handler) writePending(ctx context.Context, w http.ResponseWriter, pending *usecase.Pending, wait bool) {
	if wait {
		_ = pending.Wait(ctx)
		if err := ctx.Err(); err != nil {
			h.fail(ctx, w, "wait for remote write failed", err)
			return
		}
	}

	result := checkInResultDTO{
		Session: toSessionDTO(h.onboarding.Session(ctx)),
		Remote:  remotePending,
	}
	status := http.StatusAccepted
	select {
	case <-pending.Done():
		status = http.StatusOK
		result.Remote = remoteConfirmed
		if err := pending.Err(); err != nil {
			result.Remote = remoteFailed
			result.RemoteError = err.Error()
		}
	default:
	}

	writeSuccess(ctx, w, status, result)
}

func parseWait(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("wait"))
	if raw == "" {
		return false, nil
	}
	wait, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: wait must be a boolean", usecase.ErrInvalidInput)
	}
	return wait, nil
}
