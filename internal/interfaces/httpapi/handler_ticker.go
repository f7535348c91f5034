package httpapi

import "net/http"

func (h *Handler) GetTicker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTicker")
	defer span.End()

	out := tickerDTO{Games: []tickerGameDTO{}}
	if h.ticker == nil {
		writeSuccess(ctx, w, http.StatusOK, out)
		return
	}

	games, updatedAt := h.ticker.Games()
	out.Enabled = true
	if !updatedAt.IsZero() {
		out.UpdatedAt = &updatedAt
	}
	for _, game := range games {
		out.Games = append(out.Games, toTickerGameDTO(game))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
