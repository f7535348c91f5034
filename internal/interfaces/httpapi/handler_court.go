package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/courtside/internal/domain/court"
	"github.com/riskibarqy/courtside/internal/usecase"
)

func (h *Handler) ListCourts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCourts")
	defer span.End()

	query, err := parseCourtQuery(r)
	if err != nil {
		h.fail(ctx, w, "list courts failed", err)
		return
	}

	items, err := h.courts.List(ctx, query)
	if err != nil {
		h.fail(ctx, w, "list courts failed", err, "filter", string(query.Filter), "sort", string(query.Sort))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toCourtDTOs(items))
}

func (h *Handler) GetCourt(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCourt")
	defer span.End()

	courtID, err := strconv.Atoi(strings.TrimSpace(r.PathValue("courtID")))
	if err != nil || courtID <= 0 {
		h.fail(ctx, w, "get court failed", fmt.Errorf("%w: court id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	item, err := h.courts.Get(ctx, courtID)
	if err != nil {
		h.fail(ctx, w, "get court failed", err, "court_id", courtID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toCourtDTO(item))
}

func (h *Handler) GetCourtStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCourtStats")
	defer span.End()

	stats, err := h.courts.Stats(ctx)
	if err != nil {
		h.fail(ctx, w, "get court stats failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toCourtStatsDTO(stats))
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatus")
	defer span.End()

	summary, err := h.courts.Summary(ctx)
	if err != nil {
		h.fail(ctx, w, "get status failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statusDTO{
		CourtsActive: summary.CourtsActive,
		PlayersOut:   summary.PlayersOut,
		CourtsLabel:  summary.CourtsLabel(),
		PlayersLabel: summary.PlayersLabel(),
	})
}

func (h *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOccupancy")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, occupancyDTO{Counts: h.occupancy.Counts()})
}

func (h *Handler) RefreshOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshOccupancy")
	defer span.End()

	if err := h.occupancy.Refresh(ctx); err != nil {
		h.fail(ctx, w, "refresh occupancy failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, occupancyDTO{Counts: h.occupancy.Counts()})
}

func parseCourtQuery(r *http.Request) (court.Query, error) {
	values := r.URL.Query()

	filter, ok := court.ParseFilter(values.Get("filter"))
	if !ok {
		return court.Query{}, fmt.Errorf("%w: unknown filter %q", usecase.ErrInvalidInput, values.Get("filter"))
	}
	sortKey, ok := court.ParseSort(values.Get("sort"))
	if !ok {
		return court.Query{}, fmt.Errorf("%w: unknown sort %q", usecase.ErrInvalidInput, values.Get("sort"))
	}

	return court.Query{
		Filter: filter,
		Sort:   sortKey,
		Search: strings.TrimSpace(values.Get("q")),
	}, nil
}
