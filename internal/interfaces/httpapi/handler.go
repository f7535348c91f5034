package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/riskibarqy/courtside/internal/usecase"
)

// Handler serves the local JSON API over the client core services.
type Handler struct {
	onboarding *usecase.OnboardingService
	courts     *usecase.CourtService
	occupancy  *usecase.OccupancyService
	checkIns   *usecase.CheckInService
	broadcasts *usecase.BroadcastService
	chat       *usecase.ChatService
	ticker     *usecase.TickerService
	clock      clockwork.Clock
	logger     *logging.Logger
	validator  *validator.Validate
}

type Services struct {
	Onboarding *usecase.OnboardingService
	Courts     *usecase.CourtService
	Occupancy  *usecase.OccupancyService
	CheckIns   *usecase.CheckInService
	Broadcasts *usecase.BroadcastService
	Chat       *usecase.ChatService
	// Ticker is nil when the scoreboard ticker is disabled.
	Ticker *usecase.TickerService
}

func NewHandler(services Services, clock clockwork.Clock, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Handler{
		onboarding: services.Onboarding,
		courts:     services.Courts,
		occupancy:  services.Occupancy,
		checkIns:   services.CheckIns,
		broadcasts: services.Broadcasts,
		chat:       services.Chat,
		ticker:     services.Ticker,
		clock:      clock,
		logger:     logger,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %s", usecase.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
	}
	return strings.Join(parts, "; ")
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	h.logger.WarnContext(ctx, msg, args...)
	writeError(ctx, w, err)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
