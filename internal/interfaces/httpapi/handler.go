package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/riskibarqy/flashscore-gateway/internal/usecase"
)

type Handler struct {
	tournamentService *usecase.TournamentService
	warmupService     *usecase.WarmupService
	idPrefix          string
	defaultSport      string
	logger            *logging.Logger
	validator         *validator.Validate
}

type HandlerOptions struct {
	IDPrefix     string
	DefaultSport string
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	warmupService *usecase.WarmupService,
	opts HandlerOptions,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService: tournamentService,
		warmupService:     warmupService,
		idPrefix:          strings.TrimSpace(opts.IDPrefix),
		defaultSport:      strings.TrimSpace(opts.DefaultSport),
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
