package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/flashscore-gateway/internal/usecase"
)

type warmupJobRequest struct {
	Targets []string `json:"targets" validate:"omitempty,max=100,dive,required,max=512"`
}

func (h *Handler) RunWarmupJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmupJob")
	defer span.End()

	if h.warmupService == nil {
		writeError(ctx, w, fmt.Errorf("%w: warmup is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeWarmupJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.warmupService.Run(ctx, req.Targets)
	if err != nil {
		h.logger.WarnContext(ctx, "run warmup job failed", "targets", len(req.Targets), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeWarmupJobRequest(r *http.Request) (warmupJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req warmupJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return warmupJobRequest{}, nil
		}
		return warmupJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	targets := req.Targets[:0]
	for _, target := range req.Targets {
		if target = strings.TrimSpace(target); target != "" {
			targets = append(targets, target)
		}
	}
	req.Targets = targets
	return req, nil
}
