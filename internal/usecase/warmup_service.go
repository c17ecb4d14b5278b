package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
)

const (
	warmupStatusOK       = "ok"
	warmupStatusFallback = "fallback"
	warmupStatusFailed   = "failed"

	defaultWarmupWorkers = 2
)

type WarmupResult struct {
	TargetCount   int                  `json:"target_count"`
	OKCount       int                  `json:"ok_count"`
	FallbackCount int                  `json:"fallback_count"`
	FailedCount   int                  `json:"failed_count"`
	WorkerCount   int                  `json:"worker_count"`
	Targets       []WarmupTargetResult `json:"targets"`
}

type WarmupTargetResult struct {
	Target     string            `json:"target"`
	EntityID   string            `json:"entity_id,omitempty"`
	Status     string            `json:"status"`
	TabSources map[string]string `json:"tab_sources,omitempty"`
	DurationMs int64             `json:"duration_ms"`
	Message    string            `json:"message,omitempty"`
}

// WarmupService refreshes snapshots of a fixed list of tournaments so that
// fallbacks have recent data even for rarely requested pages.
type WarmupService struct {
	tournaments *TournamentService
	targets     []string
	idPrefix    string
	maxWorkers  int
	logger      *logging.Logger
}

func NewWarmupService(tournaments *TournamentService, targets []string, idPrefix string, maxWorkers int, logger *logging.Logger) *WarmupService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = defaultWarmupWorkers
	}
	return &WarmupService{
		tournaments: tournaments,
		targets:     targets,
		idPrefix:    idPrefix,
		maxWorkers:  maxWorkers,
		logger:      logger,
	}
}

func (s *WarmupService) Targets() []string {
	out := make([]string, len(s.targets))
	copy(out, s.targets)
	return out
}

// Run refreshes targets, or the configured targets when targets is empty.
func (s *WarmupService) Run(ctx context.Context, targets []string) (WarmupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmupService.Run")
	defer span.End()

	if len(targets) == 0 {
		targets = s.targets
	}
	queries := make([]TournamentQuery, 0, len(targets))
	labels := make([]string, 0, len(targets))
	for _, raw := range targets {
		query, err := ParseTournamentTarget(raw, s.idPrefix)
		if err != nil {
			return WarmupResult{}, err
		}
		queries = append(queries, query)
		labels = append(labels, strings.TrimSpace(raw))
	}

	workerCount := min(s.maxWorkers, max(len(queries), 1))
	result := WarmupResult{
		TargetCount: len(queries),
		WorkerCount: workerCount,
		Targets:     make([]WarmupTargetResult, len(queries)),
	}
	if len(queries) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return WarmupResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var okCount, fallbackCount, failedCount atomic.Int32
	var workers sync.WaitGroup
	for i, query := range queries {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.warmOne(ctx, labels[i], query)
			switch row.Status {
			case warmupStatusOK:
				okCount.Add(1)
			case warmupStatusFallback:
				fallbackCount.Add(1)
			default:
				failedCount.Add(1)
			}
			result.Targets[i] = row
		}); err != nil {
			workers.Done()
			return WarmupResult{}, fmt.Errorf("submit warmup task: %w", err)
		}
	}
	workers.Wait()

	result.OKCount = int(okCount.Load())
	result.FallbackCount = int(fallbackCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "snapshot warmup finished",
		"targets", result.TargetCount,
		"ok", result.OKCount,
		"fallback", result.FallbackCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *WarmupService) warmOne(ctx context.Context, label string, query TournamentQuery) WarmupTargetResult {
	start := time.Now()
	row := WarmupTargetResult{Target: label}

	out, err := s.tournaments.Get(ctx, query)
	row.DurationMs = time.Since(start).Milliseconds()
	row.EntityID = out.EntityID
	if len(out.Sources) > 0 {
		row.TabSources = make(map[string]string, len(out.Sources))
		for tab, source := range out.Sources {
			row.TabSources[string(tab)] = string(source)
		}
	}

	switch {
	case err != nil:
		row.Status = warmupStatusFailed
		row.Message = err.Error()
		s.logger.WarnContext(ctx, "snapshot warmup target failed", "target", label, "error", err)
	case out.Fallback:
		row.Status = warmupStatusFallback
	default:
		row.Status = warmupStatusOK
	}
	return row
}

// ParseTournamentTarget reads a target written either as an opaque id
// ("fs-AbC123", "42") or as a query string
// ("tournament_id=500&season_id=2026&sport=football").
func ParseTournamentTarget(raw, idPrefix string) (TournamentQuery, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TournamentQuery{}, fmt.Errorf("%w: empty warmup target", ErrInvalidInput)
	}
	if !strings.Contains(raw, "=") {
		return NewTournamentQuery(raw, "", "", tournament.Reference{}, idPrefix)
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return TournamentQuery{}, fmt.Errorf("%w: parse warmup target %q: %v", ErrInvalidInput, raw, err)
	}
	ref := tournament.Reference{
		TournamentID: values.Get("tournament_id"),
		StageID:      values.Get("tournament_stage_id"),
		TemplateID:   values.Get("tournament_template_id"),
		SeasonID:     values.Get("season_id"),
		DrawStageID:  values.Get("draw_stage_id"),
	}
	return NewTournamentQuery(values.Get("id"), values.Get("url"), values.Get("sport"), ref, idPrefix)
}

var errEmptyTournamentQuery = errors.New("one of id, url or a tournament identifier is required")

// NewTournamentQuery builds a query from inbound parameters. An id carrying
// idPrefix is an external stage id.
func NewTournamentQuery(id, rawURL, sport string, ref tournament.Reference, idPrefix string) (TournamentQuery, error) {
	id = strings.TrimSpace(id)
	ref = ref.Normalize()
	ref.URL = firstNonBlank(ref.URL, strings.TrimSpace(rawURL))

	query := TournamentQuery{
		OpaqueID:  id,
		Reference: ref,
		Sport:     strings.TrimSpace(sport),
	}
	if idPrefix != "" && len(id) > len(idPrefix) && strings.EqualFold(id[:len(idPrefix)], idPrefix) {
		query.ExternalStageID = strings.TrimSpace(id[len(idPrefix):])
	}

	if query.OpaqueID == "" && ref.IsZero() {
		return TournamentQuery{}, fmt.Errorf("%w: %v", ErrInvalidInput, errEmptyTournamentQuery)
	}
	return query, nil
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
