package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/payload"
	"github.com/sourcegraph/conc"
)

type TournamentQuery struct {
	// OpaqueID is the caller's id with any marker prefix still attached. It
	// keys phase configs and is the last-resort snapshot key.
	OpaqueID        string
	ExternalStageID string
	Reference       tournament.Reference
	Sport           string
}

type TournamentResult struct {
	Reference tournament.Reference
	EntityID  string
	Tabs      map[tournament.Tab]any
	Sources   map[tournament.Tab]tournament.Source
	Fallback  bool
	Debug     TournamentDebug
}

// Data returns the payload served for tab, or its empty shape.
func (r TournamentResult) Data(tab tournament.Tab) any {
	if value, ok := r.Tabs[tab]; ok {
		return value
	}
	return tab.Empty()
}

type TournamentDebug struct {
	Resolve        ResolveResult     `json:"resolve"`
	TabErrors      map[string]string `json:"tabErrors,omitempty"`
	SkippedTabs    []string          `json:"skippedTabs,omitempty"`
	CustomZones    bool              `json:"customZones"`
	FallbackReason string            `json:"fallbackReason,omitempty"`
	ElapsedMs      int64             `json:"elapsedMs"`
}

// TournamentService assembles every tab of one tournament. Tabs are fetched
// concurrently and fail independently; a tab without live data is served
// from its snapshot when one exists.
type TournamentService struct {
	resolver  *IdentifierResolver
	provider  TournamentProvider
	snapshots *SnapshotStore
	phases    tournament.PhaseConfigRepository
	logger    *logging.Logger
}

func NewTournamentService(
	resolver *IdentifierResolver,
	provider TournamentProvider,
	snapshots *SnapshotStore,
	phases tournament.PhaseConfigRepository,
	logger *logging.Logger,
) *TournamentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TournamentService{
		resolver:  resolver,
		provider:  provider,
		snapshots: snapshots,
		phases:    phases,
		logger:    logger,
	}
}

type tabOutcome struct {
	tab     tournament.Tab
	data    any
	source  tournament.Source
	err     error
	skipped bool
}

// Get resolves query and returns the merged tab document. When the pipeline
// itself fails every tab is read from snapshots and the result is flagged as
// a fallback; ErrTournamentUnavailable is returned when no snapshot exists.
func (s *TournamentService) Get(ctx context.Context, query TournamentQuery) (TournamentResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Get")
	defer span.End()

	started := time.Now()
	known := &knownReference{ref: query.Reference.Normalize()}

	result, err := s.aggregate(ctx, query, known)
	if err == nil {
		result.Debug.ElapsedMs = time.Since(started).Milliseconds()
		return result, nil
	}

	s.logger.ErrorContext(ctx, "tournament pipeline failed, serving snapshots",
		"id", query.OpaqueID,
		"error", err,
	)
	result, fallbackErr := s.fallback(ctx, query, known.get(), err)
	result.Debug.ElapsedMs = time.Since(started).Milliseconds()
	return result, fallbackErr
}

// knownReference tracks the most complete reference seen so far so the
// fallback can key snapshots even after a panic.
type knownReference struct {
	mu  sync.Mutex
	ref tournament.Reference
}

func (k *knownReference) set(ref tournament.Reference) {
	k.mu.Lock()
	k.ref = ref
	k.mu.Unlock()
}

func (k *knownReference) get() tournament.Reference {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.ref
}

func (s *TournamentService) aggregate(ctx context.Context, query TournamentQuery, known *knownReference) (result TournamentResult, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("tournament pipeline panic: %v", recovered)
		}
	}()

	resolution := s.resolver.Resolve(ctx, ResolveInput{
		Reference:       query.Reference,
		ExternalStageID: query.ExternalStageID,
		Sport:           query.Sport,
	})
	ref := resolution.Reference
	known.set(ref)

	zones, customZones, err := s.zoneAssignments(ctx, query.OpaqueID)
	if err != nil {
		return TournamentResult{}, err
	}

	entityID := tournament.EntityID(ref, query.OpaqueID)
	outcomes := make([]tabOutcome, len(tournament.AllTabs))

	var wg conc.WaitGroup
	for i, tab := range tournament.AllTabs {
		wg.Go(func() {
			outcomes[i] = s.resolveTab(ctx, entityID, tab, ref)
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		return TournamentResult{}, fmt.Errorf("tab worker failed: %w", recovered.AsError())
	}

	result = TournamentResult{
		Reference: ref,
		EntityID:  entityID,
		Tabs:      make(map[tournament.Tab]any, len(outcomes)),
		Sources:   make(map[tournament.Tab]tournament.Source, len(outcomes)),
		Debug: TournamentDebug{
			Resolve:     resolution,
			CustomZones: customZones,
		},
	}
	for _, outcome := range outcomes {
		data := outcome.data
		if customZones && outcome.tab.IsStandings() && outcome.source != tournament.SourceEmpty {
			data = RegroupStandings(data, zones)
		}
		result.Tabs[outcome.tab] = data
		result.Sources[outcome.tab] = outcome.source

		if outcome.err != nil {
			if result.Debug.TabErrors == nil {
				result.Debug.TabErrors = make(map[string]string)
			}
			result.Debug.TabErrors[string(outcome.tab)] = outcome.err.Error()
		}
		if outcome.skipped {
			result.Debug.SkippedTabs = append(result.Debug.SkippedTabs, string(outcome.tab))
		}
	}

	return result, nil
}

func (s *TournamentService) zoneAssignments(ctx context.Context, opaqueID string) (map[string]int, bool, error) {
	opaqueID = strings.TrimSpace(opaqueID)
	if s.phases == nil || opaqueID == "" {
		return nil, false, nil
	}

	items, err := s.phases.ListByTournament(ctx, opaqueID)
	if err != nil {
		return nil, false, fmt.Errorf("list phase configs id=%s: %w", opaqueID, err)
	}
	zones, ok := tournament.ZoneAssignments(items)
	return zones, ok, nil
}

// resolveTab fetches one tab and picks the live payload, its snapshot or the empty shape.
func (s *TournamentService) resolveTab(ctx context.Context, entityID string, tab tournament.Tab, ref tournament.Reference) tabOutcome {
	outcome := tabOutcome{tab: tab, skipped: !tab.Eligible(ref)}

	var live any
	if !outcome.skipped {
		doc, err := s.fetchTab(ctx, tab, ref)
		if err != nil {
			s.logger.WarnContext(ctx, "tournament tab fetch failed",
				"tab", string(tab),
				"entity_id", entityID,
				"error", err,
			)
			outcome.err = err
		} else {
			live = payload.Unwrap(doc)
		}
	}

	if outcome.err == nil && payload.IsMeaningful(live) {
		if _, err := s.snapshots.Upsert(ctx, tournament.EntityTypeTournament, entityID, tab, live, tournament.FetchStatusOK); err != nil {
			s.logger.WarnContext(ctx, "save tournament snapshot failed", "tab", string(tab), "entity_id", entityID, "error", err)
		}
		outcome.data = live
		outcome.source = tournament.SourceAPI
		return outcome
	}

	snapshot, ok, err := s.snapshots.Get(ctx, tournament.EntityTypeTournament, entityID, tab)
	if err != nil {
		s.logger.WarnContext(ctx, "read tournament snapshot failed", "tab", string(tab), "entity_id", entityID, "error", err)
	}
	if ok {
		outcome.data = snapshot.Payload
		outcome.source = tournament.SourceSnapshot
		return outcome
	}

	outcome.data = tab.Empty()
	outcome.source = tournament.SourceEmpty
	return outcome
}

func (s *TournamentService) fetchTab(ctx context.Context, tab tournament.Tab, ref tournament.Reference) (any, error) {
	switch tab {
	case tournament.TabDetails:
		return s.provider.TournamentDetails(ctx, ref.StageID)
	case tournament.TabResults:
		return s.provider.Results(ctx, ref.TemplateID, ref.SeasonID)
	case tournament.TabFixtures:
		return s.provider.Fixtures(ctx, ref.TemplateID, ref.SeasonID)
	case tournament.TabStandings:
		return s.provider.Standings(ctx, ref.TournamentID, ref.StageID, StandingOverall)
	case tournament.TabStandingsForm:
		return s.provider.Standings(ctx, ref.TournamentID, ref.StageID, StandingForm)
	case tournament.TabStandingsHtFt:
		return s.provider.Standings(ctx, ref.TournamentID, ref.StageID, StandingHtFt)
	case tournament.TabStandingsOverUnder:
		return s.provider.Standings(ctx, ref.TournamentID, ref.StageID, StandingOverUnder)
	case tournament.TabTopScorers:
		return s.provider.TopScorers(ctx, ref.TournamentID, ref.StageID)
	case tournament.TabDraw:
		return s.provider.Draw(ctx, ref.TournamentID, ref.DrawStageID)
	case tournament.TabArchives:
		return s.provider.Archives(ctx, ref.StageID)
	default:
		return nil, fmt.Errorf("%w: unknown tab %q", ErrInvalidInput, tab)
	}
}

// fallback serves every tab from snapshots keyed by the best identifier known
// when the pipeline failed.
func (s *TournamentService) fallback(ctx context.Context, query TournamentQuery, ref tournament.Reference, cause error) (TournamentResult, error) {
	entityID := tournament.EntityID(ref, query.OpaqueID)
	result := TournamentResult{
		Reference: ref,
		EntityID:  entityID,
		Tabs:      make(map[tournament.Tab]any, len(tournament.AllTabs)),
		Sources:   make(map[tournament.Tab]tournament.Source, len(tournament.AllTabs)),
		Fallback:  true,
		Debug:     TournamentDebug{FallbackReason: cause.Error()},
	}

	found := 0
	for _, tab := range tournament.AllTabs {
		snapshot, ok, err := s.snapshots.Get(ctx, tournament.EntityTypeTournament, entityID, tab)
		if err != nil {
			s.logger.WarnContext(ctx, "read tournament snapshot failed", "tab", string(tab), "entity_id", entityID, "error", err)
		}
		if !ok {
			result.Tabs[tab] = tab.Empty()
			result.Sources[tab] = tournament.SourceEmpty
			continue
		}
		found++
		result.Tabs[tab] = snapshot.Payload
		result.Sources[tab] = tournament.SourceSnapshot
	}

	if found == 0 {
		return result, fmt.Errorf("%w: %v", ErrTournamentUnavailable, cause)
	}
	return result, nil
}
