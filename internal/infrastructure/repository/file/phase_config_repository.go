// Package file loads operator-maintained tournament phase configs from a YAML document.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"gopkg.in/yaml.v3"
)

type phaseConfigDocument struct {
	Tournaments map[string][]tournament.PhaseConfig `yaml:"tournaments"`
}

type PhaseConfigRepository struct {
	path string

	mu     sync.RWMutex
	phases map[string][]tournament.PhaseConfig
}

// NewPhaseConfigRepository reads path once. Call Reload to pick up edits.
func NewPhaseConfigRepository(path string) (*PhaseConfigRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("phase config file path is required")
	}

	repo := &PhaseConfigRepository{path: path}
	if err := repo.Reload(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *PhaseConfigRepository) Reload() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read phase config file %s: %w", r.path, err)
	}

	phases, err := parsePhaseConfigs(raw)
	if err != nil {
		return fmt.Errorf("parse phase config file %s: %w", r.path, err)
	}

	r.mu.Lock()
	r.phases = phases
	r.mu.Unlock()
	return nil
}

func (r *PhaseConfigRepository) ListByTournament(_ context.Context, tournamentRef string) ([]tournament.PhaseConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.phases[strings.TrimSpace(tournamentRef)]
	return append([]tournament.PhaseConfig(nil), items...), nil
}

func parsePhaseConfigs(raw []byte) (map[string][]tournament.PhaseConfig, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var doc phaseConfigDocument
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	out := make(map[string][]tournament.PhaseConfig, len(doc.Tournaments))
	for ref, items := range doc.Tournaments {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return nil, fmt.Errorf("tournament key must not be empty")
		}
		for i, item := range items {
			if strings.TrimSpace(item.ID) == "" {
				return nil, fmt.Errorf("tournament %s phase #%d: id is required", ref, i+1)
			}
			for participant, zone := range item.GroupAssignments {
				if zone < 0 {
					return nil, fmt.Errorf("tournament %s phase %s: zone for %s must be >= 0", ref, item.ID, participant)
				}
			}
		}
		out[ref] = items
	}
	return out, nil
}
