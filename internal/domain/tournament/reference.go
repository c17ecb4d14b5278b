package tournament

import "strings"

// Reference is the partially known identity of a tournament at the upstream provider.
type Reference struct {
	TournamentID string `json:"tournament_id,omitempty"`
	StageID      string `json:"tournament_stage_id,omitempty"`
	TemplateID   string `json:"tournament_template_id,omitempty"`
	SeasonID     string `json:"season_id,omitempty"`
	DrawStageID  string `json:"draw_stage_id,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Merge fills the empty fields of r from other. Populated fields are never replaced.
func (r Reference) Merge(other Reference) Reference {
	r.TournamentID = firstNonEmpty(r.TournamentID, other.TournamentID)
	r.StageID = firstNonEmpty(r.StageID, other.StageID)
	r.TemplateID = firstNonEmpty(r.TemplateID, other.TemplateID)
	r.SeasonID = firstNonEmpty(r.SeasonID, other.SeasonID)
	r.DrawStageID = firstNonEmpty(r.DrawStageID, other.DrawStageID)
	r.URL = firstNonEmpty(r.URL, other.URL)
	return r
}

// Normalize trims surrounding whitespace from every field.
func (r Reference) Normalize() Reference {
	return Reference{
		TournamentID: strings.TrimSpace(r.TournamentID),
		StageID:      strings.TrimSpace(r.StageID),
		TemplateID:   strings.TrimSpace(r.TemplateID),
		SeasonID:     strings.TrimSpace(r.SeasonID),
		DrawStageID:  strings.TrimSpace(r.DrawStageID),
		URL:          strings.TrimSpace(r.URL),
	}
}

// Resolved reports whether stage, template and season are all known.
func (r Reference) Resolved() bool {
	return r.StageID != "" && r.TemplateID != "" && r.SeasonID != ""
}

// NeedsURLLookup reports whether an ids-by-url lookup could still add anything.
func (r Reference) NeedsURLLookup() bool {
	return r.TemplateID == "" || r.SeasonID == "" || r.StageID == "" || r.TournamentID == ""
}

func (r Reference) IsZero() bool {
	return r == Reference{}
}

// Missing lists the identifier fields still empty, in declaration order.
func (r Reference) Missing() []string {
	out := make([]string, 0, 6)
	if r.TournamentID == "" {
		out = append(out, "tournament_id")
	}
	if r.StageID == "" {
		out = append(out, "tournament_stage_id")
	}
	if r.TemplateID == "" {
		out = append(out, "tournament_template_id")
	}
	if r.SeasonID == "" {
		out = append(out, "season_id")
	}
	if r.DrawStageID == "" {
		out = append(out, "draw_stage_id")
	}
	if r.URL == "" {
		out = append(out, "url")
	}
	return out
}

// UnknownEntityID keys snapshots when nothing identifies the request.
const UnknownEntityID = "unknown"

// EntityID picks the snapshot key: tournament id, else stage id, else the
// caller's opaque id, else the raw url, else UnknownEntityID.
func EntityID(ref Reference, opaqueID string) string {
	return firstNonEmpty(
		ref.TournamentID,
		ref.StageID,
		strings.TrimSpace(opaqueID),
		ref.URL,
		UnknownEntityID,
	)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
