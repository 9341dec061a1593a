package domain

// MatchKind is the entity type a candidate resolves to.
type MatchKind string

const (
	MatchKindProject  MatchKind = "project"
	MatchKindEmployee MatchKind = "employee"
)

// MatchType distinguishes normalized-equality hits from scored fuzzy hits.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
)

// MatchCandidate is a system-of-record entity proposed as the resolution of
// a free-text name. Computed on demand, never persisted.
type MatchCandidate struct {
	Kind       MatchKind `json:"kind"`
	TargetID   string    `json:"target_id"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"` // 0.0–1.0
	MatchType  MatchType `json:"match_type"`
}

// MatchedExtraction annotates an extraction with at most one candidate per
// field. Nil means "no suggestion"; the human picks manually.
type MatchedExtraction struct {
	Project  *MatchCandidate `json:"project,omitempty"`
	Employee *MatchCandidate `json:"employee,omitempty"`
}
