package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	extractiondomain "suppliermail-backend/internal/extraction/domain"
	"suppliermail-backend/internal/matching/domain"
	"suppliermail-backend/pkg/directory"
	"suppliermail-backend/pkg/fuzzy"
)

// ProjectDirectory is the external project system of record.
type ProjectDirectory interface {
	SearchProjects(ctx context.Context, keyword string) ([]directory.Entry, error)
}

// EmployeeDirectory is the external employee system of record.
type EmployeeDirectory interface {
	SearchEmployees(ctx context.Context, keyword string) ([]directory.Entry, error)
}

// MatcherUsecase resolves extracted free-text names to confidence-scored
// candidates.
type MatcherUsecase interface {
	Match(ctx context.Context, extraction *extractiondomain.TaskExtraction) domain.MatchedExtraction
}

// matcherUsecase implements MatcherUsecase
type matcherUsecase struct {
	projects      ProjectDirectory
	employees     EmployeeDirectory
	logger        *zap.Logger
	minConfidence float64
}

// NewMatcherUsecase creates a new instance of matcherUsecase.
// minConfidence is the cutoff below which fuzzy candidates are suppressed
// (treated as "no match" rather than a misleading suggestion).
func NewMatcherUsecase(projects ProjectDirectory, employees EmployeeDirectory, logger *zap.Logger, minConfidence float64) MatcherUsecase {
	if minConfidence <= 0 || minConfidence > 1 {
		minConfidence = 0.65
	}
	return &matcherUsecase{
		projects:      projects,
		employees:     employees,
		logger:        logger,
		minConfidence: minConfidence,
	}
}

// Match never fails: a directory outage just yields no candidate for that
// field. Matching is an enhancement, not a prerequisite for import.
func (m *matcherUsecase) Match(ctx context.Context, extraction *extractiondomain.TaskExtraction) domain.MatchedExtraction {
	var out domain.MatchedExtraction

	// Project name is the stronger signal; the customer name is the fallback
	// when the email never names a project.
	for _, keyword := range []string{extraction.ProjectName, extraction.CustomerName} {
		if strings.TrimSpace(keyword) == "" {
			continue
		}
		out.Project = m.matchField(ctx, domain.MatchKindProject, keyword)
		if out.Project != nil {
			break
		}
	}

	if strings.TrimSpace(extraction.AssigneeName) != "" {
		out.Employee = m.matchField(ctx, domain.MatchKindEmployee, extraction.AssigneeName)
	}

	return out
}

func (m *matcherUsecase) matchField(ctx context.Context, kind domain.MatchKind, keyword string) *domain.MatchCandidate {
	var entries []directory.Entry
	var err error

	switch kind {
	case domain.MatchKindProject:
		entries, err = m.projects.SearchProjects(ctx, keyword)
	case domain.MatchKindEmployee:
		entries, err = m.employees.SearchEmployees(ctx, keyword)
	}
	if err != nil {
		m.logger.Warn("directory lookup failed, returning no candidate",
			zap.String("kind", string(kind)), zap.Error(err))
		return nil
	}

	return m.bestCandidate(kind, keyword, entries)
}

// bestCandidate returns the single highest-ranked candidate at or above the
// confidence threshold, or nil. Ranking: exact beats fuzzy, then higher
// confidence, then active over archived, then most recently active.
func (m *matcherUsecase) bestCandidate(kind domain.MatchKind, keyword string, entries []directory.Entry) *domain.MatchCandidate {
	var best *domain.MatchCandidate
	var bestEntry directory.Entry

	for _, entry := range entries {
		candidate := m.score(kind, keyword, entry)
		if candidate == nil {
			continue
		}
		if best == nil || better(candidate, entry, best, bestEntry) {
			best = candidate
			bestEntry = entry
		}
	}

	return best
}

func (m *matcherUsecase) score(kind domain.MatchKind, keyword string, entry directory.Entry) *domain.MatchCandidate {
	normKeyword := fuzzy.Normalize(keyword)

	if normKeyword == fuzzy.Normalize(entry.Name) || (entry.Code != "" && normKeyword == fuzzy.Normalize(entry.Code)) {
		return &domain.MatchCandidate{
			Kind:       kind,
			TargetID:   entry.ID,
			Label:      entry.Name,
			Confidence: 1.0,
			MatchType:  domain.MatchExact,
		}
	}

	confidence := fuzzy.NameSimilarity(keyword, entry.Name)
	if confidence < m.minConfidence {
		return nil
	}
	return &domain.MatchCandidate{
		Kind:       kind,
		TargetID:   entry.ID,
		Label:      entry.Name,
		Confidence: confidence,
		MatchType:  domain.MatchFuzzy,
	}
}

func better(a *domain.MatchCandidate, aEntry directory.Entry, b *domain.MatchCandidate, bEntry directory.Entry) bool {
	if a.MatchType != b.MatchType {
		return a.MatchType == domain.MatchExact
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if aEntry.Archived != bEntry.Archived {
		return !aEntry.Archived
	}
	return aEntry.LastActiveAt.After(bEntry.LastActiveAt)
}
