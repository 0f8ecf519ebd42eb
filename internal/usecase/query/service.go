// Package query answers single-probe questions against the corpus: which
// studies load on a term, and which studies report activation near a point.
package query

import (
	"context"
	"fmt"

	"github.com/neurodex/neurodex/internal/domain"
)

// Default result caps, applied when the configured value is non-positive.
const (
	TermLimitDefault     = 100
	LocationLimitDefault = 50
)

// TermResult is the outcome of a term probe. Studies are ordered by their
// strongest matching annotation, weight descending; Weights maps each study
// to that strongest weight.
type TermResult struct {
	QueryTerm string
	Studies   []domain.HydratedStudy
	// Weights and Contrasts describe each study's strongest row for the
	// query term.
	Weights   map[domain.StudyID]float64
	Contrasts map[domain.StudyID]string
}

// LocationResult is the outcome of a location probe. Studies are ordered by
// the distance of their closest reported coordinate.
type LocationResult struct {
	QueryPoint domain.Point
	Studies    []domain.HydratedStudy
}

// Service handles term and location probes.
type Service struct {
	terms   TermReader
	locs    LocationReader
	hydrate Hydrator

	termLimit     int
	locationLimit int
}

// New creates a query service. The limits cap how many rows each probe pulls
// from the indexes before deduplication.
func New(terms TermReader, locs LocationReader, hydrate Hydrator, termLimit, locationLimit int) *Service {
	if termLimit <= 0 {
		termLimit = TermLimitDefault
	}
	if locationLimit <= 0 {
		locationLimit = LocationLimitDefault
	}
	return &Service{
		terms:         terms,
		locs:          locs,
		hydrate:       hydrate,
		termLimit:     termLimit,
		locationLimit: locationLimit,
	}
}

// ByTerm canonicalizes the raw term and returns the studies most strongly
// annotated with it. A term that canonicalizes to the empty string matches
// nothing and never reaches the index.
func (s *Service) ByTerm(ctx context.Context, raw string) (*TermResult, error) {
	term := domain.Normalize(raw)
	if term == "" {
		return &TermResult{QueryTerm: term, Studies: []domain.HydratedStudy{}}, nil
	}

	anns, err := s.terms.FindByTerm(ctx, term, s.termLimit)
	if err != nil {
		return nil, fmt.Errorf("term probe %q: %w", term, err)
	}

	// Rows arrive weight-descending, so the first row per study carries its
	// strongest weight for this term.
	ids := uniqueStudyIDs(len(anns), func(i int) domain.StudyID { return anns[i].StudyID })
	weights := make(map[domain.StudyID]float64, len(ids))
	contrasts := make(map[domain.StudyID]string, len(ids))
	for _, a := range anns {
		if _, ok := weights[a.StudyID]; !ok {
			weights[a.StudyID] = a.Weight
			contrasts[a.StudyID] = a.ContrastID
		}
	}

	studies, err := s.hydrate.Hydrate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate term probe %q: %w", term, err)
	}

	return &TermResult{
		QueryTerm: term,
		Studies:   studies,
		Weights:   weights,
		Contrasts: contrasts,
	}, nil
}

// ByLocation parses the raw "x_y_z" coordinate string and returns the studies
// reporting activation closest to that point. Parse failures wrap
// domain.ErrInvalidCoordinates and short-circuit before any index lookup.
func (s *Service) ByLocation(ctx context.Context, rawCoords string) (*LocationResult, error) {
	p, err := domain.ParsePoint(rawCoords)
	if err != nil {
		return nil, err
	}

	hits, err := s.locs.Nearest(ctx, p, s.locationLimit)
	if err != nil {
		return nil, fmt.Errorf("location probe %s: %w", rawCoords, err)
	}

	// Hits arrive distance-ascending, so keeping first occurrences ranks
	// each study by its closest coordinate.
	ids := uniqueStudyIDs(len(hits), func(i int) domain.StudyID { return hits[i].StudyID })
	studies, err := s.hydrate.Hydrate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate location probe %s: %w", rawCoords, err)
	}

	return &LocationResult{QueryPoint: p, Studies: studies}, nil
}

// uniqueStudyIDs collects study ids in first-seen order.
func uniqueStudyIDs(n int, at func(i int) domain.StudyID) []domain.StudyID {
	seen := make(map[domain.StudyID]bool, n)
	ids := make([]domain.StudyID, 0, n)
	for i := 0; i < n; i++ {
		id := at(i)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
