// Package hydrate decorates bare study ids with display data: each study's
// top-weighted terms and its first stored coordinate.
package hydrate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/neurodex/neurodex/internal/domain"
)

// Service turns study id sets into hydrated studies.
type Service struct {
	anns   AnnotationReader
	coords CoordinateReader
	topK   int
}

// New creates a hydration service. topK bounds the per-study term summary;
// non-positive means the default of 5.
func New(anns AnnotationReader, coords CoordinateReader, topK int) *Service {
	if topK <= 0 {
		topK = domain.TopTermsDefault
	}
	return &Service{anns: anns, coords: coords, topK: topK}
}

// TopTerms returns each study's top-weighted terms: at most topK per study,
// weight descending, ties broken by term ascending. Every requested id is a
// key in the result; studies with no annotations map to an empty list.
func (s *Service) TopTerms(ctx context.Context, ids []domain.StudyID) (map[domain.StudyID][]domain.TermWeight, error) {
	out := make(map[domain.StudyID][]domain.TermWeight, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	anns, err := s.anns.ForStudies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch annotations: %w", err)
	}

	ranked := rankTerms(anns, s.topK)
	for _, id := range ids {
		if terms, ok := ranked[id]; ok {
			out[id] = terms
			continue
		}
		out[id] = []domain.TermWeight{}
	}
	return out, nil
}

// Coords returns each study's first stored coordinate. Studies without
// coordinates are absent from the map.
func (s *Service) Coords(ctx context.Context, ids []domain.StudyID) (map[domain.StudyID]domain.Coordinate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	coords, err := s.coords.FirstForStudies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch coordinates: %w", err)
	}
	return coords, nil
}

// Hydrate decorates the given ids, preserving their order. Term and
// coordinate fetches run concurrently; the first failure wins.
func (s *Service) Hydrate(ctx context.Context, ids []domain.StudyID) ([]domain.HydratedStudy, error) {
	if len(ids) == 0 {
		return []domain.HydratedStudy{}, nil
	}

	var (
		wg        sync.WaitGroup
		terms     map[domain.StudyID][]domain.TermWeight
		coords    map[domain.StudyID]domain.Coordinate
		termErr   error
		coordsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		terms, termErr = s.TopTerms(ctx, ids)
	}()
	go func() {
		defer wg.Done()
		coords, coordsErr = s.Coords(ctx, ids)
	}()
	wg.Wait()

	if termErr != nil {
		return nil, termErr
	}
	if coordsErr != nil {
		return nil, coordsErr
	}

	out := make([]domain.HydratedStudy, len(ids))
	for i, id := range ids {
		hs := domain.HydratedStudy{StudyID: id, TopTerms: terms[id]}
		if c, ok := coords[id]; ok {
			coord := c
			hs.Coords = &coord
		}
		out[i] = hs
	}
	return out, nil
}

// rankTerms groups annotations by study and keeps each study's topK terms.
// A term appearing under several contrasts of one study keeps its maximum
// weight.
func rankTerms(anns []domain.Annotation, topK int) map[domain.StudyID][]domain.TermWeight {
	if len(anns) == 0 {
		return nil
	}

	byStudy := make(map[domain.StudyID]map[string]float64)
	for _, a := range anns {
		weights := byStudy[a.StudyID]
		if weights == nil {
			weights = make(map[string]float64)
			byStudy[a.StudyID] = weights
		}
		if w, ok := weights[a.Term]; !ok || a.Weight > w {
			weights[a.Term] = a.Weight
		}
	}

	out := make(map[domain.StudyID][]domain.TermWeight, len(byStudy))
	for id, weights := range byStudy {
		ranked := make([]domain.TermWeight, 0, len(weights))
		for term, w := range weights {
			ranked = append(ranked, domain.TermWeight{Term: term, Weight: w})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Weight != ranked[j].Weight {
				return ranked[i].Weight > ranked[j].Weight
			}
			return ranked[i].Term < ranked[j].Term
		})
		if len(ranked) > topK {
			ranked = ranked[:topK]
		}
		out[id] = ranked
	}
	return out
}
