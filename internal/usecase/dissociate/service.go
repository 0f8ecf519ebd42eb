// Package dissociate contrasts two probes against the corpus: which studies
// load on A but not B, on B but not A, and on both.
package dissociate

import (
	"context"
	"fmt"
	"sync"

	"github.com/neurodex/neurodex/internal/domain"
)

// Default per-side caps, applied when the configured value is non-positive.
// Dissociation pulls deeper than a single probe so the contrast between two
// broad terms is not an artifact of a shallow result window.
const (
	TermLimitDefault = 1000
	NearestDefault   = 100
)

// Result is the outcome of a dissociation. QueryA and QueryB echo the
// resolved probes (canonical terms or coordinate strings).
type Result struct {
	QueryA string
	QueryB string

	AOnly   []domain.HydratedStudy
	BOnly   []domain.HydratedStudy
	Overlap []domain.HydratedStudy
}

// Service handles two-sided term and location dissociations.
type Service struct {
	terms   TermReader
	locs    LocationReader
	hydrate Hydrator

	termLimit int
	nearest   int
}

// New creates a dissociation service.
func New(terms TermReader, locs LocationReader, hydrate Hydrator, termLimit, nearest int) *Service {
	if termLimit <= 0 {
		termLimit = TermLimitDefault
	}
	if nearest <= 0 {
		nearest = NearestDefault
	}
	return &Service{
		terms:     terms,
		locs:      locs,
		hydrate:   hydrate,
		termLimit: termLimit,
		nearest:   nearest,
	}
}

// Terms dissociates two terms. Both sides are canonicalized first; a side
// whose canonical form is empty resolves to the empty study set without
// touching the index. Both sides resolve concurrently.
func (s *Service) Terms(ctx context.Context, rawA, rawB string) (*Result, error) {
	termA := domain.Normalize(rawA)
	termB := domain.Normalize(rawB)

	var (
		wg         sync.WaitGroup
		idsA, idsB []domain.StudyID
		errA, errB error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		idsA, errA = s.resolveTerm(ctx, termA)
	}()
	go func() {
		defer wg.Done()
		idsB, errB = s.resolveTerm(ctx, termB)
	}()
	wg.Wait()

	if errA != nil {
		return nil, fmt.Errorf("resolve %q: %w", termA, errA)
	}
	if errB != nil {
		return nil, fmt.Errorf("resolve %q: %w", termB, errB)
	}

	return s.assemble(ctx, termA, termB, idsA, idsB)
}

// Locations dissociates two points given as "x_y_z" strings. Both sides must
// parse before any index lookup; a malformed side fails the whole request
// with domain.ErrInvalidCoordinates.
func (s *Service) Locations(ctx context.Context, rawA, rawB string) (*Result, error) {
	pointA, err := domain.ParsePoint(rawA)
	if err != nil {
		return nil, err
	}
	pointB, err := domain.ParsePoint(rawB)
	if err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		idsA, idsB []domain.StudyID
		errA, errB error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		idsA, errA = s.resolveLocation(ctx, pointA)
	}()
	go func() {
		defer wg.Done()
		idsB, errB = s.resolveLocation(ctx, pointB)
	}()
	wg.Wait()

	if errA != nil {
		return nil, fmt.Errorf("resolve %s: %w", rawA, errA)
	}
	if errB != nil {
		return nil, fmt.Errorf("resolve %s: %w", rawB, errB)
	}

	return s.assemble(ctx, rawA, rawB, idsA, idsB)
}

// resolveTerm returns the distinct studies annotated with a canonical term.
func (s *Service) resolveTerm(ctx context.Context, term string) ([]domain.StudyID, error) {
	if term == "" {
		return nil, nil
	}
	anns, err := s.terms.FindByTerm(ctx, term, s.termLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]domain.StudyID, 0, len(anns))
	seen := make(map[domain.StudyID]bool, len(anns))
	for _, a := range anns {
		if seen[a.StudyID] {
			continue
		}
		seen[a.StudyID] = true
		ids = append(ids, a.StudyID)
	}
	return ids, nil
}

// resolveLocation returns the distinct studies among the nearest coordinates.
func (s *Service) resolveLocation(ctx context.Context, p domain.Point) ([]domain.StudyID, error) {
	hits, err := s.locs.Nearest(ctx, p, s.nearest)
	if err != nil {
		return nil, err
	}
	ids := make([]domain.StudyID, 0, len(hits))
	seen := make(map[domain.StudyID]bool, len(hits))
	for _, h := range hits {
		if seen[h.StudyID] {
			continue
		}
		seen[h.StudyID] = true
		ids = append(ids, h.StudyID)
	}
	return ids, nil
}

// assemble partitions the two id sets and hydrates the three groups
// concurrently.
func (s *Service) assemble(ctx context.Context, queryA, queryB string, idsA, idsB []domain.StudyID) (*Result, error) {
	p := PartitionIDs(idsA, idsB)

	var (
		wg                             sync.WaitGroup
		aOnly, bOnly, overlap          []domain.HydratedStudy
		errAOnly, errBOnly, errOverlap error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		aOnly, errAOnly = s.hydrate.Hydrate(ctx, p.AOnly)
	}()
	go func() {
		defer wg.Done()
		bOnly, errBOnly = s.hydrate.Hydrate(ctx, p.BOnly)
	}()
	go func() {
		defer wg.Done()
		overlap, errOverlap = s.hydrate.Hydrate(ctx, p.Overlap)
	}()
	wg.Wait()

	for _, err := range []error{errAOnly, errBOnly, errOverlap} {
		if err != nil {
			return nil, fmt.Errorf("hydrate dissociation: %w", err)
		}
	}

	return &Result{
		QueryA:  queryA,
		QueryB:  queryB,
		AOnly:   aOnly,
		BOnly:   bOnly,
		Overlap: overlap,
	}, nil
}
