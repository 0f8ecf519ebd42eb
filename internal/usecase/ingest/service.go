// Package ingest writes studies into the corpus. Terms are canonicalized at
// write time, so the term index only ever holds canonical forms and read-side
// lookups stay exact tag matches.
package ingest

import (
	"context"
	"fmt"

	"github.com/neurodex/neurodex/internal/domain"
)

// ContrastInput is one contrast of a study with its weighted terms.
type ContrastInput struct {
	ID    string
	Terms []domain.TermWeight
}

// StudyInput is one study to ingest.
type StudyInput struct {
	ID          domain.StudyID
	Contrasts   []ContrastInput
	Coordinates []domain.Coordinate
}

// Service writes studies into the annotation and coordinate indexes.
type Service struct {
	anns   AnnotationWriter
	coords CoordinateWriter
}

// New creates an ingestion service.
func New(anns AnnotationWriter, coords CoordinateWriter) *Service {
	return &Service{anns: anns, coords: coords}
}

// EnsureIndexes creates both FT indexes if they are missing.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	if err := s.anns.EnsureIndex(ctx); err != nil {
		return err
	}
	return s.coords.EnsureIndex(ctx)
}

// PutStudy stores one study. Raw terms are canonicalized; terms that
// canonicalize to the empty string are dropped, as nothing could ever query
// them.
func (s *Service) PutStudy(ctx context.Context, in StudyInput) error {
	if in.ID == "" {
		return fmt.Errorf("study id is required")
	}

	var anns []domain.Annotation
	for _, c := range in.Contrasts {
		for _, tw := range c.Terms {
			term := domain.Normalize(tw.Term)
			if term == "" {
				continue
			}
			anns = append(anns, domain.Annotation{
				StudyID:    in.ID,
				ContrastID: c.ID,
				Term:       term,
				Weight:     tw.Weight,
			})
		}
	}

	if err := s.anns.Put(ctx, anns); err != nil {
		return fmt.Errorf("store study %s annotations: %w", in.ID, err)
	}
	if err := s.coords.Put(ctx, in.ID, in.Coordinates); err != nil {
		return fmt.Errorf("store study %s coordinates: %w", in.ID, err)
	}
	return nil
}
