// Package corpus reports ingestion-level statistics about the stored data.
package corpus

import (
	"context"
	"fmt"
	"sync"

	"github.com/neurodex/neurodex/internal/domain"
)

// sampleSize is how many example rows each index contributes to a status report.
const sampleSize = 3

// AnnotationStats reads corpus-level facts from the annotation index.
type AnnotationStats interface {
	Count(ctx context.Context) (int, error)
	Sample(ctx context.Context, n int) ([]domain.Annotation, error)
}

// CoordinateStats reads corpus-level facts from the coordinate index.
type CoordinateStats interface {
	Count(ctx context.Context) (int, error)
	Sample(ctx context.Context, n int) ([]domain.StudyCoordinate, error)
}

// Stats summarizes the corpus contents: row counts plus a few example rows
// per index, so an operator can eyeball what a loaded corpus looks like.
type Stats struct {
	Annotations      int
	Coordinates      int
	AnnotationSample []domain.Annotation
	CoordinateSample []domain.StudyCoordinate
}

// Service aggregates corpus statistics.
type Service struct {
	anns   AnnotationStats
	coords CoordinateStats
}

// New creates a corpus statistics service.
func New(anns AnnotationStats, coords CoordinateStats) *Service {
	return &Service{anns: anns, coords: coords}
}

// Stats gathers counts and samples, one goroutine per index.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		wg                 sync.WaitGroup
		out                Stats
		annsErr, coordsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out.Annotations, annsErr = s.anns.Count(ctx)
		if annsErr == nil {
			out.AnnotationSample, annsErr = s.anns.Sample(ctx, sampleSize)
		}
	}()
	go func() {
		defer wg.Done()
		out.Coordinates, coordsErr = s.coords.Count(ctx)
		if coordsErr == nil {
			out.CoordinateSample, coordsErr = s.coords.Sample(ctx, sampleSize)
		}
	}()
	wg.Wait()

	if annsErr != nil {
		return nil, fmt.Errorf("annotation stats: %w", annsErr)
	}
	if coordsErr != nil {
		return nil, fmt.Errorf("coordinate stats: %w", coordsErr)
	}

	return &out, nil
}
