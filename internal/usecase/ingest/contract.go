package ingest

import (
	"context"

	"github.com/neurodex/neurodex/internal/domain"
)

// AnnotationWriter stores annotation rows and manages their index.
type AnnotationWriter interface {
	EnsureIndex(ctx context.Context) error
	Put(ctx context.Context, anns []domain.Annotation) error
}

// CoordinateWriter stores coordinate rows and manages their index.
type CoordinateWriter interface {
	EnsureIndex(ctx context.Context) error
	Put(ctx context.Context, id domain.StudyID, coords []domain.Coordinate) error
}
