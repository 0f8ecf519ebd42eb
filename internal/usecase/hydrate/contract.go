package hydrate

import (
	"context"

	"github.com/neurodex/neurodex/internal/domain"
)

// AnnotationReader fetches annotation rows for a batch of studies.
type AnnotationReader interface {
	ForStudies(ctx context.Context, ids []domain.StudyID) ([]domain.Annotation, error)
}

// CoordinateReader fetches each study's first stored coordinate.
type CoordinateReader interface {
	FirstForStudies(ctx context.Context, ids []domain.StudyID) (map[domain.StudyID]domain.Coordinate, error)
}
