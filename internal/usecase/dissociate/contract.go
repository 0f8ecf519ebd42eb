package dissociate

import (
	"context"

	"github.com/neurodex/neurodex/internal/domain"
)

// TermReader looks up annotation rows by canonical term.
type TermReader interface {
	FindByTerm(ctx context.Context, term string, limit int) ([]domain.Annotation, error)
}

// LocationReader runs nearest-neighbor coordinate lookups.
type LocationReader interface {
	Nearest(ctx context.Context, p domain.Point, k int) ([]domain.CoordinateHit, error)
}

// Hydrator decorates study ids with top terms and coordinates.
type Hydrator interface {
	Hydrate(ctx context.Context, ids []domain.StudyID) ([]domain.HydratedStudy, error)
}
