package hydrate

import (
	"context"
	"testing"

	"github.com/neurodex/neurodex/internal/domain"
)

type mockAnnotationReader struct {
	forStudiesFn func(ctx context.Context, ids []domain.StudyID) ([]domain.Annotation, error)
}

func (m *mockAnnotationReader) ForStudies(ctx context.Context, ids []domain.StudyID) ([]domain.Annotation, error) {
	if m.forStudiesFn != nil {
		return m.forStudiesFn(ctx, ids)
	}
	return nil, nil
}

type mockCoordinateReader struct {
	firstForStudiesFn func(ctx context.Context, ids []domain.StudyID) (map[domain.StudyID]domain.Coordinate, error)
}

func (m *mockCoordinateReader) FirstForStudies(ctx context.Context, ids []domain.StudyID) (map[domain.StudyID]domain.Coordinate, error) {
	if m.firstForStudiesFn != nil {
		return m.firstForStudiesFn(ctx, ids)
	}
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mockAnnotationReader, *mockCoordinateReader) {
	t.Helper()
	ar := &mockAnnotationReader{}
	cr := &mockCoordinateReader{}
	return New(ar, cr, 0), ar, cr
}
