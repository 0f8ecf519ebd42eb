package query

import (
	"context"
	"testing"

	"github.com/neurodex/neurodex/internal/domain"
)

type mockTermReader struct {
	findByTermFn func(ctx context.Context, term string, limit int) ([]domain.Annotation, error)
}

func (m *mockTermReader) FindByTerm(ctx context.Context, term string, limit int) ([]domain.Annotation, error) {
	if m.findByTermFn != nil {
		return m.findByTermFn(ctx, term, limit)
	}
	return nil, nil
}

type mockLocationReader struct {
	nearestFn func(ctx context.Context, p domain.Point, k int) ([]domain.CoordinateHit, error)
}

func (m *mockLocationReader) Nearest(ctx context.Context, p domain.Point, k int) ([]domain.CoordinateHit, error) {
	if m.nearestFn != nil {
		return m.nearestFn(ctx, p, k)
	}
	return nil, nil
}

type mockHydrator struct {
	hydrateFn func(ctx context.Context, ids []domain.StudyID) ([]domain.HydratedStudy, error)
}

func (m *mockHydrator) Hydrate(ctx context.Context, ids []domain.StudyID) ([]domain.HydratedStudy, error) {
	if m.hydrateFn != nil {
		return m.hydrateFn(ctx, ids)
	}
	out := make([]domain.HydratedStudy, len(ids))
	for i, id := range ids {
		out[i] = domain.HydratedStudy{StudyID: id}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *mockTermReader, *mockLocationReader, *mockHydrator) {
	t.Helper()
	tr := &mockTermReader{}
	lr := &mockLocationReader{}
	h := &mockHydrator{}
	return New(tr, lr, h, 0, 0), tr, lr, h
}
