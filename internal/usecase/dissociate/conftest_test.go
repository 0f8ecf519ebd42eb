package dissociate

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

// mockHydrator echoes ids back as bare hydrated studies.
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

func annotationsFor(term string, ids ...domain.StudyID) []domain.Annotation {
	anns := make([]domain.Annotation, len(ids))
	for i, id := range ids {
		anns[i] = domain.Annotation{StudyID: id, ContrastID: "c1", Term: term, Weight: 0.5}
	}
	return anns
}

func studyIDs(studies []domain.HydratedStudy) []domain.StudyID {
	ids := make([]domain.StudyID, len(studies))
	for i, s := range studies {
		ids[i] = s.StudyID
	}
	return ids
}

func assertIDs(t *testing.T, got []domain.StudyID, want ...domain.StudyID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, got)
		}
	}
}
