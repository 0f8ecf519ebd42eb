package query

import (
	"context"
	"errors"
	"testing"

	"github.com/neurodex/neurodex/internal/domain"
)

// --- ByTerm ---

func TestByTerm_NormalizesBeforeLookup(t *testing.T) {
	svc, tr, _, _ := newTestService(t)

	tr.findByTermFn = func(_ context.Context, term string, limit int) ([]domain.Annotation, error) {
		if term != "posterior_cingulate" {
			t.Errorf("expected canonical term, got %q", term)
		}
		if limit != TermLimitDefault {
			t.Errorf("expected limit %d, got %d", TermLimitDefault, limit)
		}
		return []domain.Annotation{
			{StudyID: "s1", Term: term, Weight: 0.9},
		}, nil
	}

	res, err := svc.ByTerm(context.Background(), "  Posterior   Cingulate ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.QueryTerm != "posterior_cingulate" {
		t.Errorf("unexpected query term: %q", res.QueryTerm)
	}
	if len(res.Studies) != 1 || res.Studies[0].StudyID != "s1" {
		t.Errorf("unexpected studies: %v", res.Studies)
	}
}

func TestByTerm_EmptyCanonicalShortCircuits(t *testing.T) {
	svc, tr, _, h := newTestService(t)

	tr.findByTermFn = func(_ context.Context, _ string, _ int) ([]domain.Annotation, error) {
		t.Error("index should not be queried for an empty canonical term")
		return nil, nil
	}
	h.hydrateFn = func(_ context.Context, _ []domain.StudyID) ([]domain.HydratedStudy, error) {
		t.Error("hydrator should not be called for an empty canonical term")
		return nil, nil
	}

	for _, raw := range []string{"", "   ", "___", " _ _ "} {
		res, err := svc.ByTerm(context.Background(), raw)
		if err != nil {
			t.Fatalf("ByTerm(%q): unexpected error: %v", raw, err)
		}
		if res.QueryTerm != "" || len(res.Studies) != 0 {
			t.Errorf("ByTerm(%q): expected empty result, got %+v", raw, res)
		}
	}
}

func TestByTerm_DeduplicatesStudiesPreservingOrder(t *testing.T) {
	svc, tr, _, h := newTestService(t)

	// s1 appears twice (two contrasts); weight order puts it first
	tr.findByTermFn = func(_ context.Context, _ string, _ int) ([]domain.Annotation, error) {
		return []domain.Annotation{
			{StudyID: "s1", ContrastID: "c1", Weight: 0.9},
			{StudyID: "s2", ContrastID: "c1", Weight: 0.7},
			{StudyID: "s1", ContrastID: "c2", Weight: 0.5},
		}, nil
	}

	var hydrated []domain.StudyID
	h.hydrateFn = func(_ context.Context, ids []domain.StudyID) ([]domain.HydratedStudy, error) {
		hydrated = ids
		out := make([]domain.HydratedStudy, len(ids))
		for i, id := range ids {
			out[i] = domain.HydratedStudy{StudyID: id}
		}
		return out, nil
	}

	res, err := svc.ByTerm(context.Background(), "amygdala")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hydrated) != 2 || hydrated[0] != "s1" || hydrated[1] != "s2" {
		t.Errorf("unexpected hydrated ids: %v", hydrated)
	}
	if len(res.Studies) != 2 {
		t.Errorf("unexpected studies: %v", res.Studies)
	}
	// s1 keeps its strongest weight despite the weaker second row
	if res.Weights["s1"] != 0.9 || res.Weights["s2"] != 0.7 {
		t.Errorf("unexpected weights: %v", res.Weights)
	}
}

func TestByTerm_ReaderError(t *testing.T) {
	svc, tr, _, _ := newTestService(t)

	tr.findByTermFn = func(_ context.Context, _ string, _ int) ([]domain.Annotation, error) {
		return nil, errors.New("connection refused")
	}

	if _, err := svc.ByTerm(context.Background(), "amygdala"); err == nil {
		t.Fatal("expected error")
	}
}

// --- ByLocation ---

func TestByLocation_HappyPath(t *testing.T) {
	svc, _, lr, _ := newTestService(t)

	lr.nearestFn = func(_ context.Context, p domain.Point, k int) ([]domain.CoordinateHit, error) {
		if p != (domain.Point{X: 0, Y: -52, Z: 26}) {
			t.Errorf("unexpected point: %+v", p)
		}
		if k != LocationLimitDefault {
			t.Errorf("expected k %d, got %d", LocationLimitDefault, k)
		}
		return []domain.CoordinateHit{
			{StudyID: "s1", Coord: domain.Coordinate{X: 0, Y: -52, Z: 26}, Distance: 0},
			{StudyID: "s2", Coord: domain.Coordinate{X: 2, Y: -50, Z: 25}, Distance: 9},
		}, nil
	}

	res, err := svc.ByLocation(context.Background(), "0_-52_26")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.QueryPoint != (domain.Point{X: 0, Y: -52, Z: 26}) {
		t.Errorf("unexpected query point: %+v", res.QueryPoint)
	}
	if len(res.Studies) != 2 || res.Studies[0].StudyID != "s1" {
		t.Errorf("unexpected studies: %v", res.Studies)
	}
}

func TestByLocation_DeduplicatesByClosestCoordinate(t *testing.T) {
	svc, _, lr, h := newTestService(t)

	lr.nearestFn = func(_ context.Context, _ domain.Point, _ int) ([]domain.CoordinateHit, error) {
		return []domain.CoordinateHit{
			{StudyID: "s1", Distance: 1},
			{StudyID: "s2", Distance: 2},
			{StudyID: "s1", Distance: 3},
		}, nil
	}

	var hydrated []domain.StudyID
	h.hydrateFn = func(_ context.Context, ids []domain.StudyID) ([]domain.HydratedStudy, error) {
		hydrated = ids
		return []domain.HydratedStudy{}, nil
	}

	if _, err := svc.ByLocation(context.Background(), "0_0_0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hydrated) != 2 || hydrated[0] != "s1" || hydrated[1] != "s2" {
		t.Errorf("unexpected hydrated ids: %v", hydrated)
	}
}

func TestByLocation_MalformedCoordinates(t *testing.T) {
	svc, _, lr, _ := newTestService(t)

	lr.nearestFn = func(_ context.Context, _ domain.Point, _ int) ([]domain.CoordinateHit, error) {
		t.Error("index should not be queried for malformed coordinates")
		return nil, nil
	}

	for _, raw := range []string{"1_2", "a_b_c", "1_2_3_4", ""} {
		_, err := svc.ByLocation(context.Background(), raw)
		if !errors.Is(err, domain.ErrInvalidCoordinates) {
			t.Errorf("ByLocation(%q): want ErrInvalidCoordinates, got %v", raw, err)
		}
	}
}

func TestByLocation_ReaderError(t *testing.T) {
	svc, _, lr, _ := newTestService(t)

	lr.nearestFn = func(_ context.Context, _ domain.Point, _ int) ([]domain.CoordinateHit, error) {
		return nil, errors.New("connection refused")
	}

	if _, err := svc.ByLocation(context.Background(), "0_0_0"); err == nil {
		t.Fatal("expected error")
	}
}
