package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/neurodex/neurodex/internal/domain"
	corpusuc "github.com/neurodex/neurodex/internal/usecase/corpus"
	dissociateuc "github.com/neurodex/neurodex/internal/usecase/dissociate"
	healthuc "github.com/neurodex/neurodex/internal/usecase/health"
	hydrateuc "github.com/neurodex/neurodex/internal/usecase/hydrate"
	queryuc "github.com/neurodex/neurodex/internal/usecase/query"
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

type mockAnnStats struct {
	n      int
	sample []domain.Annotation
	err    error
}

func (m *mockAnnStats) Count(_ context.Context) (int, error) { return m.n, m.err }

func (m *mockAnnStats) Sample(_ context.Context, _ int) ([]domain.Annotation, error) {
	return m.sample, m.err
}

type mockCoordStats struct {
	n      int
	sample []domain.StudyCoordinate
	err    error
}

func (m *mockCoordStats) Count(_ context.Context) (int, error) { return m.n, m.err }

func (m *mockCoordStats) Sample(_ context.Context, _ int) ([]domain.StudyCoordinate, error) {
	return m.sample, m.err
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// mocks bundles every collaborator behind a test server.
type mocks struct {
	terms  *mockTermReader
	locs   *mockLocationReader
	anns   *mockAnnotationReader
	coords *mockCoordinateReader
	annCnt *mockAnnStats
	locCnt *mockCoordStats
	pinger *mockPinger
}

func newTestServer(t *testing.T) (http.Handler, *mocks) {
	t.Helper()

	m := &mocks{
		terms:  &mockTermReader{},
		locs:   &mockLocationReader{},
		anns:   &mockAnnotationReader{},
		coords: &mockCoordinateReader{},
		annCnt: &mockAnnStats{},
		locCnt: &mockCoordStats{},
		pinger: &mockPinger{},
	}

	hydrator := hydrateuc.New(m.anns, m.coords, 0)
	srv := NewServer(
		queryuc.New(m.terms, m.locs, hydrator, 0, 0),
		dissociateuc.New(m.terms, m.locs, hydrator, 0, 0),
		corpusuc.New(m.annCnt, m.locCnt),
		healthuc.New(m.pinger, nil),
		zap.NewNop(),
	)

	r := chi.NewRouter()
	srv.Register(r)
	return r, m
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
