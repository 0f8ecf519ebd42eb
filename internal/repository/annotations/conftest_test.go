package annotations

import (
	"context"
	"testing"

	"github.com/neurodex/neurodex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchTagFn    func(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
	searchCountFn  func(ctx context.Context, index, query string) (int, error)
	searchSampleFn func(ctx context.Context, index string, limit int, returnFields []string) (*db.SearchResult, error)
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
}

func (m *mockStore) SearchTag(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error) {
	if m.searchTagFn != nil {
		return m.searchTagFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func (m *mockStore) SearchSample(ctx context.Context, index string, limit int, returnFields []string) (*db.SearchResult, error) {
	if m.searchSampleFn != nil {
		return m.searchSampleFn(ctx, index, limit, returnFields)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "neurodex"), ms
}

func annotationEntry(key, study, contrast, term, weight string) db.SearchEntry {
	return db.SearchEntry{
		Key: key,
		Fields: map[string]string{
			"study_id":    study,
			"contrast_id": contrast,
			"term":        term,
			"weight":      weight,
		},
	}
}
