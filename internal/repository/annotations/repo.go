// Package annotations stores and queries weighted term annotations. Each
// annotation row is one Redis hash indexed by an FT index, so term lookups
// and batched per-study fetches are single FT.SEARCH calls.
package annotations

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/neurodex/neurodex/internal/db"
	"github.com/neurodex/neurodex/internal/domain"
)

// perStudyFetchCap bounds how many annotation rows a batched per-study fetch
// may return for each requested study.
const perStudyFetchCap = 512

// store is the consumer interface for annotation operations (ISP).
type store interface {
	SearchTag(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	SearchSample(ctx context.Context, index string, limit int, returnFields []string) (*db.SearchResult, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements the annotation repository over a RediSearch-backed store.
type Repo struct {
	store  store
	prefix string
}

// New creates an annotation repository. prefix namespaces all keys and the
// index name, so parallel corpora can share one database.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// IndexName returns the FT index name covering annotation hashes.
func (r *Repo) IndexName() string {
	return r.prefix + ":ann:idx"
}

func (r *Repo) keyPrefix() string {
	return r.prefix + ":ann:"
}

func (r *Repo) key(study domain.StudyID, contrast string, seq int) string {
	return fmt.Sprintf("%s%s:%s:%d", r.keyPrefix(), study, contrast, seq)
}

// EnsureIndex creates the annotation FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := db.NewIndex(r.IndexName()).
		Prefix(r.keyPrefix()).
		Tag("study_id").
		Tag("contrast_id").
		Tag("term").
		SortableNumeric("weight").
		Build()
	if err != nil {
		return fmt.Errorf("build annotation index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create annotation index: %w", err)
	}
	return nil
}

// FindByTerm returns annotation rows whose canonical term matches exactly,
// sorted by weight descending, at most limit rows. The term must already be
// canonical; this layer does no normalization.
func (r *Repo) FindByTerm(ctx context.Context, term string, limit int) ([]domain.Annotation, error) {
	sr, err := r.store.SearchTag(ctx, &db.TagQuery{
		IndexName:    r.IndexName(),
		Field:        "term",
		Values:       []string{term},
		SortBy:       "weight",
		SortDesc:     true,
		Limit:        limit,
		ReturnFields: annotationFields,
	})
	if err != nil {
		return nil, fmt.Errorf("find by term %q: %w", term, err)
	}
	return parseAnnotations(sr)
}

// ForStudies fetches every annotation row belonging to any of the given
// studies in a single OR-ed tag search. Order is unspecified; callers group
// and rank per study themselves.
func (r *Repo) ForStudies(ctx context.Context, ids []domain.StudyID) ([]domain.Annotation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = string(id)
	}

	sr, err := r.store.SearchTag(ctx, &db.TagQuery{
		IndexName:    r.IndexName(),
		Field:        "study_id",
		Values:       values,
		Limit:        len(ids) * perStudyFetchCap,
		ReturnFields: annotationFields,
	})
	if err != nil {
		return nil, fmt.Errorf("annotations for %d studies: %w", len(ids), err)
	}
	return parseAnnotations(sr)
}

// Count returns the total number of annotation rows in the corpus.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.IndexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count annotations: %w", err)
	}
	return n, nil
}

// Sample returns up to n arbitrary annotation rows, for status inspection.
func (r *Repo) Sample(ctx context.Context, n int) ([]domain.Annotation, error) {
	sr, err := r.store.SearchSample(ctx, r.IndexName(), n, annotationFields)
	if err != nil {
		return nil, fmt.Errorf("sample annotations: %w", err)
	}
	return parseAnnotations(sr)
}

// Put stores annotation rows in one pipelined round-trip. Row keys carry a
// per-(study, contrast) sequence number so re-ingesting a study overwrites
// its previous rows in place.
func (r *Repo) Put(ctx context.Context, anns []domain.Annotation) error {
	if len(anns) == 0 {
		return nil
	}

	seq := make(map[string]int, len(anns))
	items := make([]db.HashSetItem, len(anns))
	for i, a := range anns {
		group := string(a.StudyID) + ":" + a.ContrastID
		n := seq[group]
		seq[group] = n + 1

		items[i] = db.HashSetItem{
			Key: r.key(a.StudyID, a.ContrastID, n),
			Fields: map[string]string{
				"study_id":    string(a.StudyID),
				"contrast_id": a.ContrastID,
				"term":        a.Term,
				"weight":      strconv.FormatFloat(a.Weight, 'f', -1, 64),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put %d annotations: %w", len(anns), err)
	}
	return nil
}

var annotationFields = []string{"study_id", "contrast_id", "term", "weight"}

func parseAnnotations(sr *db.SearchResult) ([]domain.Annotation, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	anns := make([]domain.Annotation, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		weight, err := strconv.ParseFloat(entry.Fields["weight"], 64)
		if err != nil {
			return nil, fmt.Errorf("parse weight for %s: %w", entry.Key, err)
		}
		anns = append(anns, domain.Annotation{
			StudyID:    domain.StudyID(entry.Fields["study_id"]),
			ContrastID: entry.Fields["contrast_id"],
			Term:       entry.Fields["term"],
			Weight:     weight,
		})
	}
	return anns, nil
}
