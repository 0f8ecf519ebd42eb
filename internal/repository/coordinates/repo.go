// Package coordinates stores and queries activation coordinates. Each
// coordinate is one Redis hash holding both plain x/y/z fields and a 3-dim
// FLAT L2 vector, so nearest-neighbor lookups run as FT.SEARCH KNN queries.
package coordinates

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/neurodex/neurodex/internal/db"
	"github.com/neurodex/neurodex/internal/domain"
)

// perStudyFetchCap bounds how many coordinate rows a batched per-study fetch
// may return for each requested study.
const perStudyFetchCap = 256

// store is the consumer interface for coordinate operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchTag(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	SearchSample(ctx context.Context, index string, limit int, returnFields []string) (*db.SearchResult, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements the coordinate repository over a RediSearch-backed store.
type Repo struct {
	store  store
	prefix string
}

// New creates a coordinate repository. prefix namespaces all keys and the
// index name.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// IndexName returns the FT index name covering coordinate hashes.
func (r *Repo) IndexName() string {
	return r.prefix + ":coord:idx"
}

func (r *Repo) keyPrefix() string {
	return r.prefix + ":coord:"
}

func (r *Repo) key(study domain.StudyID, seq int) string {
	return fmt.Sprintf("%s%s:%d", r.keyPrefix(), study, seq)
}

// EnsureIndex creates the coordinate FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := db.NewIndex(r.IndexName()).
		Prefix(r.keyPrefix()).
		Tag("study_id").
		Numeric("x").
		Numeric("y").
		Numeric("z").
		SortableNumeric("seq").
		VectorFlat("vector", 3, db.DistanceL2).
		Build()
	if err != nil {
		return fmt.Errorf("build coordinate index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create coordinate index: %w", err)
	}
	return nil
}

// Nearest returns up to k coordinates closest to the query point. Ties on
// distance break on study id ascending so repeated queries return the same
// order.
func (r *Repo) Nearest(ctx context.Context, p domain.Point, k int) ([]domain.CoordinateHit, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.IndexName(),
		Vector:       p.Vector(),
		K:            k,
		ReturnFields: []string{"study_id", "x", "y", "z", "__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("nearest to (%g, %g, %g): %w", p.X, p.Y, p.Z, err)
	}

	hits := make([]domain.CoordinateHit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		coord, err := parseCoordinate(entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Key, err)
		}
		hits = append(hits, domain.CoordinateHit{
			StudyID:  domain.StudyID(entry.Fields["study_id"]),
			Coord:    coord,
			Distance: entry.Score,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].StudyID < hits[j].StudyID
	})
	return hits, nil
}

// FirstForStudies returns each study's first stored coordinate. Studies that
// report no coordinates are simply absent from the result map.
func (r *Repo) FirstForStudies(ctx context.Context, ids []domain.StudyID) (map[domain.StudyID]domain.Coordinate, error) {
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
		SortBy:       "seq",
		Limit:        len(ids) * perStudyFetchCap,
		ReturnFields: []string{"study_id", "x", "y", "z", "seq"},
	})
	if err != nil {
		return nil, fmt.Errorf("coordinates for %d studies: %w", len(ids), err)
	}

	// seq-ascending order makes the first row seen per study its first
	// stored coordinate.
	out := make(map[domain.StudyID]domain.Coordinate, len(ids))
	for _, entry := range sr.Entries {
		id := domain.StudyID(entry.Fields["study_id"])
		if _, seen := out[id]; seen {
			continue
		}
		coord, err := parseCoordinate(entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Key, err)
		}
		out[id] = coord
	}
	return out, nil
}

// Count returns the total number of coordinate rows in the corpus.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.IndexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count coordinates: %w", err)
	}
	return n, nil
}

// Sample returns up to n arbitrary coordinate rows, for status inspection.
func (r *Repo) Sample(ctx context.Context, n int) ([]domain.StudyCoordinate, error) {
	sr, err := r.store.SearchSample(ctx, r.IndexName(), n, []string{"study_id", "x", "y", "z"})
	if err != nil {
		return nil, fmt.Errorf("sample coordinates: %w", err)
	}

	out := make([]domain.StudyCoordinate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		coord, err := parseCoordinate(entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Key, err)
		}
		out = append(out, domain.StudyCoordinate{
			StudyID: domain.StudyID(entry.Fields["study_id"]),
			Coord:   coord,
		})
	}
	return out, nil
}

// Put stores a study's coordinates in one pipelined round-trip, in the order
// given. Sequence numbers preserve that order for first-coordinate lookups.
func (r *Repo) Put(ctx context.Context, id domain.StudyID, coords []domain.Coordinate) error {
	if len(coords) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(coords))
	for i, c := range coords {
		items[i] = db.HashSetItem{
			Key: r.key(id, i),
			Fields: map[string]string{
				"study_id": string(id),
				"x":        strconv.FormatFloat(c.X, 'f', -1, 64),
				"y":        strconv.FormatFloat(c.Y, 'f', -1, 64),
				"z":        strconv.FormatFloat(c.Z, 'f', -1, 64),
				"seq":      strconv.Itoa(i),
				"vector":   encodeVector(c),
			},
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put %d coordinates for %s: %w", len(coords), id, err)
	}
	return nil
}

func parseCoordinate(fields map[string]string) (domain.Coordinate, error) {
	var coord domain.Coordinate
	for _, axis := range []struct {
		name string
		dst  *float64
	}{
		{"x", &coord.X},
		{"y", &coord.Y},
		{"z", &coord.Z},
	} {
		v, err := strconv.ParseFloat(fields[axis.name], 64)
		if err != nil {
			return domain.Coordinate{}, fmt.Errorf("field %s: %w", axis.name, err)
		}
		*axis.dst = v
	}
	return coord, nil
}

// encodeVector serializes a coordinate as a little-endian float32 blob, the
// layout FT.SEARCH KNN expects for FLOAT32 vector fields.
func encodeVector(c domain.Coordinate) string {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(c.X)))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(c.Y)))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(c.Z)))
	return string(buf)
}
