package coordinates

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/neurodex/neurodex/internal/db"
	"github.com/neurodex/neurodex/internal/domain"
)

// --- Nearest ---

func TestNearest_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "neurodex:coord:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.K != 50 {
			t.Errorf("unexpected K: %d", q.K)
		}
		if len(q.Vector) != 3 || q.Vector[0] != 0 || q.Vector[1] != -52 || q.Vector[2] != 26 {
			t.Errorf("unexpected vector: %v", q.Vector)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				coordEntry("neurodex:coord:s1:0", "s1", "0", "-52", "26", 0),
				coordEntry("neurodex:coord:s2:3", "s2", "2", "-50", "25", 9),
			},
		}, nil
	}

	hits, err := repo.Nearest(context.Background(), domain.Point{X: 0, Y: -52, Z: 26}, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].StudyID != "s1" || hits[0].Distance != 0 {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[0].Coord != (domain.Coordinate{X: 0, Y: -52, Z: 26}) {
		t.Errorf("unexpected coordinate: %+v", hits[0].Coord)
	}
}

func TestNearest_TieBreaksOnStudyID(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 3,
			Entries: []db.SearchEntry{
				coordEntry("neurodex:coord:s9:0", "s9", "1", "0", "0", 1),
				coordEntry("neurodex:coord:s2:0", "s2", "0", "1", "0", 1),
				coordEntry("neurodex:coord:s5:0", "s5", "0", "0", "0", 0),
			},
		}, nil
	}

	hits, err := repo.Nearest(context.Background(), domain.Point{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.StudyID{"s5", "s2", "s9"}
	for i, id := range want {
		if hits[i].StudyID != id {
			t.Errorf("hit %d: study = %s, want %s", i, hits[i].StudyID, id)
		}
	}
}

func TestNearest_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("connection refused")
	}

	if _, err := repo.Nearest(context.Background(), domain.Point{}, 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestNearest_BadCoordinateField(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				coordEntry("neurodex:coord:s1:0", "s1", "bogus", "0", "0", 0),
			},
		}, nil
	}

	if _, err := repo.Nearest(context.Background(), domain.Point{}, 10); err == nil {
		t.Fatal("expected error for malformed coordinate")
	}
}

// --- FirstForStudies ---

func TestFirstForStudies_PicksLowestSeq(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchTagFn = func(_ context.Context, q *db.TagQuery) (*db.SearchResult, error) {
		if q.Field != "study_id" {
			t.Errorf("unexpected field: %s", q.Field)
		}
		if q.SortBy != "seq" || q.SortDesc {
			t.Errorf("expected SORTBY seq ASC, got %s desc=%v", q.SortBy, q.SortDesc)
		}
		// seq-ascending: s1's seq-0 row precedes its seq-1 row
		return &db.SearchResult{
			Total: 3,
			Entries: []db.SearchEntry{
				coordEntry("neurodex:coord:s1:0", "s1", "10", "20", "30", 0),
				coordEntry("neurodex:coord:s2:0", "s2", "-4", "0", "8", 0),
				coordEntry("neurodex:coord:s1:1", "s1", "99", "99", "99", 0),
			},
		}, nil
	}

	coords, err := repo.FirstForStudies(context.Background(), []domain.StudyID{"s1", "s2", "s3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coords) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(coords))
	}
	if coords["s1"] != (domain.Coordinate{X: 10, Y: 20, Z: 30}) {
		t.Errorf("s1: got %+v", coords["s1"])
	}
	if coords["s2"] != (domain.Coordinate{X: -4, Y: 0, Z: 8}) {
		t.Errorf("s2: got %+v", coords["s2"])
	}
	if _, ok := coords["s3"]; ok {
		t.Error("s3 has no coordinates and should be absent")
	}
}

func TestFirstForStudies_EmptyInput(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchTagFn = func(_ context.Context, _ *db.TagQuery) (*db.SearchResult, error) {
		t.Fatal("store should not be called for empty input")
		return nil, nil
	}

	coords, err := repo.FirstForStudies(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords != nil {
		t.Errorf("expected nil, got %v", coords)
	}
}

// --- Sample ---

func TestSample(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchSampleFn = func(_ context.Context, index string, limit int, _ []string) (*db.SearchResult, error) {
		if index != "neurodex:coord:idx" {
			t.Errorf("unexpected index: %s", index)
		}
		if limit != 3 {
			t.Errorf("unexpected limit: %d", limit)
		}
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				coordEntry("neurodex:coord:s1:0", "s1", "0", "-52", "26", 0),
			},
		}, nil
	}

	rows, err := repo.Sample(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].StudyID != "s1" || rows[0].Coord.Y != -52 {
		t.Errorf("unexpected sample: %+v", rows)
	}
}

// --- Put ---

func TestPut_EncodesVector(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		got = items
		return nil
	}

	coords := []domain.Coordinate{
		{X: 0, Y: -52, Z: 26},
		{X: 4, Y: 42, Z: -8},
	}
	if err := repo.Put(context.Background(), "s1", coords); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Key != "neurodex:coord:s1:0" || got[1].Key != "neurodex:coord:s1:1" {
		t.Errorf("unexpected keys: %s, %s", got[0].Key, got[1].Key)
	}
	if got[0].Fields["seq"] != "0" || got[1].Fields["seq"] != "1" {
		t.Errorf("unexpected seq fields: %v, %v", got[0].Fields, got[1].Fields)
	}
	if got[0].Fields["x"] != "0" || got[0].Fields["y"] != "-52" || got[0].Fields["z"] != "26" {
		t.Errorf("unexpected axis fields: %v", got[0].Fields)
	}

	blob := []byte(got[0].Fields["vector"])
	if len(blob) != 12 {
		t.Fatalf("expected 12-byte vector blob, got %d", len(blob))
	}
	y := math.Float32frombits(binary.LittleEndian.Uint32(blob[4:]))
	if y != -52 {
		t.Errorf("vector y = %f, want -52", y)
	}
}

func TestPut_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hsetMultiFn = func(_ context.Context, _ []db.HashSetItem) error {
		t.Fatal("store should not be called for empty input")
		return nil
	}

	if err := repo.Put(context.Background(), "s1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- EnsureIndex ---

func TestEnsureIndex_CreatesSchema(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("CreateIndex not called")
	}
	if got.Name != "neurodex:coord:idx" {
		t.Errorf("unexpected index name: %s", got.Name)
	}

	var vec *db.IndexField
	for i := range got.Fields {
		if got.Fields[i].Type == db.IndexFieldVector {
			vec = &got.Fields[i]
		}
	}
	if vec == nil {
		t.Fatal("expected a vector field")
	}
	if vec.VectorDim != 3 || vec.VectorAlgo != db.VectorFlat || vec.VectorDistance != db.DistanceL2 {
		t.Errorf("unexpected vector field: %+v", vec)
	}
}

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return db.ErrIndexExists
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("already-exists should be silent, got %v", err)
	}
}
