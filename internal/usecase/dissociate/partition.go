package dissociate

import (
	"sort"

	"github.com/neurodex/neurodex/internal/domain"
)

// Partition splits two study id sets into the ids seen only on side A, only
// on side B, and on both.
type Partition struct {
	AOnly   []domain.StudyID
	BOnly   []domain.StudyID
	Overlap []domain.StudyID
}

// PartitionIDs computes the three-way split of a and b. Duplicate ids within
// a side are collapsed and every output slice comes back sorted ascending, so
// equal inputs always produce equal partitions.
func PartitionIDs(a, b []domain.StudyID) Partition {
	inA := idSet(a)
	inB := idSet(b)

	p := Partition{
		AOnly:   []domain.StudyID{},
		BOnly:   []domain.StudyID{},
		Overlap: []domain.StudyID{},
	}
	for id := range inA {
		if inB[id] {
			p.Overlap = append(p.Overlap, id)
		} else {
			p.AOnly = append(p.AOnly, id)
		}
	}
	for id := range inB {
		if !inA[id] {
			p.BOnly = append(p.BOnly, id)
		}
	}

	sortIDs(p.AOnly)
	sortIDs(p.BOnly)
	sortIDs(p.Overlap)
	return p
}

func idSet(ids []domain.StudyID) map[domain.StudyID]bool {
	set := make(map[domain.StudyID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortIDs(ids []domain.StudyID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
