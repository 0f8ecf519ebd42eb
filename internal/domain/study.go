package domain

// TopTermsDefault is the number of top-weighted terms attached to a hydrated study.
const TopTermsDefault = 5

// StudyID identifies a study in the corpus. The query engine never creates or
// deletes studies, it only references them by id.
type StudyID string

// Coordinate is a single activation focus reported by a study, in MNI space.
// A study may have zero, one, or many coordinates.
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// Annotation is a weighted association between a study contrast and a
// canonical term. Weight is non-negative; higher means stronger association.
type Annotation struct {
	StudyID    StudyID
	ContrastID string
	Term       string
	Weight     float64
}

// CoordinateHit is one coordinate returned by a nearest-neighbor lookup,
// carrying its L2 distance from the query point.
type CoordinateHit struct {
	StudyID  StudyID
	Coord    Coordinate
	Distance float64
}

// StudyCoordinate pairs a stored coordinate with the study that reported it.
type StudyCoordinate struct {
	StudyID StudyID
	Coord   Coordinate
}

// TermWeight is one entry of a study's top-terms summary.
type TermWeight struct {
	Term   string
	Weight float64
}

// HydratedStudy is the public result shape: a study id decorated with its
// first stored coordinate (nil when the study reports none) and its
// top-weighted terms, sorted weight-descending with term-ascending tie-break.
type HydratedStudy struct {
	StudyID  StudyID
	Coords   *Coordinate
	TopTerms []TermWeight
}
