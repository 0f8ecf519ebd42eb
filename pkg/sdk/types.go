package neurodex

import "strconv"

// Coords is a brain location in MNI millimeters.
type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// String renders the coordinates in the x_y_z wire form used in URLs.
func (c Coords) String() string {
	return strconv.FormatFloat(c.X, 'f', -1, 64) + "_" +
		strconv.FormatFloat(c.Y, 'f', -1, 64) + "_" +
		strconv.FormatFloat(c.Z, 'f', -1, 64)
}

// TermWeight is one term with its association weight.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Study is a hydrated study row: its first reported coordinate (nil when the
// study has none) and its strongest terms.
type Study struct {
	StudyID            string       `json:"study_id"`
	ContrastID         string       `json:"contrast_id,omitempty"`
	WeightForQueryTerm *float64     `json:"weight_for_query_term,omitempty"`
	Coords             *Coords      `json:"coords"`
	TopTerms           []TermWeight `json:"top_terms"`
}

// TermStudiesResult is the response of a term probe.
type TermStudiesResult struct {
	QueryTerm string  `json:"query_term"`
	Count     int     `json:"count"`
	Studies   []Study `json:"studies"`
}

// LocationStudiesResult is the response of a location probe.
type LocationStudiesResult struct {
	QueryCoords Coords  `json:"query_coords"`
	Count       int     `json:"count"`
	Nearest     []Study `json:"nearest"`
}

// TermDissociation is the three-way split of studies matching two terms.
type TermDissociation struct {
	TermA        string  `json:"term_a"`
	TermB        string  `json:"term_b"`
	AOnlyCount   int     `json:"a_only_count"`
	BOnlyCount   int     `json:"b_only_count"`
	OverlapCount int     `json:"overlap_count"`
	AOnly        []Study `json:"a_only"`
	BOnly        []Study `json:"b_only"`
	Overlap      []Study `json:"overlap"`
}

// LocationDissociation is the three-way split of studies near two locations.
type LocationDissociation struct {
	QueryA       string  `json:"query_a"`
	QueryB       string  `json:"query_b"`
	AOnlyCount   int     `json:"a_only_count"`
	BOnlyCount   int     `json:"b_only_count"`
	OverlapCount int     `json:"overlap_count"`
	AOnly        []Study `json:"a_only"`
	BOnly        []Study `json:"b_only"`
	Overlap      []Study `json:"overlap"`
}

// AnnotationSample is one example annotation row from a status report.
type AnnotationSample struct {
	StudyID    string  `json:"study_id"`
	ContrastID string  `json:"contrast_id"`
	Term       string  `json:"term"`
	Weight     float64 `json:"weight"`
}

// CoordinateSample is one example coordinate row from a status report.
type CoordinateSample struct {
	StudyID string `json:"study_id"`
	Coords  Coords `json:"coords"`
}

// CorpusStatus holds corpus-wide row counts and a few example rows per index.
type CorpusStatus struct {
	AnnotationCount  int                `json:"annotation_count"`
	CoordinateCount  int                `json:"coordinate_count"`
	AnnotationSample []AnnotationSample `json:"annotation_sample"`
	CoordinateSample []CoordinateSample `json:"coordinate_sample"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
