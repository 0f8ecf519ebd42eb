package chi

import (
	"github.com/neurodex/neurodex/internal/domain"
	corpusuc "github.com/neurodex/neurodex/internal/usecase/corpus"
	dissociateuc "github.com/neurodex/neurodex/internal/usecase/dissociate"
	queryuc "github.com/neurodex/neurodex/internal/usecase/query"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type annotationSampleJSON struct {
	StudyID    string  `json:"study_id"`
	ContrastID string  `json:"contrast_id"`
	Term       string  `json:"term"`
	Weight     float64 `json:"weight"`
}

type coordinateSampleJSON struct {
	StudyID string     `json:"study_id"`
	Coords  coordsJSON `json:"coords"`
}

type corpusStatusResponse struct {
	Annotations      int                    `json:"annotation_count"`
	Coordinates      int                    `json:"coordinate_count"`
	AnnotationSample []annotationSampleJSON `json:"annotation_sample"`
	CoordinateSample []coordinateSampleJSON `json:"coordinate_sample"`
}

type coordsJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type termWeightJSON struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

type studyJSON struct {
	StudyID    string           `json:"study_id"`
	ContrastID string           `json:"contrast_id,omitempty"`
	Weight     *float64         `json:"weight_for_query_term,omitempty"`
	Coords     *coordsJSON      `json:"coords"`
	TopTerms   []termWeightJSON `json:"top_terms"`
}

type termStudiesResponse struct {
	QueryTerm string      `json:"query_term"`
	Count     int         `json:"count"`
	Studies   []studyJSON `json:"studies"`
}

type locationStudiesResponse struct {
	QueryCoords coordsJSON  `json:"query_coords"`
	Count       int         `json:"count"`
	Nearest     []studyJSON `json:"nearest"`
}

// dissociationToJSON flattens a dissociation result. keyA and keyB name the
// echoed probes: "term_a"/"term_b" for term dissociations, "query_a"/"query_b"
// for location dissociations.
func dissociationToJSON(res *dissociateuc.Result, keyA, keyB string) map[string]any {
	return map[string]any{
		keyA:            res.QueryA,
		keyB:            res.QueryB,
		"a_only_count":  len(res.AOnly),
		"b_only_count":  len(res.BOnly),
		"overlap_count": len(res.Overlap),
		"a_only":        studiesToJSON(res.AOnly),
		"b_only":        studiesToJSON(res.BOnly),
		"overlap":       studiesToJSON(res.Overlap),
	}
}

func corpusStatusToJSON(stats *corpusuc.Stats) corpusStatusResponse {
	out := corpusStatusResponse{
		Annotations:      stats.Annotations,
		Coordinates:      stats.Coordinates,
		AnnotationSample: make([]annotationSampleJSON, 0, len(stats.AnnotationSample)),
		CoordinateSample: make([]coordinateSampleJSON, 0, len(stats.CoordinateSample)),
	}
	for _, a := range stats.AnnotationSample {
		out.AnnotationSample = append(out.AnnotationSample, annotationSampleJSON{
			StudyID:    string(a.StudyID),
			ContrastID: a.ContrastID,
			Term:       a.Term,
			Weight:     a.Weight,
		})
	}
	for _, c := range stats.CoordinateSample {
		out.CoordinateSample = append(out.CoordinateSample, coordinateSampleJSON{
			StudyID: string(c.StudyID),
			Coords:  coordsJSON{X: c.Coord.X, Y: c.Coord.Y, Z: c.Coord.Z},
		})
	}
	return out
}

func studyToJSON(s domain.HydratedStudy) studyJSON {
	out := studyJSON{
		StudyID:  string(s.StudyID),
		TopTerms: make([]termWeightJSON, 0, len(s.TopTerms)),
	}
	if s.Coords != nil {
		out.Coords = &coordsJSON{X: s.Coords.X, Y: s.Coords.Y, Z: s.Coords.Z}
	}
	for _, tw := range s.TopTerms {
		out.TopTerms = append(out.TopTerms, termWeightJSON{Term: tw.Term, Weight: tw.Weight})
	}
	return out
}

func studiesToJSON(studies []domain.HydratedStudy) []studyJSON {
	out := make([]studyJSON, len(studies))
	for i, s := range studies {
		out[i] = studyToJSON(s)
	}
	return out
}

func termResultToJSON(res *queryuc.TermResult) termStudiesResponse {
	studies := studiesToJSON(res.Studies)
	for i := range studies {
		id := domain.StudyID(studies[i].StudyID)
		if w, ok := res.Weights[id]; ok {
			weight := w
			studies[i].Weight = &weight
		}
		studies[i].ContrastID = res.Contrasts[id]
	}
	return termStudiesResponse{
		QueryTerm: res.QueryTerm,
		Count:     len(studies),
		Studies:   studies,
	}
}

func locationResultToJSON(res *queryuc.LocationResult) locationStudiesResponse {
	return locationStudiesResponse{
		QueryCoords: coordsJSON{X: res.QueryPoint.X, Y: res.QueryPoint.Y, Z: res.QueryPoint.Z},
		Count:       len(res.Studies),
		Nearest:     studiesToJSON(res.Studies),
	}
}
