package labreport

import (
	"math"
	"sort"

	"github.com/vitalab/labmarker/pkg/marker"
)

// Validation status values reported in extraction_stats.
const (
	StatusSuccess        = "success"
	StatusLowMarkerCount = "warning: low marker count"
	StatusLowConfidence  = "warning: low confidence"
)

const minReliableMarkerCount = 5

// postProcess runs after all extraction strategies: duplicate resolution,
// deterministic ordering, confidence scoring, reference validation. The
// steps are independent; each operates on whatever state the previous ones
// left behind.
func (p *Parser) postProcess(res *Result) error {
	res.markerLists(func(list *[]*marker.Marker) {
		*list = Deduplicate(*list)
	})
	res.markerLists(func(list *[]*marker.Marker) {
		sort.SliceStable(*list, func(i, j int) bool {
			return (*list)[i].Test < (*list)[j].Test
		})
	})
	p.computeConfidence(res)
	p.validateAgainstCatalog(res)
	return nil
}

// Deduplicate resolves markers sharing a folded test name, keeping the most
// complete record. Ties keep the first seen. The operation is idempotent and
// order-preserving for the surviving records.
func Deduplicate(list []*marker.Marker) []*marker.Marker {
	if len(list) < 2 {
		return list
	}
	seen := make(map[string]int, len(list))
	out := make([]*marker.Marker, 0, len(list))
	for _, m := range list {
		key := marker.FoldName(m.Test)
		if idx, ok := seen[key]; ok {
			if m.CompletenessScore() > out[idx].CompletenessScore() {
				out[idx] = m
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, m)
	}
	return out
}

// computeConfidence sets extraction_confidence to the percentage of markers
// found in the reference catalog, rounded to two decimals. With nothing
// extracted the confidence is exactly zero.
func (p *Parser) computeConfidence(res *Result) {
	if res.Stats.TotalMarkersFound <= 0 {
		res.Stats.ExtractionConfidence = 0.0
		return
	}
	confidence := float64(res.Stats.MarkersWithReference) / float64(res.Stats.TotalMarkersFound) * 100
	res.Stats.ExtractionConfidence = math.Round(confidence*100) / 100
}

// validateAgainstCatalog intersects the extracted marker names with the
// reference catalog and derives the validation status. With no catalog
// loaded the step is skipped entirely and the counts stay at zero.
//
// Confidence depends on the with-reference count, so it is recomputed here
// once the intersection is known.
func (p *Parser) validateAgainstCatalog(res *Result) {
	if len(p.catalog) == 0 {
		return
	}

	extracted := make(map[string]bool)
	res.markerLists(func(list *[]*marker.Marker) {
		for _, m := range *list {
			extracted[marker.FoldName(m.Test)] = true
		}
	})

	withRef := 0
	for name := range extracted {
		if _, ok := p.catalog[name]; ok {
			withRef++
		}
	}
	res.Stats.MarkersWithReference = withRef
	res.Stats.MarkersWithoutReference = len(extracted) - withRef
	p.computeConfidence(res)

	switch {
	case res.Stats.TotalMarkersFound < minReliableMarkerCount:
		res.Stats.ValidationStatus = StatusLowMarkerCount
	case res.Stats.ExtractionConfidence < 50:
		res.Stats.ValidationStatus = StatusLowConfidence
	default:
		res.Stats.ValidationStatus = StatusSuccess
	}
}
