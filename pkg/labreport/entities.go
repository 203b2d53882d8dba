package labreport

import (
	"go.uber.org/zap"

	"github.com/vitalab/labmarker/pkg/document"
	"github.com/vitalab/labmarker/pkg/marker"
)

// Entity property types emitted by trained extractor processors.
const (
	entityTestName       = "test_name"
	entityResultValue    = "result_value"
	entityReferenceRange = "reference_range"
	entityUnit           = "unit"
)

// extractEntities converts trained-processor entities into markers. Each
// top-level entity represents one recognized lab result with its fields as
// typed properties. Documents from plain form processors carry no entities,
// in which case this strategy is a no-op and the table path does the work.
func (p *Parser) extractEntities(doc *document.Document, res *Result) error {
	for _, entity := range doc.Entities {
		if entity == nil || entity.Type == "" {
			continue
		}

		var test, result, unit, reference string
		for _, prop := range entity.Properties {
			text := prop.Text(doc.Text)
			switch prop.Type {
			case entityTestName:
				test = text
			case entityResultValue:
				result = text
			case entityReferenceRange:
				reference = text
			case entityUnit:
				unit = text
			}
		}
		if test == "" {
			continue
		}

		m, err := marker.New(test, result, unit, reference)
		if err != nil {
			p.log.Debug("entity rejected", zap.String("type", entity.Type), zap.Error(err))
			continue
		}
		m.Confidence = entity.Confidence
		res.AddMarker(m)
	}
	return nil
}
