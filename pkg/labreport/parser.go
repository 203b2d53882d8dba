package labreport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vitalab/labmarker/pkg/document"
	"github.com/vitalab/labmarker/pkg/refcatalog"
)

// ProcessingError is a stage-scoped extraction failure. The orchestrator
// logs it and moves on to the next stage with whatever partial Result has
// accumulated; it never aborts the pipeline.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Parser runs the extraction pipeline over a document. A Parser is stateless
// between calls and safe for concurrent use; the reference catalog it holds
// is read-only.
type Parser struct {
	catalog refcatalog.Catalog
	log     *zap.Logger
}

// NewParser constructs a Parser. The catalog may be nil or empty, which
// degrades reference validation to a no-op. A nil logger falls back to a
// no-op logger.
func NewParser(catalog refcatalog.Catalog, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{catalog: catalog, log: log}
}

// Parse runs every extraction strategy over the document and post-processes
// the combined result. All strategies run even when earlier ones fail;
// extraction is a best-effort union, not a strict pipeline. The returned
// errors describe stages that failed, and the Result is always usable.
func (p *Parser) Parse(doc *document.Document) (*Result, []error) {
	res := NewResult()
	if doc == nil {
		doc = &document.Document{}
	}

	var failures []error
	stages := []struct {
		name string
		run  func() error
	}{
		{"entities", func() error { return p.extractEntities(doc, res) }},
		{"tables", func() error { return p.extractTables(doc, res) }},
		{"patterns", func() error { return p.extractPatterns(doc.Text, res) }},
		{"form_fields", func() error { return p.extractFormFields(doc, res) }},
		{"post_processing", func() error { return p.postProcess(res) }},
	}
	for _, stage := range stages {
		if err := p.runStage(stage.name, stage.run); err != nil {
			failures = append(failures, err)
		}
	}

	p.log.Info("extraction finished",
		zap.Int("markers", res.Stats.TotalMarkersFound),
		zap.Float64("confidence", res.Stats.ExtractionConfidence),
		zap.Int("failed_stages", len(failures)))
	return res, failures
}

// runStage isolates one stage: a returned error or a panic becomes a
// ProcessingError carrying the stage name. Panics are converted rather than
// propagated because the document shapes come from an external service and
// are adversarial by nature.
func (p *Parser) runStage(name string, run func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ProcessingError{Stage: name, Err: fmt.Errorf("panic: %v", r)}
			p.log.Warn("extraction stage panicked", zap.String("stage", name), zap.Any("panic", r))
		}
	}()
	if stageErr := run(); stageErr != nil {
		p.log.Warn("extraction stage failed", zap.String("stage", name), zap.Error(stageErr))
		return &ProcessingError{Stage: name, Err: stageErr}
	}
	return nil
}
