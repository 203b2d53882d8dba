package labreport

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vitalab/labmarker/pkg/document"
)

// Processor is the OCR boundary: it turns raw PDF bytes into the neutral
// document model. The production implementation lives in pkg/docai; tests
// substitute a fake.
type Processor interface {
	Process(ctx context.Context, pdfBytes []byte) (*document.Document, error)
	ProcessorID() string
}

// Service is the top-level entry point: decode, OCR, parse, annotate.
// It upholds the pipeline's outward contract that the caller always receives
// a well-formed Result with an explicit status, never an exception path. Only
// base64 decoding and the OCR call itself can fail a request; every parsing
// shortfall surfaces as low confidence or a warning status instead.
type Service struct {
	ocr    Processor
	parser *Parser
	log    *zap.Logger
}

// NewService constructs a Service. A nil logger falls back to a no-op logger.
func NewService(ocr Processor, parser *Parser, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ocr: ocr, parser: parser, log: log}
}

// ProcessBase64 decodes a base64 PDF payload and processes it. A decode
// failure is one of the few hard errors: it produces an error Result rather
// than reaching the OCR service.
func (s *Service) ProcessBase64(ctx context.Context, pdfBase64 string) *Result {
	pdfBytes, err := base64.StdEncoding.DecodeString(pdfBase64)
	if err != nil {
		s.log.Error("base64 decode failed", zap.Error(err))
		return errorResult(fmt.Errorf("invalid base64 pdf data: %w", err))
	}
	s.log.Info("decoded pdf payload", zap.Int("bytes", len(pdfBytes)))
	return s.ProcessPDF(ctx, pdfBytes)
}

// ProcessPDF sends the PDF through OCR and runs the extraction pipeline.
func (s *Service) ProcessPDF(ctx context.Context, pdfBytes []byte) *Result {
	start := time.Now()
	doc, err := s.ocr.Process(ctx, pdfBytes)
	if err != nil {
		s.log.Error("document processing failed", zap.Error(err))
		return errorResult(fmt.Errorf("document processing failed: %w", err))
	}
	processingTime := time.Since(start)

	res, failures := s.parser.Parse(doc)
	for _, stageErr := range failures {
		s.log.Warn("stage degraded", zap.Error(stageErr))
	}

	res.Metadata = &ProcessingMetadata{
		ProcessingTime: processingTime.Seconds(),
		ProcessorID:    s.ocr.ProcessorID(),
		DocumentPages:  len(doc.Pages),
	}
	res.Status = "success"
	res.Message = "Document processed successfully"
	return res
}

// errorResult is the failure shape of the outward contract: status, message,
// no marker data.
func errorResult(err error) *Result {
	return &Result{
		Status:  "error",
		Message: err.Error(),
	}
}
