package docai

import (
	"context"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vitalab/labmarker/pkg/document"
)

// ServiceError is a Document AI failure. Transient errors are retried under
// the configured deadline before being surfaced; permanent errors surface
// immediately.
type ServiceError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("document ai %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client calls Document AI and converts responses into the neutral document
// model. It holds one underlying gRPC client and is safe for concurrent use.
type Client struct {
	cfg    *Config
	client *documentai.DocumentProcessorClient
	log    *zap.Logger
}

// NewClient connects to the regional Document AI endpoint using credentials
// from the GOOGLE_APPLICATION_CREDENTIALS environment variable.
func NewClient(ctx context.Context, cfg *Config, log *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return &Client{cfg: cfg, client: client, log: log}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// ProcessorID identifies the primary processor for processing metadata.
func (c *Client) ProcessorID() string {
	return c.cfg.ProcessorID
}

// Process sends PDF bytes through the configured processor and returns the
// neutral document. Transient failures (unavailable, exhausted quota,
// deadline, aborted) are retried with exponential backoff until the
// configured deadline. When the primary processor does not exist and a
// fallback is configured, the call is repeated once against the fallback.
func (c *Client) Process(ctx context.Context, pdfBytes []byte) (*document.Document, error) {
	doc, err := c.processWith(ctx, c.cfg.Path(), pdfBytes)
	if err != nil && c.cfg.Fallback != nil && isMissingProcessor(err) {
		c.log.Warn("primary processor unavailable, trying fallback",
			zap.String("primary", c.cfg.ProcessorID),
			zap.String("fallback", c.cfg.Fallback.ProcessorID),
			zap.Error(err))
		return c.processWith(ctx, c.cfg.Fallback.Path(), pdfBytes)
	}
	return doc, err
}

func (c *Client) processWith(ctx context.Context, processorPath string, pdfBytes []byte) (*document.Document, error) {
	req := &documentaipb.ProcessRequest{
		Name: processorPath,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.cfg.retryDeadline()

	resp, err := backoff.RetryWithData(func() (*documentaipb.ProcessResponse, error) {
		resp, callErr := c.client.ProcessDocument(ctx, req)
		if callErr == nil {
			return resp, nil
		}
		svcErr := &ServiceError{Op: "process", Transient: isTransient(callErr), Err: callErr}
		if !svcErr.Transient {
			return nil, backoff.Permanent(error(svcErr))
		}
		c.log.Warn("transient Document AI failure, retrying", zap.Error(callErr))
		return nil, svcErr
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return nil, err
	}
	return document.FromProto(resp.Document), nil
}

// isTransient classifies gRPC failures that are worth retrying.
func isTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Aborted:
		return true
	default:
		return false
	}
}

// isMissingProcessor reports failures that indicate the processor itself
// cannot serve: deleted, never created, or not visible to the caller.
func isMissingProcessor(err error) bool {
	switch status.Code(err) {
	case codes.NotFound, codes.PermissionDenied, codes.FailedPrecondition:
		return true
	default:
		return false
	}
}
