// labmarker is a command-line tool for extracting structured blood-marker
// data from medical laboratory PDF reports.
//
// PDFs are processed with Google Document AI; the recognized tables, form
// fields, and text are then converted into a categorized, de-duplicated,
// validated JSON record of blood markers.
//
// Configuration:
//
// The tool requires a YAML configuration file with Document AI settings:
//
//	project_id: "your-gcp-project-id"
//	location: "eu"
//	processor_id: "your-processor-id"
//	catalog: "reference-values.csv"   # optional reference catalog
//	fallback:                         # optional fallback processor
//	  project_id: "your-gcp-project-id"
//	  location: "eu"
//	  processor_id: "backup-processor-id"
//
// Usage:
//
//	labmarker -config config.yml -pdf report.pdf [-out result.json]
//	labmarker -doc-json response.json [-catalog ref.csv] [-out result.json]
//
// The -doc-json mode parses a stored Document AI response instead of calling
// the API, which is useful for reprocessing and debugging without quota.
//
// Authentication uses the GOOGLE_APPLICATION_CREDENTIALS environment
// variable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"gopkg.in/yaml.v3"

	"github.com/vitalab/labmarker/pkg/docai"
	"github.com/vitalab/labmarker/pkg/document"
	"github.com/vitalab/labmarker/pkg/labreport"
	"github.com/vitalab/labmarker/pkg/refcatalog"
)

type fileConfig struct {
	docai.Config `yaml:",inline"`
	Catalog      string `yaml:"catalog"`
}

// loadConfig reads the YAML configuration file.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file (required unless -doc-json is used)")
	pdfPath := flag.String("pdf", "", "Path to the input PDF file")
	docJSONPath := flag.String("doc-json", "", "Path to a stored Document AI response JSON to parse instead of calling the API")
	catalogPath := flag.String("catalog", "", "Path to the reference catalog CSV (overrides the config file)")
	outPath := flag.String("out", "", "Path to save the extraction result JSON (default stdout)")
	debugDocPath := flag.String("debug-doc", "", "Path to save the converted document model as JSON for debugging")
	flag.Parse()

	if *docJSONPath == "" && (*configPath == "" || *pdfPath == "") {
		fmt.Fprintln(os.Stderr, "Error: either -doc-json, or both -config and -pdf, are required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var cfg *fileConfig
	if *configPath != "" {
		cfg, err = loadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	catalog := loadCatalog(cfg, *catalogPath, logger)
	parser := labreport.NewParser(catalog, logger)

	var result *labreport.Result
	ctx := context.Background()

	if *docJSONPath != "" {
		doc, err := loadStoredDocument(*docJSONPath)
		if err != nil {
			log.Fatalf("Failed to load stored document: %v", err)
		}
		dumpDebugDoc(*debugDocPath, doc)
		result, _ = parser.Parse(doc)
		result.Status = "success"
		result.Message = "Document processed successfully"
	} else {
		pdfBytes, err := os.ReadFile(*pdfPath)
		if err != nil {
			log.Fatalf("Failed to read PDF: %v", err)
		}
		client, err := docai.NewClient(ctx, &cfg.Config, logger)
		if err != nil {
			log.Fatalf("Failed to create Document AI client: %v", err)
		}
		defer client.Close()

		service := labreport.NewService(client, parser, logger)
		result = service.ProcessPDF(ctx, pdfBytes)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal result: %v", err)
	}
	if *outPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
	fmt.Printf("Extraction result saved to %s\n", *outPath)
}

// loadCatalog resolves the catalog path (flag wins over config) and loads
// it. A missing catalog is tolerated: validation degrades to a no-op.
func loadCatalog(cfg *fileConfig, override string, logger *zap.Logger) refcatalog.Catalog {
	path := override
	if path == "" && cfg != nil {
		path = cfg.Catalog
	}
	if path == "" {
		return nil
	}
	catalog, err := refcatalog.Load(path)
	if err != nil {
		logger.Warn("reference catalog unavailable, continuing without validation",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	logger.Info("loaded reference catalog", zap.Int("markers", len(catalog)))
	return catalog
}

// loadStoredDocument decodes a Document AI response previously saved as
// protojson and converts it to the neutral model.
func loadStoredDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var proto documentaipb.Document
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(data, &proto); err != nil {
		// Older pipeline exports used the neutral model directly.
		var doc document.Document
		if jsonErr := json.Unmarshal(data, &doc); jsonErr == nil && doc.Text != "" {
			return &doc, nil
		}
		return nil, err
	}
	return document.FromProto(&proto), nil
}

func dumpDebugDoc(path string, doc *document.Document) {
	if path == "" {
		return
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		log.Printf("Failed to save debug document: %v", err)
	}
}
