package version

import (
	"embed"
	"fmt"
	"strings"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
)

// schemaFS holds the raw schema documents for the SOAP envelope, SOAP
// encoding and every CWMP namespace, as emitted by the XSD pipeline.
//
//go:embed schemas/*.yaml
var schemaFS embed.FS

// RawDocuments parses every embedded schema document, in file name order.
func RawDocuments() ([]*schema.Document, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("reading schemas directory: %w", err)
	}

	var docs []*schema.Document
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		doc, err := schema.ParseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// RawGraph builds a fresh, mutable raw graph holding every CWMP namespace
// side by side.
func RawGraph() (*schema.Graph, error) {
	docs, err := RawDocuments()
	if err != nil {
		return nil, err
	}
	return schema.Build(docs...)
}
