package validation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidDocument is returned when a document does not match its schema
var ErrInvalidDocument = errors.New("document does not match schema")

//go:embed mis_report.schema.json
var misReportSchemaJSON []byte

var (
	misReportSchema     *gojsonschema.Schema
	misReportSchemaErr  error
	misReportSchemaOnce sync.Once
)

// LoadSchema compiles a JSON schema
func LoadSchema(schemaJSON []byte) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return schema, nil
}

// MISReportSchema returns the compiled MIS report schema
func MISReportSchema() (*gojsonschema.Schema, error) {
	misReportSchemaOnce.Do(func() {
		misReportSchema, misReportSchemaErr = LoadSchema(misReportSchemaJSON)
	})
	return misReportSchema, misReportSchemaErr
}

// ValidateJSON validates a JSON document against schema
func ValidateJSON(document []byte, schema *gojsonschema.Schema) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(details, "; "))
	}
	return nil
}

// ValidateMISReport checks a generated report before it leaves the service
func ValidateMISReport(report *models.MISReport) error {
	schema, err := MISReportSchema()
	if err != nil {
		return err
	}
	document, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return ValidateJSON(document, schema)
}
