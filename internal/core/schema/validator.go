// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Names of the embedded schemas.
const (
	SuccessReport    = "success_report"
	EscalationReport = "escalation_report"
	IssueList        = "issue_list"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// TODO: The gojsonschema library is quite old with no updates. It might be worth looking to see if there's a newer maintained
// alternative.
// Validate validates a document against one of the embedded schemas
func Validate(schemaName string, document interface{}) error {
	documentBytes, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("schema validation error: failed to serialize document: %w", err)
	}

	return ValidateBytes(schemaName, documentBytes)
}

// ValidateBytes validates raw JSON against one of the embedded schemas
func ValidateBytes(schemaName string, document []byte) error {
	schemaBytes, err := schemaFiles.ReadFile("schemas/" + schemaName + ".json")
	if err != nil {
		return fmt.Errorf("unknown schema %q: %w", schemaName, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errorMsg := fmt.Sprintf("%s validation failed:\n", schemaName)
		for _, err := range result.Errors() {
			errorMsg += fmt.Sprintf("- %s\n", err)
		}
		return fmt.Errorf("%s", errorMsg)
	}

	return nil
}
