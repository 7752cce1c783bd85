// Package schema checks raw state documents before they are decoded.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var snapshotSchema string

const snapshotSchemaURL = "snapshot.schema.json"

type Validator struct {
	schema *jsonschema.Schema
}

func NewSnapshotValidator() (*Validator, error) {
	s, err := jsonschema.CompileString(snapshotSchemaURL, snapshotSchema)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

func (v *Validator) Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return v.schema.Validate(doc)
}
