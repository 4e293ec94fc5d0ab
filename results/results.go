// Package results loads and validates test result input files.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/tmbridge/tmbridge/model"
	schemafs "github.com/tmbridge/tmbridge/schema"
)

var (
	resultsSchema *jsonschema.Schema
	compileOnce   sync.Once
	compileErr    error
)

// compileSchema compiles the embedded results schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		data, err := schemafs.FS.ReadFile("results.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read results schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal results schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("results.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add results schema resource: %w", err)
			return
		}

		resultsSchema, compileErr = compiler.Compile("results.schema.json")
	})

	return compileErr
}

// Validate checks JSON data against the results file schema.
func Validate(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := resultsSchema.Validate(v); err != nil {
		return fmt.Errorf("results validation failed: %w", err)
	}

	return nil
}

// entry mirrors one element of the results file.
type entry struct {
	TestID  int    `json:"test_id"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Elapsed string `json:"elapsed"`
}

// Parse validates and decodes a results document into model values,
// preserving input order.
func Parse(data []byte) ([]model.Result, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}

	out := make([]model.Result, 0, len(entries))
	for _, e := range entries {
		status, err := model.ParseStatus(e.Status)
		if err != nil {
			return nil, fmt.Errorf("test %d: %w", e.TestID, err)
		}
		out = append(out, model.Result{
			TestID:  e.TestID,
			Status:  status,
			Comment: e.Comment,
			Elapsed: e.Elapsed,
		})
	}

	return out, nil
}

// Load reads and parses a results file.
func Load(path string) ([]model.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	return Parse(data)
}
