package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_EmbeddedSchema(t *testing.T) {
	stdout, _, err := execute(t, "validate", "--schema", "analysis_request", "--json", filepath.Join("testdata", "request.json"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}

func TestValidateCommand_SchemaFile(t *testing.T) {
	schemaPath := filepath.Join("..", "..", "internal", "schemas", "analysis_request.schema.json")

	stdout, _, err := execute(t, "validate", "--schema", schemaPath, "--json", filepath.Join("testdata", "request.json"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")
}

func TestValidateCommand_Failure(t *testing.T) {
	_, stderr, err := execute(t, "validate", "--schema", "analysis_request", "--json", filepath.Join("testdata", "invalid_request.json"))
	require.Error(t, err)
	assert.Contains(t, stderr, "Validation failed")
	assert.Contains(t, stderr, "job_description")
}

func TestValidateCommand_MissingFlags(t *testing.T) {
	_, _, err := execute(t, "validate", "--json", filepath.Join("testdata", "request.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}
