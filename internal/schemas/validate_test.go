package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobID = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestValidateRenderJob_Valid(t *testing.T) {
	err := ValidateRenderJob([]byte(`{"id": "` + jobID + `", "text": "Jane Doe", "template": "classic", "candidate_name": "Jane"}`))
	assert.NoError(t, err)

	err = ValidateRenderJob([]byte(`{"id": "` + jobID + `", "text": "Jane Doe"}`))
	assert.NoError(t, err)
}

func TestValidateRenderJob_MissingText(t *testing.T) {
	err := ValidateRenderJob([]byte(`{"id": "` + jobID + `"}`))
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err), "(root)")
	assert.Contains(t, err.Error(), "text")
}

func TestValidateRenderJob_BadID(t *testing.T) {
	err := ValidateRenderJob([]byte(`{"id": "job-1", "text": "x"}`))
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err), "id")
}

func TestValidateRenderJob_WrongTypes(t *testing.T) {
	err := ValidateRenderJob([]byte(`{"id": "` + jobID + `", "text": "", "template": 3}`))
	require.Error(t, err)
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "text")
	assert.Contains(t, fields, "template")
}

func TestValidateRenderJob_UnknownField(t *testing.T) {
	err := ValidateRenderJob([]byte(`{"id": "` + jobID + `", "text": "x", "priority": 1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "priority")
}

func TestValidateRenderJob_MalformedJSON(t *testing.T) {
	err := ValidateRenderJob([]byte(`{"id": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.schema.json", loadErr.Path)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "Jane"}`))
	assert.Error(t, ValidateJSONString(schema, `{"name": 1}`))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "id", Message: "bad"},
		{Field: "text", Message: "missing"},
	}}
	assert.Equal(t, "validation failed:\n  1. id: bad\n  2. text: missing\n", err.Error())
}
