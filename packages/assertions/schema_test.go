package assertions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const progressSchema = `{
  "type": "object",
  "required": ["progress"],
  "properties": {
    "progress": {
      "type": "object",
      "required": ["profileCompletion", "coursesCompleted"]
    }
  }
}`

func TestSchema_Validate(t *testing.T) {
	s := MustCompileSchema("dashboard", progressSchema)
	assert.Equal(t, "dashboard", s.Name())

	assert.NoError(t, s.Validate([]byte(`{"progress":{"profileCompletion":85,"coursesCompleted":2}}`)))

	err := s.Validate([]byte(`{"progress":{"profileCompletion":85}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard:")
	assert.Contains(t, err.Error(), "coursesCompleted is required")

	err = s.Validate([]byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress is required")
}

func TestSchema_InvalidJSONBody(t *testing.T) {
	s := MustCompileSchema("dashboard", progressSchema)
	err := s.Validate([]byte(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid JSON response")
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema("broken", `{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompileSchema("broken", `{`) })
}
