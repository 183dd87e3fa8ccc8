package assertions

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON Schema describing one endpoint's response.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

func CompileSchema(name, source string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompileSchema is CompileSchema for schemas embedded in the binary.
func MustCompileSchema(name, source string) *Schema {
	s, err := CompileSchema(name, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string {
	return s.name
}

// Validate checks body against the schema and returns a *ShapeError listing
// every violation.
func (s *Schema) Validate(body []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ShapeError{Subject: s.name, Problems: []string{"Invalid JSON response: " + err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &ShapeError{Subject: s.name, Problems: problems}
}
