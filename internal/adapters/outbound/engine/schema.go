package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// ResponseSchema returns the JSON schema every engine response must satisfy.
func ResponseSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	s := reflector.Reflect(&Response{})
	// gojsonschema only understands drafts up to 7; the reflected document
	// uses no keywords beyond that, so the version marker is dropped.
	s.Version = ""
	s.ID = ""
	return json.MarshalIndent(s, "", "  ")
}

func responseSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := ResponseSchema()
		if err != nil {
			schemaErr = fmt.Errorf("building engine response schema: %w", err)
			return
		}
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	})
	return compiledSchema, schemaErr
}

// ResponseError lists the schema violations of an engine response.
type ResponseError struct {
	Problems []string
}

func (e *ResponseError) Error() string {
	return "invalid engine response: " + strings.Join(e.Problems, "; ")
}

func validateResponse(data []byte) error {
	schema, err := responseSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid engine response: %w", err)
	}
	if result.Valid() {
		return nil
	}

	respErr := &ResponseError{Problems: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		respErr.Problems = append(respErr.Problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return respErr
}
