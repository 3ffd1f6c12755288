package localstore

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MapperParsingError reports that MapperService.Add rejected a mapping
// source document for a given type (spec.md §7's MapperParsingException).
type MapperParsingError struct {
	Type  string
	Cause error
}

func (e *MapperParsingError) Error() string {
	return fmt.Sprintf("mapping type %q: %v", e.Type, e.Cause)
}

func (e *MapperParsingError) Unwrap() error { return e.Cause }

// MapperService stands in for the external mapping parser (spec.md §1 lists
// it as out of scope; the core only calls Add and consumes its canonical
// source and error). This implementation rejects empty documents, documents
// that do not parse as well-formed YAML, and documents that parse to no
// value (null, or an empty scalar such as a bare tag like "!!!"), a stand-in
// for whatever grammar errors the real parser would catch, and canonicalizes
// everything else by trimming surrounding whitespace.
type MapperService struct {
	types map[string]string
}

// NewMapperService returns an empty MapperService for one index.
func NewMapperService() *MapperService {
	return &MapperService{types: make(map[string]string)}
}

// Add parses source for typeName and returns its canonical form. Calling
// Add again with a type's own canonical form must be a no-op that returns
// the same canonical form (spec.md §8: "canonicalization is idempotent").
func (m *MapperService) Add(typeName, source string) (string, error) {
	canonical := strings.TrimSpace(source)
	if canonical == "" {
		return "", &MapperParsingError{Type: typeName, Cause: fmt.Errorf("empty mapping source")}
	}
	var probe interface{}
	if err := yaml.Unmarshal([]byte(canonical), &probe); err != nil {
		return "", &MapperParsingError{Type: typeName, Cause: err}
	}
	if probe == nil || probe == "" {
		return "", &MapperParsingError{Type: typeName, Cause: fmt.Errorf("mapping source holds no value")}
	}
	m.types[typeName] = canonical
	return canonical, nil
}

// Types returns every type name registered so far.
func (m *MapperService) Types() []string {
	out := make([]string, 0, len(m.types))
	for t := range m.types {
		out = append(out, t)
	}
	return out
}
