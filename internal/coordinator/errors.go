package coordinator

import (
	"fmt"
	"net/http"

	"github.com/dreamware/indexcoord/internal/metadata"
)

// ErrorKind identifies which branch of the create-index error taxonomy a
// CreateError belongs to.
type ErrorKind string

const (
	KindAlreadyExists   ErrorKind = "already_exists"
	KindInvalidName     ErrorKind = "invalid_name"
	KindMapperParsing   ErrorKind = "mapper_parsing"
	KindDirectoryCreate ErrorKind = "directory_create"
)

// CreateError is the error surfaced through a ResultListener's OnFailure for
// every pre-commit failure of a create-index call.
type CreateError struct {
	Kind      ErrorKind
	IndexName string
	Reason    metadata.NameErrorReason // set only when Kind == KindInvalidName
	Type      string                   // set only when Kind == KindMapperParsing
	Cause     error
}

func (e *CreateError) Error() string {
	switch e.Kind {
	case KindInvalidName:
		return fmt.Sprintf("invalid index name %q: %s", e.IndexName, e.Reason)
	case KindMapperParsing:
		return fmt.Sprintf("mapping type %q for index %q: %v", e.Type, e.IndexName, e.Cause)
	case KindAlreadyExists:
		return fmt.Sprintf("index %q already exists", e.IndexName)
	default:
		return fmt.Sprintf("creating index %q: %v", e.IndexName, e.Cause)
	}
}

func (e *CreateError) Unwrap() error { return e.Cause }

// HTTPStatus maps a CreateError's Kind to the status code cmd/coordinator's
// HTTP handler returns for it.
func (e *CreateError) HTTPStatus() int {
	switch e.Kind {
	case KindAlreadyExists:
		return http.StatusConflict
	case KindInvalidName, KindMapperParsing:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
