package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOptions signals collection options that fail local validation.
	ErrInvalidOptions = errors.New("invalid collection options")
	// ErrInvalidCommand signals a malformed raw command document.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrNamespaceRequired signals that neither the call nor the handle names a namespace.
	ErrNamespaceRequired = errors.New("namespace required")
	// ErrCollectionNotFound signals a collection missing from the namespace.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrRemote signals an error reported by the Data API in a response body.
	ErrRemote = errors.New("data api error")
	// ErrTransport signals a non-2xx HTTP response or an undecodable body.
	ErrTransport = errors.New("data api transport error")
	// ErrTooManyDocuments signals a count that exceeded the caller's upper bound.
	ErrTooManyDocuments = errors.New("too many documents to count")

	// ErrAlreadyExists signals a collection that exists with different settings.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDocumentExists signals a duplicate document _id.
	ErrDocumentExists = errors.New("document already exists")
	// ErrKeyspaceNotFound signals an unknown namespace.
	ErrKeyspaceNotFound = errors.New("keyspace not found")
	// ErrUnknownCommand signals an operation the server does not implement.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrVectorizeUnavailable signals $vectorize without a configured embedding service.
	ErrVectorizeUnavailable = errors.New("embedding service not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// Error codes carried in Data API responses.
const (
	CodeCollectionNotExist          = "COLLECTION_NOT_EXIST"
	CodeExistingCollectionDifferent = "EXISTING_COLLECTION_DIFFERENT_SETTINGS"
	CodeKeyspaceNotExist            = "KEYSPACE_DOES_NOT_EXIST"
	CodeUnknownCommand              = "UNKNOWN_COMMAND"
	CodeInvalidRequest              = "INVALID_REQUEST"
	CodeDocumentAlreadyExists       = "DOCUMENT_ALREADY_EXISTS"
	CodeVectorizeNotConfigured      = "EMBEDDING_SERVICE_NOT_CONFIGURED"
	CodeEmbeddingProviderError      = "EMBEDDING_PROVIDER_ERROR"
	CodeServerError                 = "SERVER_UNHANDLED_ERROR"
	CodeUnauthenticated             = "UNAUTHENTICATED_REQUEST"
)

// ErrorDescriptor is one entry of the "errors" array in a Data API response.
type ErrorDescriptor struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// APIError wraps ErrRemote with the error descriptors returned by the server.
type APIError struct {
	Operation string
	Errors    []ErrorDescriptor
	// Raw is the full decoded response, kept for callers that need status alongside errors.
	Raw map[string]any
}

func (e *APIError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		if d.ErrorCode != "" {
			msgs = append(msgs, d.ErrorCode+": "+d.Message)
			continue
		}
		msgs = append(msgs, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrRemote.Error(), e.Operation, strings.Join(msgs, "; "))
}

func (e *APIError) Unwrap() error { return ErrRemote }

// HasCode reports whether any descriptor carries the given error code.
func (e *APIError) HasCode(code string) bool {
	for _, d := range e.Errors {
		if d.ErrorCode == code {
			return true
		}
	}
	return false
}

// HTTPError wraps ErrTransport with the HTTP status and a body excerpt.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", ErrTransport.Error(), e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error { return ErrTransport }
