package dataapi

import "github.com/kailas-cloud/dataapi/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidOptions     = domain.ErrInvalidOptions
	ErrInvalidCommand     = domain.ErrInvalidCommand
	ErrNamespaceRequired  = domain.ErrNamespaceRequired
	ErrCollectionNotFound = domain.ErrCollectionNotFound
	ErrRemote             = domain.ErrRemote
	ErrTransport          = domain.ErrTransport
	ErrTooManyDocuments   = domain.ErrTooManyDocuments
)

// APIError carries the error descriptors of a Data API reply. It matches ErrRemote.
type APIError = domain.APIError

// HTTPError reports a non-2xx reply. It matches ErrTransport.
type HTTPError = domain.HTTPError

// ErrorDescriptor is one entry of a reply's "errors" array.
type ErrorDescriptor = domain.ErrorDescriptor

// Error codes the client interprets.
const (
	CodeCollectionNotExist          = domain.CodeCollectionNotExist
	CodeExistingCollectionDifferent = domain.CodeExistingCollectionDifferent
	CodeKeyspaceNotExist            = domain.CodeKeyspaceNotExist
)
