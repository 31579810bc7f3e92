package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exist")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrUnauthenticated = errors.New("unauthorized")

	// Validation / hierarchy errors. ErrValidation is usually wrapped with
	// the offending field, e.g. fmt.Errorf("%w: missing name", ErrValidation).
	ErrValidation         = errors.New("validation error")
	ErrParentNotFound     = errors.New("parent not found")
	ErrParentNotAFolder   = errors.New("parent is not a folder")
	ErrFolderHasNoContent = errors.New("a folder doesn't have content")
	ErrUnknownMimeType    = errors.New("could not determine mime type")

	// Thumbnail pipeline errors. All of them are terminal.
	ErrMissingFileID      = errors.New("missing fileId")
	ErrMissingUserID      = errors.New("missing userId")
	ErrFileRecordNotFound = errors.New("file not found")
)
