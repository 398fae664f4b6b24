package chat

import "errors"

// Domain errors for chat and draft operations

var (
	ErrInvalidRole    = errors.New("message role must be user or assistant")
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrContentTooLong = errors.New("message content exceeds maximum length")
	ErrEmptyPrompt    = errors.New("draft prompt cannot be empty")

	ErrDraftNotFound         = errors.New("draft not found")
	ErrDraftAlreadyPublished = errors.New("draft is already published")
	ErrDraftDiscarded        = errors.New("draft has been discarded")
	ErrNotDraftOwner         = errors.New("only the draft owner can perform this action")
)
