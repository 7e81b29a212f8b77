package services

import "errors"

var (
	// ErrEmptyMessage rejects messages whose text is empty after trimming.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrInvalidConversation rejects operations on conversations that do
	// not exist or do not include the acting user.
	ErrInvalidConversation = errors.New("unknown conversation")
)
