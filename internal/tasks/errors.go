package tasks

import "errors"

// Validation failures. Operations that return one of these leave the store
// unchanged; callers classify with errors.Is.
var (
	ErrInvalidKey      = errors.New("invalid list key")
	ErrUnknownList     = errors.New("unknown list")
	ErrInvalidTask     = errors.New("invalid task")
	ErrIndexOutOfRange = errors.New("task index out of range")
	ErrTaskNotFound    = errors.New("task not found")
)
