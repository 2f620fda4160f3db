package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrParentNotFound      = errors.New("parent task not found")
	ErrSelfReference       = errors.New("task cannot depend on itself")
	ErrCycleWouldForm      = errors.New("dependency would create a cycle")
	ErrInvalidBatch        = errors.New("invalid import batch")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidKind         = errors.New("invalid kind")
	ErrInvalidDecompose    = errors.New("invalid decomposition type")
	ErrContainerStatus     = errors.New("container task status is derived from its children")
	ErrFailureReasonMisuse = errors.New("failure reason is only valid on failed tasks")
	ErrDependencyNotFound  = errors.New("dependency edge not found")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrNoChildren          = errors.New("decompose requires at least one child")
	ErrAlreadyInitialized  = errors.New("loom already initialized")
	ErrNotInitialized      = errors.New("loom not initialized (run 'loom init' first)")
)
