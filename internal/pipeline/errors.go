package pipeline

import "fmt"

// NotFoundError indicates no session exists with the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.ID)
}

// InvalidStateError indicates an operation was requested against a session
// whose lifecycle state cannot support it, e.g. resummarizing a session
// that never produced a transcript.
type InvalidStateError struct {
	ID     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session %s: %s", e.ID, e.Reason)
}

// SummarizationError indicates the summarizing stage failed. Rare: the
// extraction algorithm is deterministic and total over any string input.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}
