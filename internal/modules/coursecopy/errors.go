package coursecopy

import "fmt"

// StageError reports the copy stage that failed. Rows created by earlier
// stages are left in place.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
