package rewriting

import (
	"fmt"

	"github.com/jonathan/hiring-funnel/internal/types"
)

// RewriteError represents a failed rewrite of one stage explanation.
// The caller keeps the deterministic explanation when it sees one.
type RewriteError struct {
	Stage   types.Stage
	Message string
	Cause   error
}

func (e *RewriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite of %s explanation failed: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite of %s explanation failed: %s", e.Stage, e.Message)
}

func (e *RewriteError) Unwrap() error {
	return e.Cause
}
