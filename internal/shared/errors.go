package shared

import "fmt"

var (
	// Storage errors
	ErrNoteNotFound     = fmt.Errorf("note not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")

	// Scheduler errors
	ErrSchedulerClosed = fmt.Errorf("scheduler is shut down")

	// Wizard errors
	ErrInvalidSelection = fmt.Errorf("invalid selection")
	ErrFlowCancelled    = fmt.Errorf("time selection cancelled")
	ErrFlowIncomplete   = fmt.Errorf("time selection not finished")
)
