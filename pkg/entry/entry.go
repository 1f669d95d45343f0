package entry

import (
	"errors"
	"time"
)

var (
	ErrNegativeMinutes = errors.New("entry has negative minutes")
	ErrMissingProject  = errors.New("entry has no project reference")
)

// TimesheetEntry is a raw, unrounded time record produced by an external
// time-tracking system. It is immutable input: the billing engine never
// mutates entries, it only aggregates them.
type TimesheetEntry struct {
	ID int
	// WorkDate is the calendar day the time was logged on.
	WorkDate time.Time
	// ProjectRef is the external project key; it is matched against
	// project.ExternalRef at billing time.
	ProjectRef string
	ClientRef  string
	// UserRef identifies the employee who logged the time.
	UserRef  string
	TaskName string
	// TotalMinutes is the raw, unrounded duration.
	TotalMinutes int
}

// Validate rejects entries the billing core must not consume, independent of
// whatever validation the ingestion pipeline performed upstream.
func (e TimesheetEntry) Validate() error {
	if e.TotalMinutes < 0 {
		return ErrNegativeMinutes
	}
	if e.ProjectRef == "" {
		return ErrMissingProject
	}
	return nil
}
