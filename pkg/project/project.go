package project

// Project is the canonical billing entity. Timesheet entries produced by
// external time-tracking systems reference it through ExternalRef; entries
// whose reference matches no project are excluded from billing and counted.
type Project struct {
	ID int
	// Uid is the externally visible identifier.
	Uid  string
	Name string
	// ClientID links the project to the company it is billed to.
	ClientID int
	// ExternalRef is the project key used by the ingestion pipeline.
	ExternalRef string
}
