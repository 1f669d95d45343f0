package client

// Client is the company a project is billed to. It is the root level of the
// revenue attribution hierarchy.
type Client struct {
	ID int
	// Uid is the externally visible identifier.
	Uid  string
	Name string
}
