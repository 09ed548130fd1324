package spec

import "fmt"

// MalformedSpecDocumentError is returned when the spec document lacks the
// top-level structure needed to read its operations.
type MalformedSpecDocumentError struct {
	PathOrURL string
	Reason    string
}

func (e *MalformedSpecDocumentError) Error() string {
	return fmt.Sprintf("%q is not a valid swagger file: %s", e.PathOrURL, e.Reason)
}
