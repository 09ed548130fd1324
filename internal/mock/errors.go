package mock

import "fmt"

// MalformedMockDocumentError is returned when the mock document lacks the
// structure needed to read its interactions.
type MalformedMockDocumentError struct {
	PathOrURL string
	Reason    string
}

func (e *MalformedMockDocumentError) Error() string {
	return fmt.Sprintf("%q is not a valid mock file: %s", e.PathOrURL, e.Reason)
}
