package loader

import "fmt"

// UndecodableDocumentError is returned when a document is neither JSON nor YAML.
type UndecodableDocumentError struct {
	PathOrURL string
	Wrapped   error
}

func (e *UndecodableDocumentError) Error() string {
	return fmt.Sprintf("unable to parse %q as json or yaml: %v", e.PathOrURL, e.Wrapped)
}

func (e *UndecodableDocumentError) Unwrap() error {
	return e.Wrapped
}

// HTTPStatusError is returned when fetching a URL answers with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unable to fetch %q: server responded with status %d", e.URL, e.StatusCode)
}
