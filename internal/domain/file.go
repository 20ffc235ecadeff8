package domain

import "io"

// StoredFile is an open handle on an uploaded file. Callers must close Body.
type StoredFile struct {
	Name        string
	Body        io.ReadCloser
	Size        int64
	ContentType string
}
