package storage

import (
	"context"
	"io"
)

// Store saves uploaded image files under a generated filename and returns the
// URL clients use to fetch them.
type Store interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader, size int64) (url string, err error)
}
