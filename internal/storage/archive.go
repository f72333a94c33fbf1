package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/deep4kk/MERN-STACK-FMS/internal/utils"
)

// ErrObjectNotFound is returned when an archived object does not exist
var ErrObjectNotFound = errors.New("object not found")

// ArchiveStore stores exported report files. S3Store and LocalStore
// implement it so the export pipeline can switch backends by config.
type ArchiveStore interface {
	// Put uploads the object under key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	// URL returns the address the object can be fetched from
	URL(key string) string
	// Get opens the object and returns its content type
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// ReportKey is the archive key of a MIS report export:
// mis-reports/<YYYY-MM>/<jobID>.pdf
func ReportKey(year, month int, jobID string) string {
	return path.Join("mis-reports", utils.MonthKey(year, month), jobID+".pdf")
}

// cleanKey rejects keys that would escape the archive root
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	return cleaned, nil
}

func contentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	}
	return "application/octet-stream"
}
