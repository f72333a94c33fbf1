package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportKey(t *testing.T) {
	assert.Equal(t, "mis-reports/2024-02/job-1.pdf", ReportKey(2024, 2, "job-1"))
}

func TestCleanKey(t *testing.T) {
	key, err := cleanKey("mis-reports/2024-02/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "mis-reports/2024-02/a.pdf", key)

	for _, bad := range []string{"", "../etc/passwd", "a/../../b", "a//b"} {
		_, err := cleanKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8085/archive/")
	require.NoError(t, err)
	ctx := context.Background()

	key := ReportKey(2024, 5, "abc")
	require.NoError(t, store.Put(ctx, key, strings.NewReader("%PDF-1.3"), "application/pdf"))
	assert.Equal(t, "http://localhost:8085/archive/mis-reports/2024-05/abc.pdf", store.URL(key))

	body, contentType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
	assert.Equal(t, "application/pdf", contentType)
}

func TestLocalStoreMissingObject(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "mis-reports/2024-05/missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://reports.s3.ap-south-1.amazonaws.com/k.pdf", objectURL("", "reports", "ap-south-1", "k.pdf"))
	assert.Equal(t, "http://minio:9000/reports/k.pdf", objectURL("http://minio:9000", "reports", "", "k.pdf"))
}
