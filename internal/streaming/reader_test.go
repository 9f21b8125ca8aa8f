package streaming

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://example.com/a.mp3"))
	assert.True(t, IsRemote("https://example.com/a.mp3"))
	assert.False(t, IsRemote("/music/a.mp3"))
	assert.False(t, IsRemote("ftp://example.com/a.mp3"))
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio bytes"), 0644))

	rc, err := Open(context.Background(), path, DefaultBufferSize)
	require.NoError(t, err)
	defer rc.Close()

	_, seekable := rc.(io.Seeker)
	assert.True(t, seekable, "локальный файл должен поддерживать перемотку")

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "audio bytes", string(data))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), DefaultBufferSize)
	assert.Error(t, err)
}

func TestOpenRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "identity", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "bytes=0-", r.Header.Get("Range"))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("streamed"))
	}))
	defer server.Close()

	rc, err := Open(context.Background(), server.URL+"/track.mp3", 1024)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "streamed", string(data))
}

func TestOpenRemoteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := Open(context.Background(), server.URL+"/missing.mp3", 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
