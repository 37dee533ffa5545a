package blob

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDataURI(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDataURI("data:image/png;base64,aGVsbG8="))
	assert.True(t, IsDataURI("data:image/jpeg;base64,aGVsbG8="))
	assert.False(t, IsDataURI("https://blob.example/stamp-1.jpg"))
	assert.False(t, IsDataURI(""))
	assert.False(t, IsDataURI("data:text/plain;base64,aGVsbG8="))
}

func TestDecodeDataURI(t *testing.T) {
	t.Parallel()

	payload := []byte("fake image bytes")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, contentType, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", contentType)
}

func TestDecodeDataURI_DefaultContentType(t *testing.T) {
	t.Parallel()

	uri := "data:;base64," + base64.StdEncoding.EncodeToString([]byte("x"))

	_, contentType, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestDecodeDataURI_Malformed(t *testing.T) {
	t.Parallel()

	_, _, err := DecodeDataURI("data:image/png;base64")
	assert.ErrorIs(t, err, ErrUploadFailure)

	_, _, err = DecodeDataURI("data:image/png;base64,!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrUploadFailure)
}

func TestLocalUploader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "http://localhost:8080/static/uploads")
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), "stamp-1710403200000.jpg", []byte("image bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/uploads/stamp-1710403200000.jpg", url)

	stored, err := os.ReadFile(filepath.Join(dir, "stamp-1710403200000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), stored)
}

func TestHTTPUploader(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/stamp-1.jpg", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("image bytes"), body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://blob.example/stamp-1.jpg"}`))
	}))
	defer server.Close()

	u := NewHTTPUploader(server.URL, "test-token")
	url, err := u.Upload(context.Background(), "stamp-1.jpg", []byte("image bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://blob.example/stamp-1.jpg", url)
}

func TestHTTPUploader_StoreError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	u := NewHTTPUploader(server.URL, "test-token")
	_, err := u.Upload(context.Background(), "stamp-1.jpg", []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, ErrUploadFailure)
}

func TestLocalUploader_StripsPathComponents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "http://localhost:8080/static/uploads")
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), "../../etc/stamp.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/uploads/stamp.jpg", url)

	_, err = os.Stat(filepath.Join(dir, "stamp.jpg"))
	assert.NoError(t, err, "file lands inside the upload dir")
}
