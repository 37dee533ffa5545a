package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrUploadFailure indicates an attachment could not be stored.
var ErrUploadFailure = errors.New("attachment upload failed")

// Uploader stores a binary attachment and returns its publicly reachable
// URL. This abstraction allows swapping the hosted blob store (production)
// for local disk (development) without changing the submission flow.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error)
}

// IsDataURI reports whether the value is an inline base64 image payload
// (as captured by the wizard's camera/signature widgets) rather than an
// already-uploaded URL.
func IsDataURI(value string) bool {
	return strings.HasPrefix(value, "data:image")
}

// DecodeDataURI splits a "data:image/...;base64,..." payload into its raw
// bytes and content type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	header, encoded, found := strings.Cut(uri, ",")
	if !found {
		return nil, "", fmt.Errorf("%w: malformed data URI", ErrUploadFailure)
	}

	contentType := "image/jpeg"
	if meta, ok := strings.CutPrefix(header, "data:"); ok {
		if ct, _, found := strings.Cut(meta, ";"); found && ct != "" {
			contentType = ct
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid base64 payload: %v", ErrUploadFailure, err)
	}
	return data, contentType, nil
}
