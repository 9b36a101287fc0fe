package storage

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

const playerPhotoPrefix = "players"

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores binary objects such as player photos.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// PlayerPhotoKey returns a new object key under the player's prefix.
func PlayerPhotoKey(playerID string) string {
	return playerPhotoPrefix + "/" + playerID + "/" + uuid.NewString()
}

// IsImage reports whether contentType names an image media type.
func IsImage(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}
