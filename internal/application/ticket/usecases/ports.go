package usecases

import (
	"context"
	"io"

	"github.com/meidasupport/supportdesk/internal/application/common"
)

// AuditRecorder appends audit entries inside the caller's transaction.
type AuditRecorder interface {
	RecordFor(ctx context.Context, meta common.RequestMeta, action, targetType, targetID string, details map[string]any) error
}

// EventPublisher forwards committed ticket events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// TextSanitizer strips markup from user supplied free text.
type TextSanitizer interface {
	StripTags(s string) string
}

// StoredFile describes a file written by FileStorage.
type StoredFile struct {
	Path     string
	Size     int64
	Checksum string
}

// FileStorage persists uploaded files. Paths are relative to the storage root.
type FileStorage interface {
	// Save streams r into dir under a random name with ext. It fails with
	// ticket.ErrImageTooLarge once more than maxBytes have been read.
	Save(ctx context.Context, dir, ext string, r io.Reader, maxBytes int64) (*StoredFile, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}
