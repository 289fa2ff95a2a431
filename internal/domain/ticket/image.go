package ticket

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/biztime"
	"github.com/meidasupport/supportdesk/internal/shared/constants"
)

// Image is a photo attached to a ticket. Receipts gate completion.
type Image struct {
	ID               string
	TicketID         string
	Type             vo.ImageType
	FileName         string
	FilePath         string
	MimeType         string
	SizeBytes        int64
	ChecksumSHA256   string
	UploadedByUserID *uint
	UploadedAt       time.Time
}

func NewImage(ticketID string, imageType vo.ImageType, fileName, filePath, mimeType string, size int64, checksum string, uploader *uint) (*Image, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if !imageType.IsValid() {
		return nil, fmt.Errorf("invalid image type %q", imageType)
	}
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}
	return &Image{
		ID:               uuid.NewString(),
		TicketID:         ticketID,
		Type:             imageType,
		FileName:         fileName,
		FilePath:         filePath,
		MimeType:         mimeType,
		SizeBytes:        size,
		ChecksumSHA256:   checksum,
		UploadedByUserID: uploader,
		UploadedAt:       biztime.NowUTC(),
	}, nil
}

func (i *Image) URL() string {
	return constants.ReceiptFileRoute + i.ID
}
