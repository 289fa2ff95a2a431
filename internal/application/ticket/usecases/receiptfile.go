package usecases

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type ReceiptFile struct {
	Content  io.ReadCloser
	FileName string
	MimeType string
	Size     int64
}

type ServeReceiptFileUseCase struct {
	imageRepo ticket.ImageRepository
	storage   FileStorage
	logger    logger.Interface
}

func NewServeReceiptFileUseCase(imageRepo ticket.ImageRepository, storage FileStorage, logger logger.Interface) *ServeReceiptFileUseCase {
	return &ServeReceiptFileUseCase{imageRepo: imageRepo, storage: storage, logger: logger}
}

// Execute opens the stored image. The caller closes Content.
func (uc *ServeReceiptFileUseCase) Execute(ctx context.Context, imageID string) (*ReceiptFile, error) {
	img, err := uc.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, toAppError(err)
	}
	f, err := uc.storage.Open(img.FilePath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			uc.logger.Warnw("receipt file missing on disk", "image_id", imageID, "path", img.FilePath)
			return nil, errors.NewNotFoundError("file not found")
		}
		uc.logger.Errorw("failed to open receipt file", "image_id", imageID, "error", err)
		return nil, errors.NewInternalError("failed to open file")
	}
	mime := img.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return &ReceiptFile{
		Content:  f,
		FileName: img.FileName,
		MimeType: mime,
		Size:     img.SizeBytes,
	}, nil
}
