package usecases

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/ticket/dto"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// UploadPolicy constrains accepted ticket images.
type UploadPolicy struct {
	TicketDir         string
	MaxBytes          int64
	AllowedExtensions []string
}

func (p UploadPolicy) allows(ext string) bool {
	for _, allowed := range p.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), ext) {
			return true
		}
	}
	return false
}

type UploadTicketImageCommand struct {
	common.RequestMeta
	TicketID    string
	Type        string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type UploadTicketImageUseCase struct {
	tx         db.Transactor
	ticketRepo ticket.TicketRepository
	imageRepo  ticket.ImageRepository
	eventRepo  ticket.EventRepository
	storage    FileStorage
	audit      AuditRecorder
	publisher  EventPublisher
	policy     UploadPolicy
	logger     logger.Interface
}

func NewUploadTicketImageUseCase(
	tx db.Transactor,
	ticketRepo ticket.TicketRepository,
	imageRepo ticket.ImageRepository,
	eventRepo ticket.EventRepository,
	storage FileStorage,
	audit AuditRecorder,
	publisher EventPublisher,
	policy UploadPolicy,
	logger logger.Interface,
) *UploadTicketImageUseCase {
	if policy.TicketDir == "" {
		policy.TicketDir = "tickets"
	}
	return &UploadTicketImageUseCase{
		tx:         tx,
		ticketRepo: ticketRepo,
		imageRepo:  imageRepo,
		eventRepo:  eventRepo,
		storage:    storage,
		audit:      audit,
		publisher:  publisher,
		policy:     policy,
		logger:     logger,
	}
}

func (uc *UploadTicketImageUseCase) Execute(ctx context.Context, cmd UploadTicketImageCommand) (*dto.ImageDTO, error) {
	uc.logger.Infow("executing upload ticket image use case",
		"ticket_id", cmd.TicketID,
		"file_name", cmd.FileName,
		"size", cmd.Size)

	imageType, ext, err := uc.validateCommand(cmd)
	if err != nil {
		uc.logger.Warnw("rejected ticket image", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, toAppError(err)
	}

	stored, err := uc.storage.Save(ctx, path.Join(uc.policy.TicketDir, t.ID()), ext, cmd.Content, uc.policy.MaxBytes)
	if err != nil {
		appErr := toAppError(err)
		if !errors.IsValidationError(appErr) {
			uc.logger.Errorw("failed to store ticket image", "ticket_id", t.ID(), "error", err)
		}
		return nil, appErr
	}

	img, err := ticket.NewImage(t.ID(), imageType, filepath.Base(cmd.FileName), stored.Path,
		cmd.ContentType, stored.Size, stored.Checksum, cmd.Actor())
	if err != nil {
		uc.discard(stored.Path)
		return nil, errors.NewValidationError(err.Error())
	}

	var event *ticket.Event
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.imageRepo.Create(ctx, img); err != nil {
			uc.logger.Errorw("failed to save ticket image", "ticket_id", t.ID(), "error", err)
			return errors.NewInternalError("failed to save image")
		}
		if imageType == vo.ImageReceipt {
			event = ticket.NewEvent(t.ID(), cmd.Actor(), vo.ActionUploadReceipt, map[string]any{
				"image_id":  img.ID,
				"file_name": img.FileName,
			})
			if err := uc.eventRepo.Append(ctx, event); err != nil {
				uc.logger.Errorw("failed to append upload event", "ticket_id", t.ID(), "error", err)
				return errors.NewInternalError("failed to save image")
			}
		}
		return uc.audit.RecordFor(ctx, cmd.RequestMeta, "ticket.upload_image", audit.TargetTicket, t.ID(), map[string]any{
			"image_id":   img.ID,
			"image_type": imageType.String(),
			"size_bytes": img.SizeBytes,
		})
	})
	if err != nil {
		uc.discard(stored.Path)
		if !errors.IsAppError(err) {
			return nil, errors.NewInternalError("failed to save image")
		}
		return nil, err
	}

	(&mutator{publisher: uc.publisher, logger: uc.logger}).publish(ctx, t, event)

	uc.logger.Infow("ticket image uploaded", "ticket_id", t.ID(), "image_id", img.ID, "type", imageType.String())
	return dto.ToImageDTO(img), nil
}

func (uc *UploadTicketImageUseCase) validateCommand(cmd UploadTicketImageCommand) (vo.ImageType, string, error) {
	if cmd.TicketID == "" {
		return "", "", errors.NewValidationError("ticket ID is required")
	}
	if cmd.Content == nil || strings.TrimSpace(cmd.FileName) == "" {
		return "", "", errors.NewValidationError("file is required")
	}
	imageType, err := vo.NewImageType(cmd.Type)
	if err != nil {
		return "", "", errors.NewValidationError(err.Error())
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(cmd.FileName), "."))
	if ext == "" || !uc.policy.allows(ext) {
		return "", "", errors.NewValidationError(
			fmt.Sprintf("unsupported file type, allowed: %s", strings.Join(uc.policy.AllowedExtensions, ", ")))
	}
	if !strings.HasPrefix(strings.ToLower(cmd.ContentType), "image/") {
		return "", "", errors.NewValidationError("file must be an image")
	}
	if uc.policy.MaxBytes > 0 && cmd.Size > uc.policy.MaxBytes {
		return "", "", errors.NewValidationError(ticket.ErrImageTooLarge.Error())
	}
	return imageType, ext, nil
}

func (uc *UploadTicketImageUseCase) discard(p string) {
	if err := uc.storage.Remove(p); err != nil {
		uc.logger.Warnw("failed to remove orphaned upload", "path", p, "error", err)
	}
}
