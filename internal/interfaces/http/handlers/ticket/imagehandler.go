package ticket

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/common"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

const (
	uploadFormField = "file"
	// sniffLen is the prefix read for content type detection.
	sniffLen = 3072
	// multipartOverhead allows for form field and boundary bytes on top of the file.
	multipartOverhead = 1 << 20
)

// ImageHandler uploads ticket images and serves stored receipts.
type ImageHandler struct {
	uploadUC       uploadImageUseCase
	listImagesUC   listImagesUseCase
	serveReceiptUC serveReceiptUseCase
	maxUploadBytes int64
	logger         logger.Interface
}

func NewImageHandler(
	uploadUC uploadImageUseCase,
	listImagesUC listImagesUseCase,
	serveReceiptUC serveReceiptUseCase,
	maxUploadBytes int64,
	logger logger.Interface,
) *ImageHandler {
	return &ImageHandler{
		uploadUC:       uploadUC,
		listImagesUC:   listImagesUC,
		serveReceiptUC: serveReceiptUC,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadImage handles POST /api/tickets/:id/images
//
//	@Summary	Upload a ticket image
//	@Tags		tickets
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"Ticket ID"
//	@Param		file	formData	file	true	"Image file"
//	@Param		type	formData	string	false	"RECEIPT, BEFORE, AFTER or PARTS (default RECEIPT)"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	400		{object}	utils.APIResponse
//	@Router		/api/tickets/{id}/images [post]
func (h *ImageHandler) UploadImage(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, header, err := c.Request.FormFile(uploadFormField)
	if err != nil {
		h.logger.Warnw("failed to get uploaded file", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("file is required"))
		return
	}
	defer file.Close()

	// Detect the content type from the bytes instead of trusting the client header.
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		h.logger.Errorw("failed to read uploaded file", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to process file"))
		return
	}
	head = head[:n]
	detected := mimetype.Detect(head)

	result, err := h.uploadUC.Execute(c.Request.Context(), usecases.UploadTicketImageCommand{
		RequestMeta: common.RequestMeta(c),
		TicketID:    ticketID,
		Type:        c.PostForm("type"),
		FileName:    header.Filename,
		ContentType: detected.String(),
		Size:        header.Size,
		Content:     io.MultiReader(bytes.NewReader(head), file),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Image uploaded")
}

// ListImages handles GET /api/tickets/:id/images
func (h *ImageHandler) ListImages(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	images, err := h.listImagesUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", images)
}

// ServeReceipt handles GET /api/files/ticket-receipt/:image_id
func (h *ImageHandler) ServeReceipt(c *gin.Context) {
	imageID, err := utils.ParseUUIDParam(c, "image_id", "image")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	file, err := h.serveReceiptUC.Execute(c.Request.Context(), imageID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer file.Content.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, file.Content, map[string]string{
		"Content-Disposition": "inline; filename=" + strconv.Quote(file.FileName),
		"Cache-Control":       "private, max-age=3600",
	})
}
