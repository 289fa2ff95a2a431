package ticket

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

type AppointmentHandler struct {
	exportUC exportAppointmentsUseCase
	statsUC  appointmentStatsUseCase
	logger   logger.Interface
}

func NewAppointmentHandler(exportUC exportAppointmentsUseCase, statsUC appointmentStatsUseCase, logger logger.Interface) *AppointmentHandler {
	return &AppointmentHandler{
		exportUC: exportUC,
		statsUC:  statsUC,
		logger:   logger,
	}
}

// Download handles GET /api/admin/appointments/download
//
//	@Summary	Download public bookings as CSV
//	@Tags		appointments
//	@Produce	text/csv
//	@Success	200
//	@Router		/api/admin/appointments/download [get]
func (h *AppointmentHandler) Download(c *gin.Context) {
	// Buffer the whole file so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.exportUC.Execute(c.Request.Context(), &buf); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+usecases.ExportFileName()+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Stats handles GET /api/admin/appointments/stats
func (h *AppointmentHandler) Stats(c *gin.Context) {
	result, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
