package ticket

import (
	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

// BookingHandler accepts public service bookings. It needs no authentication.
type BookingHandler struct {
	createBookingUC createBookingUseCase
	logger          logger.Interface
}

func NewBookingHandler(createBookingUC createBookingUseCase, logger logger.Interface) *BookingHandler {
	registerValidators()
	return &BookingHandler{
		createBookingUC: createBookingUC,
		logger:          logger,
	}
}

// CreateBooking handles POST /api/public/booking
//
//	@Summary	Book a service appointment
//	@Tags		booking
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateBookingRequest	true	"Booking"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	400		{object}	utils.APIResponse
//	@Failure	429		{object}	utils.APIResponse
//	@Router		/api/public/booking [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid booking request", "error", err, "ip", c.ClientIP())
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createBookingUC.Execute(c.Request.Context(), req.ToCommand(c.ClientIP()))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Booking received")
}
